// Command seed-db loads the embedded menu catalog into PostgreSQL.
// It is idempotent: existing rows are updated in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/xenking/warung-digital/db"
	"github.com/xenking/warung-digital/internal/storage/postgres"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
		timeout     = flag.Duration("timeout", time.Minute, "overall seeding timeout")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "database URL is required: pass -database-url or set DATABASE_URL")
		os.Exit(2)
	}

	if err := run(*databaseURL, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "seed-db:", err)
		os.Exit(1)
	}
}

func run(databaseURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	doc, err := postgres.ParseMenuSeed(db.MenuSeed)
	if err != nil {
		return err
	}
	if err := postgres.SeedCatalog(ctx, pool, doc); err != nil {
		return err
	}

	fmt.Printf("seeded %d menu items for %q\n", len(doc.Items), doc.Restaurant.Name)
	return nil
}
