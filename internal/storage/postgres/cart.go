package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/storage/codec"
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. The whole
// cart is one JSONB document keyed by table number; per-table carts never
// race because each table addresses a distinct row.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Save upserts the cart record for its table.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_records (table_number, record, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (table_number)
		DO UPDATE SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`,
		c.TableNumber, codec.EncodeCart(c), c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "saving cart for table %q", c.TableNumber)
	}
	return nil
}

// Load returns the cart persisted for the table.
// Returns cart.ErrNotFound when no record exists.
func (r *CartRepository) Load(ctx context.Context, tableNumber string) (*cart.Cart, error) {
	var record []byte
	err := r.pool.QueryRow(ctx, `
		SELECT record FROM cart_records WHERE table_number = $1`,
		tableNumber,
	).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, errors.Wrapf(err, "loading cart for table %q", tableNumber)
	}
	return codec.DecodeCart(record)
}

// Delete removes the cart record for the table. Deleting an absent cart is
// not an error.
func (r *CartRepository) Delete(ctx context.Context, tableNumber string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM cart_records WHERE table_number = $1`,
		tableNumber,
	)
	if err != nil {
		return errors.Wrapf(err, "deleting cart for table %q", tableNumber)
	}
	return nil
}
