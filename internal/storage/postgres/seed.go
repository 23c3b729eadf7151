package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/storage/codec"
)

// SeedDocument is the parsed form of the embedded catalog seed file.
type SeedDocument struct {
	Restaurant menu.RestaurantInfo
	Items      []menu.Item
}

// ParseMenuSeed parses the seed JSON document. Unknown keys are rejected so
// a typo in the seed file fails loudly instead of silently dropping data.
func ParseMenuSeed(data []byte) (*SeedDocument, error) {
	doc := &SeedDocument{}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "restaurant":
			return decodeSeedRestaurant(d, &doc.Restaurant)
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeSeedItem(d)
				if err != nil {
					return err
				}
				doc.Items = append(doc.Items, item)
				return nil
			})
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse menu seed")
	}
	return doc, nil
}

func decodeSeedRestaurant(d *jx.Decoder, info *menu.RestaurantInfo) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		v, err := d.Str()
		if err != nil {
			return err
		}
		switch key {
		case "name":
			info.Name = v
		case "description":
			info.Description = v
		case "address":
			info.Address = v
		case "phone":
			info.Phone = v
		default:
			return errors.Errorf("unexpected key %q", key)
		}
		return nil
	})
}

func decodeSeedItem(d *jx.Decoder) (menu.Item, error) {
	var item menu.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.ID = v
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.Name = v
		case "description":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.Description = v
		case "price":
			n, err := d.Num()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(n.String())
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			item.Price = price
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.Category = menu.Category(v)
		case "available":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			item.Available = v
		case "variations":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			groups, err := codec.DecodeVariations(raw)
			if err != nil {
				return err
			}
			item.Variations = groups
		default:
			return errors.Errorf("unexpected key %q", key)
		}
		return nil
	})
	if err != nil {
		return menu.Item{}, errors.Wrapf(err, "decode seed item %q", item.ID)
	}
	return item, nil
}

// CatalogCount returns the number of rows in menu_items. Used to decide
// whether the startup seed should run.
func CatalogCount(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var count int
	err := pool.QueryRow(ctx, `SELECT count(*) FROM menu_items`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "count menu items")
	}
	return count, nil
}

// UpsertRestaurantInfo writes the single restaurant identity row.
func UpsertRestaurantInfo(ctx context.Context, pool *pgxpool.Pool, info menu.RestaurantInfo) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO restaurant_info (id, name, description, address, phone)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone`,
		info.Name, info.Description, info.Address, info.Phone,
	)
	if err != nil {
		return errors.Wrap(err, "upsert restaurant info")
	}
	return nil
}

// UpsertMenuItem inserts or updates one catalog row. Variations are stored
// as a single document column.
func UpsertMenuItem(ctx context.Context, pool *pgxpool.Pool, item menu.Item) error {
	var variations []byte
	if len(item.Variations) > 0 {
		variations = codec.EncodeVariations(item.Variations)
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, description, price, category, available, variations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			available = EXCLUDED.available,
			variations = EXCLUDED.variations`,
		item.ID, item.Name, item.Description, item.Price, string(item.Category), item.Available, variations,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert menu item %q", item.ID)
	}
	return nil
}

// SeedCatalog writes the restaurant row and all catalog items, fanning out
// one goroutine per category.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool, doc *SeedDocument) error {
	if err := UpsertRestaurantInfo(ctx, pool, doc.Restaurant); err != nil {
		return err
	}

	byCategory := make(map[menu.Category][]menu.Item)
	for _, item := range doc.Items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, items := range byCategory {
		g.Go(func() error {
			for _, item := range items {
				if err := UpsertMenuItem(gctx, pool, item); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
