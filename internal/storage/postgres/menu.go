package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/storage/codec"
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns the full catalog ordered by category, then id.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, category, available, variations
		FROM menu_items
		ORDER BY category, id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "listing menu items")
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing menu items")
	}
	return items, nil
}

// GetByID returns a single menu item by its identifier.
// Returns menu.ErrNotFound when no matching item exists.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, price, category, available, variations
		FROM menu_items
		WHERE id = $1`,
		id,
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting menu item %q", id)
	}
	return &item, nil
}

// RestaurantInfo returns the restaurant identity row.
func (r *MenuRepository) RestaurantInfo(ctx context.Context) (*menu.RestaurantInfo, error) {
	var info menu.RestaurantInfo
	err := r.pool.QueryRow(ctx, `
		SELECT name, description, address, phone
		FROM restaurant_info
		WHERE id = 1`,
	).Scan(&info.Name, &info.Description, &info.Address, &info.Phone)
	if err != nil {
		return nil, errors.Wrap(err, "getting restaurant info")
	}
	return &info, nil
}

func scanItem(row pgx.Row) (menu.Item, error) {
	var (
		item          menu.Item
		price         decimal.Decimal
		category      string
		variationsRaw []byte
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &category, &item.Available, &variationsRaw)
	if err != nil {
		return menu.Item{}, err
	}
	item.Price = price
	item.Category = menu.Category(category)

	if len(variationsRaw) > 0 {
		groups, err := codec.DecodeVariations(variationsRaw)
		if err != nil {
			return menu.Item{}, errors.Wrapf(err, "decoding variations for %q", item.ID)
		}
		item.Variations = groups
	}
	return item, nil
}
