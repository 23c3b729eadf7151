package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/warung-digital/internal/domain/order"
	"github.com/xenking/warung-digital/internal/storage/codec"
)

var (
	_ order.Repository   = (*OrderRepository)(nil)
	_ order.Connectivity = (*PoolConnectivity)(nil)
)

// OrderRepository implements order.Repository backed by PostgreSQL. The full
// record is a JSONB document; total and status are duplicated into columns so
// the cashier side can query without unpacking documents.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Save persists a new order under its id.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_records (id, table_number, total, status, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.TableNumber, o.Total, string(o.Status), codec.EncodeOrder(o), o.Timestamp,
	)
	if err != nil {
		return errors.Wrapf(err, "saving order %q", o.ID)
	}
	return nil
}

// Load returns the order persisted under id.
// Returns order.ErrOrderNotFound when the id is unknown.
func (r *OrderRepository) Load(ctx context.Context, id string) (*order.Order, error) {
	var record []byte
	err := r.pool.QueryRow(ctx, `
		SELECT record FROM order_records WHERE id = $1`,
		id,
	).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "loading order %q", id)
	}
	return codec.DecodeOrder(record)
}

// AppendHistory appends the order id to the order-history index.
func (r *OrderRepository) AppendHistory(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_history (order_id) VALUES ($1)`,
		id,
	)
	if err != nil {
		return errors.Wrapf(err, "appending order %q to history", id)
	}
	return nil
}

// History returns all order ids in submission order.
func (r *OrderRepository) History(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id FROM order_history ORDER BY position`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "loading order history")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning order history")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "loading order history")
	}
	return ids, nil
}

// PoolConnectivity reports connectivity by pinging the database pool.
// It backs the pre-submission online check.
type PoolConnectivity struct {
	pool *pgxpool.Pool
}

// NewPoolConnectivity returns a Connectivity probe over the given pool.
func NewPoolConnectivity(pool *pgxpool.Pool) *PoolConnectivity {
	return &PoolConnectivity{pool: pool}
}

func (c *PoolConnectivity) Online(ctx context.Context) bool {
	return c.pool.Ping(ctx) == nil
}
