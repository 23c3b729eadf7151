package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/warung-digital/internal/domain/order"
	"github.com/xenking/warung-digital/internal/storage/codec"
)

var _ order.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements order.SessionRepository backed by PostgreSQL.
// One row per table; saving overwrites any prior session for the table.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a SessionRepository that uses the given pool.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save upserts the session record for its table.
func (r *SessionRepository) Save(ctx context.Context, s *order.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_records (table_number, record, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (table_number)
		DO UPDATE SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`,
		s.TableNumber, codec.EncodeSession(s), s.StartTime,
	)
	if err != nil {
		return errors.Wrapf(err, "saving session for table %q", s.TableNumber)
	}
	return nil
}

// Load returns the session persisted for the table.
// Returns order.ErrSessionNotFound when no record exists.
func (r *SessionRepository) Load(ctx context.Context, tableNumber string) (*order.Session, error) {
	var record []byte
	err := r.pool.QueryRow(ctx, `
		SELECT record FROM session_records WHERE table_number = $1`,
		tableNumber,
	).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrSessionNotFound
		}
		return nil, errors.Wrapf(err, "loading session for table %q", tableNumber)
	}
	return codec.DecodeSession(record)
}
