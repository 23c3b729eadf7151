package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/warung-digital/internal/domain/cart"
)

// Service encapsulates session lifecycle and order submission. It owns the
// session and order repositories and drives the cart store for the
// snapshot-then-clear step of submission.
type Service struct {
	sessions SessionRepository
	orders   Repository
	carts    *cart.Store
	online   Connectivity
	lg       *zap.Logger

	now          func() time.Time
	newSessionID func() string
	newOrderID   func(time.Time) string
}

// NewService creates an order Service with the required dependencies.
func NewService(
	sessions SessionRepository,
	orders Repository,
	carts *cart.Store,
	online Connectivity,
	lg *zap.Logger,
) *Service {
	return &Service{
		sessions:     sessions,
		orders:       orders,
		carts:        carts,
		online:       online,
		lg:           lg,
		now:          time.Now,
		newSessionID: NewSessionID,
		newOrderID:   NewOrderID,
	}
}

// WithClock replaces the service's time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerators replaces the session and order id generators.
// Intended for tests.
func (s *Service) WithIDGenerators(sessionID func() string, orderID func(time.Time) string) *Service {
	s.newSessionID = sessionID
	s.newOrderID = orderID
	return s
}

// CreateSession starts a fresh ordering session for the table, overwriting
// any prior session persisted under the same table number.
func (s *Service) CreateSession(ctx context.Context, tableNumber string) (*Session, error) {
	sess := &Session{
		TableNumber: tableNumber,
		SessionID:   s.newSessionID(),
		StartTime:   s.now(),
		Cart:        []cart.Line{},
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return sess, nil
}

// GetSession returns the persisted session for the table, with StartTime
// restored from its stored textual form. Both a missing session and an
// unreadable record surface as ErrSessionNotFound; the latter is logged.
func (s *Service) GetSession(ctx context.Context, tableNumber string) (*Session, error) {
	sess, err := s.sessions.Load(ctx, tableNumber)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.lg.Warn("session load failed, treating as absent",
				zap.String("table", tableNumber),
				zap.Error(err),
			)
		}
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// SubmitOrder finalizes the table's cart into an order: it snapshots the
// cart lines by value, persists the order under a fresh id, appends the id
// to the order-history index, and clears the cart.
//
// The connectivity probe runs before any state mutation, so an offline
// rejection is always safe to retry. Clearing the cart is a cleanup step,
// not a precondition for receipt retrieval: if the clear fails, the order
// has already been persisted and stays valid.
func (s *Service) SubmitOrder(ctx context.Context, tableNumber, notes string) (*Order, error) {
	if !s.online.Online(ctx) {
		return nil, ErrOffline
	}

	c := s.carts.Load(ctx, tableNumber)
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := c.Clone()
	now := s.now()
	o := &Order{
		ID:          s.newOrderID(now),
		TableNumber: tableNumber,
		Items:       snapshot.Lines,
		Total:       snapshot.Total(),
		Timestamp:   now,
		Status:      StatusSubmitted,
		Notes:       notes,
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}

	if err := s.orders.AppendHistory(ctx, o.ID); err != nil {
		s.lg.Warn("order history append failed",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	if err := s.carts.Clear(ctx, tableNumber); err != nil {
		s.lg.Warn("cart clear after submit failed",
			zap.String("table", tableNumber),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	return o, nil
}

// GetOrder returns the persisted order with its timestamp restored. Missing
// and unreadable records both surface as ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) {
			s.lg.Warn("order load failed, treating as absent",
				zap.String("order_id", id),
				zap.Error(err),
			)
		}
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// History returns the ids of all submitted orders in submission order.
func (s *Service) History(ctx context.Context) ([]string, error) {
	ids, err := s.orders.History(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load order history")
	}
	return ids, nil
}

// NewSessionID returns an opaque unique session token.
func NewSessionID() string {
	return uuid.New().String()
}

// orderIDAlphabet matches the base36 suffix of receipt numbers printed for
// the cashier: digits and uppercase letters only.
const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderID returns a human-legible, collision-resistant order id of the
// form ORD-<unix milliseconds>-<5 random base36 chars>. Collisions would
// require two submissions in the same millisecond drawing the same suffix,
// which is negligible at the scale of one restaurant's tables.
func NewOrderID(now time.Time) string {
	var b strings.Builder
	for range 5 {
		b.WriteByte(orderIDAlphabet[rand.IntN(len(orderIDAlphabet))])
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), b.String())
}
