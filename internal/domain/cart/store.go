package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/pricing"
)

// Store implements the table-scoped cart operations on top of an injected
// Repository. Every mutation persists the resulting cart before returning.
//
// Storage failures degrade rather than propagate: a failed load yields an
// empty cart and a failed save leaves the previously persisted state in
// place. Both are logged.
type Store struct {
	repo Repository
	lg   *zap.Logger
	now  func() time.Time
}

// NewStore creates a cart Store backed by the given repository.
func NewStore(repo Repository, lg *zap.Logger) *Store {
	return &Store{
		repo: repo,
		lg:   lg,
		now:  time.Now,
	}
}

// WithClock replaces the store's time source. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// AddItem adds one unit of the given item to the table's cart. When a line
// with the same item and selection already exists, its quantity is
// incremented in place and its notes are replaced only if the new notes are
// non-empty; otherwise a new line with quantity 1 is appended.
func (s *Store) AddItem(ctx context.Context, tableNumber string, item menu.Item, sel menu.Selection, notes string) (*Cart, error) {
	c := s.Load(ctx, tableNumber)

	for i := range c.Lines {
		if !c.Lines[i].Merges(item.ID, sel) {
			continue
		}
		line := &c.Lines[i]
		line.Quantity++
		subtotal, err := pricing.LineSubtotal(line.Item, line.Selection, line.Quantity)
		if err != nil {
			return nil, errors.Wrap(err, "recompute subtotal")
		}
		line.Subtotal = subtotal
		if notes != "" {
			line.Notes = notes
		}
		s.persist(ctx, c)
		return c, nil
	}

	subtotal, err := pricing.LineSubtotal(item, sel, 1)
	if err != nil {
		return nil, err
	}
	c.Lines = append(c.Lines, Line{
		Item:      item,
		Quantity:  1,
		Selection: sel,
		Notes:     notes,
		Subtotal:  subtotal,
	})
	s.persist(ctx, c)
	return c, nil
}

// UpdateQuantity replaces the quantity of the line at index and recomputes
// its subtotal. A quantity of zero or less removes the line entirely.
func (s *Store) UpdateQuantity(ctx context.Context, tableNumber string, index, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, tableNumber, index)
	}

	c := s.Load(ctx, tableNumber)
	if index < 0 || index >= len(c.Lines) {
		return nil, &IndexOutOfRangeError{Index: index, Len: len(c.Lines)}
	}

	line := &c.Lines[index]
	line.Quantity = quantity
	subtotal, err := pricing.LineSubtotal(line.Item, line.Selection, quantity)
	if err != nil {
		return nil, errors.Wrap(err, "recompute subtotal")
	}
	line.Subtotal = subtotal

	s.persist(ctx, c)
	return c, nil
}

// UpdateNotes replaces the notes of the line at index. The subtotal is left
// untouched: notes never affect pricing.
func (s *Store) UpdateNotes(ctx context.Context, tableNumber string, index int, notes string) (*Cart, error) {
	c := s.Load(ctx, tableNumber)
	if index < 0 || index >= len(c.Lines) {
		return nil, &IndexOutOfRangeError{Index: index, Len: len(c.Lines)}
	}

	c.Lines[index].Notes = notes
	s.persist(ctx, c)
	return c, nil
}

// RemoveLine deletes the line at index, preserving the order of the rest.
func (s *Store) RemoveLine(ctx context.Context, tableNumber string, index int) (*Cart, error) {
	c := s.Load(ctx, tableNumber)
	if index < 0 || index >= len(c.Lines) {
		return nil, &IndexOutOfRangeError{Index: index, Len: len(c.Lines)}
	}

	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	s.persist(ctx, c)
	return c, nil
}

// Load returns the persisted cart for the table, or an empty cart when none
// exists. It never fails: a missing or unreadable record degrades to an
// empty cart with the anomaly logged.
func (s *Store) Load(ctx context.Context, tableNumber string) *Cart {
	c, err := s.repo.Load(ctx, tableNumber)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.lg.Warn("cart load failed, falling back to empty cart",
				zap.String("table", tableNumber),
				zap.Error(err),
			)
		}
		return &Cart{TableNumber: tableNumber}
	}
	return c
}

// Clear deletes the persisted cart record for the table.
func (s *Store) Clear(ctx context.Context, tableNumber string) error {
	if err := s.repo.Delete(ctx, tableNumber); err != nil {
		return errors.Wrap(err, "delete cart")
	}
	return nil
}

// persist saves the cart, stamping the record timestamp. Save failures are
// logged and swallowed: the previously persisted state stays in place and
// the caller still gets the computed cart.
func (s *Store) persist(ctx context.Context, c *Cart) {
	c.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, c); err != nil {
		s.lg.Error("cart save failed",
			zap.String("table", c.TableNumber),
			zap.Error(err),
		)
	}
}
