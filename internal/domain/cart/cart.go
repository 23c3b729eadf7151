package cart

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/pricing"
)

// MaxLineNotesLen bounds the free-text notes attached to a single cart line.
// Enforced at the API boundary; the store itself only publishes the contract.
const MaxLineNotesLen = 100

// ErrNotFound is returned by repositories when no cart is persisted for a table.
var ErrNotFound = errors.New("cart not found")

// IndexOutOfRangeError indicates a line index that does not exist in the
// currently persisted cart.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("line index %d out of range for cart with %d lines", e.Index, e.Len)
}

// Line is one entry in a cart: a menu item snapshot, a quantity, the chosen
// variation options, optional notes, and the stored subtotal.
//
// Invariant: Subtotal == UnitPrice(Item, Selection) * Quantity, recomputed on
// every mutation and never left stale.
type Line struct {
	Item      menu.Item
	Quantity  int
	Selection menu.Selection
	Notes     string
	Subtotal  decimal.Decimal
}

// Merges reports whether a new line for (item, sel) should be folded into
// this line instead of being appended: same menu item and same selection.
func (l Line) Merges(itemID string, sel menu.Selection) bool {
	return l.Item.ID == itemID && maps.Equal(l.Selection, sel)
}

// Clone returns a deep copy of the line. Order snapshots must not share
// mutable state with the live cart.
func (l Line) Clone() Line {
	c := l
	c.Selection = maps.Clone(l.Selection)
	if l.Item.Variations != nil {
		groups := make([]menu.VariationGroup, len(l.Item.Variations))
		for i, g := range l.Item.Variations {
			groups[i] = menu.VariationGroup{
				Name:    g.Name,
				Options: append([]menu.VariationOption(nil), g.Options...),
			}
		}
		c.Item.Variations = groups
	}
	return c
}

// Cart is the ordered sequence of lines for one table. Line order is insertion
// order and stays stable across merges.
type Cart struct {
	TableNumber string
	Lines       []Line
	UpdatedAt   time.Time
}

// Total returns the sum of the stored line subtotals.
func (c *Cart) Total() decimal.Decimal {
	return pricing.CartTotal(c.pricingLines())
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	return pricing.TotalItemCount(c.pricingLines())
}

func (c *Cart) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = pricing.Line{Subtotal: l.Subtotal, Quantity: l.Quantity}
	}
	return lines
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	lines := make([]Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = l.Clone()
	}
	return &Cart{
		TableNumber: c.TableNumber,
		Lines:       lines,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Repository defines persistence operations for per-table carts.
// Load returns ErrNotFound when no cart is persisted for the table.
type Repository interface {
	Save(ctx context.Context, c *Cart) error
	Load(ctx context.Context, tableNumber string) (*Cart, error)
	Delete(ctx context.Context, tableNumber string) error
}
