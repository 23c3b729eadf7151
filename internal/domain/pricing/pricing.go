// Package pricing computes unit prices, line subtotals, and cart totals.
// All functions are pure: amounts in, amounts out, no storage access.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xenking/warung-digital/internal/domain/menu"
)

var zero = decimal.Zero

// InvalidSelectionError indicates a selection names a variation group or
// option label that does not exist on the item.
type InvalidSelectionError struct {
	ItemID string
	Group  string
	Option string
}

func (e *InvalidSelectionError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("item %s has no option %q in variation group %q", e.ItemID, e.Option, e.Group)
	}
	return fmt.Sprintf("item %s has no variation group %q", e.ItemID, e.Group)
}

// InvalidQuantityError indicates a line quantity below 1.
type InvalidQuantityError struct {
	ItemID   string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for item %s, got %d", e.ItemID, e.Quantity)
}

// UnitPrice returns the item's base price plus the price adjustment of the
// option selected in each variation group present in the selection. Groups
// absent from the selection contribute nothing.
//
// A selection naming an unknown group or option fails with
// *InvalidSelectionError. A negative total adjustment is clamped at zero.
func UnitPrice(item menu.Item, sel menu.Selection) (decimal.Decimal, error) {
	price := item.Price
	for name, label := range sel {
		group, ok := item.Group(name)
		if !ok {
			return zero, &InvalidSelectionError{ItemID: item.ID, Group: name}
		}
		opt, ok := group.Option(label)
		if !ok {
			return zero, &InvalidSelectionError{ItemID: item.ID, Group: name, Option: label}
		}
		price = price.Add(opt.PriceAdjustment)
	}
	return floorAtZero(price), nil
}

// LineSubtotal returns UnitPrice(item, sel) multiplied by quantity.
// Quantities below 1 fail with *InvalidQuantityError.
func LineSubtotal(item menu.Item, sel menu.Selection, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return zero, &InvalidQuantityError{ItemID: item.ID, Quantity: quantity}
	}
	unit, err := UnitPrice(item, sel)
	if err != nil {
		return zero, err
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// Line is the minimal cart line shape needed for total calculations.
type Line struct {
	Subtotal decimal.Decimal
	Quantity int
}

// CartTotal returns the sum of each line's stored subtotal. It trusts that
// lines keep their subtotal invariant current rather than recomputing from
// the catalog, so totals stay correct even when an item later becomes
// unavailable.
func CartTotal(lines []Line) decimal.Decimal {
	sum := zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal)
	}
	return sum
}

// TotalItemCount returns the sum of quantities across all lines.
func TotalItemCount(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
