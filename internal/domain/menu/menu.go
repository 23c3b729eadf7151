package menu

import (
	"context"
	"maps"
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Category groups menu items for display.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryDrinks   Category = "drinks"
	CategoryDesserts Category = "desserts"
)

// Item represents a dish or drink available for ordering. Items are reference
// data: loaded once at catalog load and never mutated afterwards.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    Category
	Available   bool
	Variations  []VariationGroup
}

// VariationGroup is a named axis of customization for an item, such as spice
// level or portion size. A cart line selects at most one option per group.
type VariationGroup struct {
	Name    string
	Options []VariationOption
}

// VariationOption is a single choice within a variation group. PriceAdjustment
// is added to the item's base price and may be negative.
type VariationOption struct {
	Label           string
	PriceAdjustment decimal.Decimal
}

// Selection maps a variation group name to the chosen option label.
// Groups absent from the selection keep the item's base price.
type Selection map[string]string

// SortedGroups returns the selection's group names in lexical order,
// for deterministic serialization.
func (s Selection) SortedGroups() []string {
	return slices.Sorted(maps.Keys(s))
}

// Group returns the variation group with the given name, if present.
func (i Item) Group(name string) (VariationGroup, bool) {
	for _, g := range i.Variations {
		if g.Name == name {
			return g, true
		}
	}
	return VariationGroup{}, false
}

// Option returns the option with the given label, if present.
func (g VariationGroup) Option(label string) (VariationOption, bool) {
	for _, o := range g.Options {
		if o.Label == label {
			return o, true
		}
	}
	return VariationOption{}, false
}

// RestaurantInfo holds the static identity shown on the landing page and
// printed receipts.
type RestaurantInfo struct {
	Name        string
	Description string
	Address     string
	Phone       string
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	RestaurantInfo(ctx context.Context) (*RestaurantInfo, error)
}
