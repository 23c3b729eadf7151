package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/storage/memory"
)

func rupiah(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func requireAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(rupiah(want)), "want %d, got %s", want, got)
}

func nasiGoreng() menu.Item {
	return menu.Item{
		ID:        "food-001",
		Name:      "Nasi Goreng Spesial",
		Price:     rupiah(25000),
		Category:  menu.CategoryFood,
		Available: true,
		Variations: []menu.VariationGroup{
			{
				Name: "Level Pedas",
				Options: []menu.VariationOption{
					{Label: "Sedang", PriceAdjustment: rupiah(0)},
					{Label: "Extra Pedas", PriceAdjustment: rupiah(2000)},
				},
			},
		},
	}
}

func esTeh() menu.Item {
	return menu.Item{
		ID:        "drink-001",
		Name:      "Es Teh Manis",
		Price:     rupiah(5000),
		Category:  menu.CategoryDrinks,
		Available: true,
	}
}

func newStore(t *testing.T) (*cart.Store, *memory.CartRepository) {
	t.Helper()
	repo := memory.NewCartRepository()
	return cart.NewStore(repo, zap.NewNop()), repo
}

func TestAddItem_AppendsNewLine(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	c, err := store.AddItem(ctx, "05", nasiGoreng(), nil, "")
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	requireAmount(t, 25000, c.Lines[0].Subtotal)
	requireAmount(t, 25000, c.Total())
}

func TestAddItem_MergesSameItemAndSelection(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	sel := menu.Selection{"Level Pedas": "Extra Pedas"}

	_, err := store.AddItem(ctx, "05", nasiGoreng(), sel, "")
	require.NoError(t, err)
	c, err := store.AddItem(ctx, "05", nasiGoreng(), sel, "")
	require.NoError(t, err)

	require.Len(t, c.Lines, 1, "identical item+selection folds into one line")
	assert.Equal(t, 2, c.Lines[0].Quantity)
	requireAmount(t, 54000, c.Lines[0].Subtotal)
}

func TestAddItem_DifferentSelectionStartsNewLine(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", nasiGoreng(), menu.Selection{"Level Pedas": "Sedang"}, "")
	require.NoError(t, err)
	c, err := store.AddItem(ctx, "05", nasiGoreng(), menu.Selection{"Level Pedas": "Extra Pedas"}, "")
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	requireAmount(t, 25000, c.Lines[0].Subtotal)
	requireAmount(t, 27000, c.Lines[1].Subtotal)
}

func TestAddItem_MergeKeepsNotesUnlessReplaced(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", esTeh(), nil, "tanpa gula")
	require.NoError(t, err)

	c, err := store.AddItem(ctx, "05", esTeh(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "tanpa gula", c.Lines[0].Notes, "empty notes keep the existing ones")

	c, err = store.AddItem(ctx, "05", esTeh(), nil, "es sedikit")
	require.NoError(t, err)
	assert.Equal(t, "es sedikit", c.Lines[0].Notes, "non-empty notes replace")
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestAddItem_InvalidSelection(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", nasiGoreng(), menu.Selection{"Topping": "Keju"}, "")
	require.Error(t, err)

	c := store.Load(ctx, "05")
	assert.Empty(t, c.Lines, "failed add leaves nothing behind")
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", esTeh(), nil, "")
	require.NoError(t, err)

	c, err := store.UpdateQuantity(ctx, "05", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	requireAmount(t, 15000, c.Lines[0].Subtotal)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", esTeh(), nil, "")
	require.NoError(t, err)

	c, err := store.UpdateQuantity(ctx, "05", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestUpdateQuantity_IndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.UpdateQuantity(ctx, "05", 2, 1)

	var indexErr *cart.IndexOutOfRangeError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, 2, indexErr.Index)
	assert.Equal(t, 0, indexErr.Len)
}

func TestUpdateNotes_DoesNotTouchSubtotal(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", nasiGoreng(), menu.Selection{"Level Pedas": "Extra Pedas"}, "")
	require.NoError(t, err)

	c, err := store.UpdateNotes(ctx, "05", 0, "pedas banget ya")
	require.NoError(t, err)
	assert.Equal(t, "pedas banget ya", c.Lines[0].Notes)
	requireAmount(t, 27000, c.Lines[0].Subtotal)
}

func TestRemoveLine_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", nasiGoreng(), nil, "")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "05", esTeh(), nil, "")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "05", nasiGoreng(), menu.Selection{"Level Pedas": "Extra Pedas"}, "")
	require.NoError(t, err)

	c, err := store.RemoveLine(ctx, "05", 1)
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "food-001", c.Lines[0].Item.ID)
	assert.Nil(t, c.Lines[0].Selection)
	assert.Equal(t, menu.Selection{"Level Pedas": "Extra Pedas"}, c.Lines[1].Selection)
}

func TestLoad_RoundTripsThroughStorage(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.WithClock(func() time.Time {
		return time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)
	})

	_, err := store.AddItem(ctx, "07", nasiGoreng(), menu.Selection{"Level Pedas": "Extra Pedas"}, "jangan pakai udang")
	require.NoError(t, err)

	c := store.Load(ctx, "07")
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "07", c.TableNumber)
	assert.Equal(t, "jangan pakai udang", c.Lines[0].Notes)
	assert.Equal(t, menu.Selection{"Level Pedas": "Extra Pedas"}, c.Lines[0].Selection)
	requireAmount(t, 27000, c.Lines[0].Subtotal)
	assert.True(t, c.UpdatedAt.Equal(time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)))
}

func TestLoad_MissingCartIsEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	c := store.Load(ctx, "42")
	assert.Equal(t, "42", c.TableNumber)
	assert.Empty(t, c.Lines)
	requireAmount(t, 0, c.Total())
}

// failingRepo simulates a storage layer that errors on every operation.
type failingRepo struct{}

func (failingRepo) Save(context.Context, *cart.Cart) error { return errors.New("disk full") }
func (failingRepo) Load(context.Context, string) (*cart.Cart, error) {
	return nil, errors.New("corrupt record")
}
func (failingRepo) Delete(context.Context, string) error { return errors.New("disk full") }

func TestLoad_UnreadableRecordDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(failingRepo{}, zap.NewNop())

	c := store.Load(ctx, "05")
	assert.Empty(t, c.Lines)
}

func TestAddItem_SaveFailureStillReturnsCart(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(failingRepo{}, zap.NewNop())

	c, err := store.AddItem(ctx, "05", esTeh(), nil, "")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.AddItem(ctx, "05", esTeh(), nil, "")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "05"))
	assert.Empty(t, store.Load(ctx, "05").Lines)
}

func TestClear_RepositoryFailure(t *testing.T) {
	store := cart.NewStore(failingRepo{}, zap.NewNop())
	assert.Error(t, store.Clear(context.Background(), "05"))
}
