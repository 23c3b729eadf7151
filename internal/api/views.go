package api

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/order"
	"github.com/xenking/warung-digital/pkg/format"
)

// View encoders translate domain values into the JSON shapes the screens
// render. Amounts are emitted twice: as plain numbers for arithmetic and
// pre-formatted Rupiah strings for display.

func encodeMenuItems(items []menu.Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range items {
		encodeMenuItem(&e, items[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeMenuItem(e *jx.Encoder, it menu.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(it.ID)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("description")
	e.Str(it.Description)
	encodeAmount(e, "price", it.Price)
	e.FieldStart("category")
	e.Str(string(it.Category))
	e.FieldStart("available")
	e.Bool(it.Available)
	if len(it.Variations) > 0 {
		e.FieldStart("variations")
		e.ArrStart()
		for _, g := range it.Variations {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(g.Name)
			e.FieldStart("options")
			e.ArrStart()
			for _, o := range g.Options {
				e.ObjStart()
				e.FieldStart("label")
				e.Str(o.Label)
				e.FieldStart("priceAdjustment")
				e.Num(jx.Num(o.PriceAdjustment.String()))
				e.ObjEnd()
			}
			e.ArrEnd()
			e.ObjEnd()
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

func encodeRestaurantInfo(info *menu.RestaurantInfo) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(info.Name)
	e.FieldStart("description")
	e.Str(info.Description)
	e.FieldStart("address")
	e.Str(info.Address)
	e.FieldStart("phone")
	e.Str(info.Phone)
	e.ObjEnd()
	return e.Bytes()
}

func encodeCartView(c *cart.Cart) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("tableNumber")
	e.Str(c.TableNumber)
	e.FieldStart("items")
	encodeLineViews(&e, c.Lines)
	encodeAmount(&e, "total", c.Total())
	e.FieldStart("itemCount")
	e.Int(c.ItemCount())
	if !c.UpdatedAt.IsZero() {
		e.FieldStart("updatedAt")
		encodeTimestamp(&e, c.UpdatedAt)
	}
	e.ObjEnd()
	return e.Bytes()
}

func encodeLineViews(e *jx.Encoder, lines []cart.Line) {
	e.ArrStart()
	for i := range lines {
		l := &lines[i]
		e.ObjStart()
		e.FieldStart("menuItem")
		encodeMenuItem(e, l.Item)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		if len(l.Selection) > 0 {
			e.FieldStart("selectedVariations")
			e.ObjStart()
			for _, group := range l.Selection.SortedGroups() {
				e.FieldStart(group)
				e.Str(l.Selection[group])
			}
			e.ObjEnd()
		}
		e.FieldStart("notes")
		e.Str(l.Notes)
		encodeAmount(e, "subtotal", l.Subtotal)
		e.ObjEnd()
	}
	e.ArrEnd()
}

func encodeSessionView(s *order.Session) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("tableNumber")
	e.Str(s.TableNumber)
	e.FieldStart("sessionId")
	e.Str(s.SessionID)
	e.FieldStart("startTime")
	encodeTimestamp(&e, s.StartTime)
	e.FieldStart("cart")
	encodeLineViews(&e, s.Cart)
	e.ObjEnd()
	return e.Bytes()
}

func encodeOrderView(o *order.Order) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("tableNumber")
	e.Str(o.TableNumber)
	e.FieldStart("items")
	encodeLineViews(&e, o.Items)
	encodeAmount(&e, "total", o.Total)
	e.FieldStart("timestamp")
	encodeTimestamp(&e, o.Timestamp)
	e.FieldStart("timestampFormatted")
	e.Str(format.DateTime(o.Timestamp))
	e.FieldStart("status")
	e.Str(string(o.Status))
	if o.Notes != "" {
		e.FieldStart("notes")
		e.Str(o.Notes)
	}
	e.ObjEnd()
	return e.Bytes()
}

// encodeAmount writes <field> as a plain number and <field>Formatted as the
// Rupiah display string.
func encodeAmount(e *jx.Encoder, field string, v decimal.Decimal) {
	e.FieldStart(field)
	e.Num(jx.Num(v.String()))
	e.FieldStart(field + "Formatted")
	e.Str(format.Rupiah(v))
}

func encodeTimestamp(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339Nano))
}
