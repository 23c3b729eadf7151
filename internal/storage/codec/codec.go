// Package codec defines the strict serialize/parse pair for every persisted
// record type. Each decoder rejects unknown keys and malformed values instead
// of trusting the stored shape, and restores timestamps from their textual
// form in one place.
//
// The wire format is the JSON shape the web screens already speak:
// camelCase keys, plain numbers for amounts, RFC 3339 timestamps.
package codec

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/order"
)

// EncodeCart serializes a cart record: {tableNumber, items, timestamp}.
func EncodeCart(c *cart.Cart) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("tableNumber")
	e.Str(c.TableNumber)
	e.FieldStart("items")
	encodeLines(&e, c.Lines)
	e.FieldStart("timestamp")
	encodeTime(&e, c.UpdatedAt)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeCart parses a cart record produced by EncodeCart.
func DecodeCart(data []byte) (*cart.Cart, error) {
	c := &cart.Cart{}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "tableNumber":
			return decodeStr(d, &c.TableNumber)
		case "items":
			lines, err := decodeLines(d)
			if err != nil {
				return err
			}
			c.Lines = lines
			return nil
		case "timestamp":
			return decodeTime(d, &c.UpdatedAt)
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart record")
	}
	return c, nil
}

// EncodeSession serializes a session record:
// {tableNumber, sessionId, startTime, cart}.
func EncodeSession(s *order.Session) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("tableNumber")
	e.Str(s.TableNumber)
	e.FieldStart("sessionId")
	e.Str(s.SessionID)
	e.FieldStart("startTime")
	encodeTime(&e, s.StartTime)
	e.FieldStart("cart")
	encodeLines(&e, s.Cart)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeSession parses a session record produced by EncodeSession.
func DecodeSession(data []byte) (*order.Session, error) {
	s := &order.Session{}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "tableNumber":
			return decodeStr(d, &s.TableNumber)
		case "sessionId":
			return decodeStr(d, &s.SessionID)
		case "startTime":
			return decodeTime(d, &s.StartTime)
		case "cart":
			lines, err := decodeLines(d)
			if err != nil {
				return err
			}
			s.Cart = lines
			return nil
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode session record")
	}
	return s, nil
}

// EncodeOrder serializes an order record:
// {id, tableNumber, items, total, timestamp, status, notes}.
func EncodeOrder(o *order.Order) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("tableNumber")
	e.Str(o.TableNumber)
	e.FieldStart("items")
	encodeLines(&e, o.Items)
	e.FieldStart("total")
	encodeDecimal(&e, o.Total)
	e.FieldStart("timestamp")
	encodeTime(&e, o.Timestamp)
	e.FieldStart("status")
	e.Str(string(o.Status))
	if o.Notes != "" {
		e.FieldStart("notes")
		e.Str(o.Notes)
	}
	e.ObjEnd()
	return e.Bytes()
}

// DecodeOrder parses an order record produced by EncodeOrder.
func DecodeOrder(data []byte) (*order.Order, error) {
	o := &order.Order{Total: decimal.Zero}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			return decodeStr(d, &o.ID)
		case "tableNumber":
			return decodeStr(d, &o.TableNumber)
		case "items":
			lines, err := decodeLines(d)
			if err != nil {
				return err
			}
			o.Items = lines
			return nil
		case "total":
			return decodeDecimal(d, &o.Total)
		case "timestamp":
			return decodeTime(d, &o.Timestamp)
		case "status":
			v, err := d.Str()
			if err != nil {
				return err
			}
			st := order.Status(v)
			if !st.Valid() {
				return errors.Errorf("unknown order status %q", v)
			}
			o.Status = st
			return nil
		case "notes":
			return decodeStr(d, &o.Notes)
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode order record")
	}
	return o, nil
}

// EncodeHistory serializes the order-history index as a flat array of ids.
func EncodeHistory(ids []string) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, id := range ids {
		e.Str(id)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeHistory parses the order-history index.
func DecodeHistory(data []byte) ([]string, error) {
	var ids []string
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		id, err := d.Str()
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode order history")
	}
	return ids, nil
}

// EncodeVariations serializes a menu item's variation groups. Used by the
// menu storage driver, which keeps variations in a single document column.
func EncodeVariations(groups []menu.VariationGroup) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, g := range groups {
		encodeGroup(&e, g)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeVariations parses variation groups produced by EncodeVariations.
func DecodeVariations(data []byte) ([]menu.VariationGroup, error) {
	var groups []menu.VariationGroup
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		g, err := decodeGroup(d)
		if err != nil {
			return err
		}
		groups = append(groups, g)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode variations")
	}
	return groups, nil
}

func encodeLines(e *jx.Encoder, lines []cart.Line) {
	e.ArrStart()
	for i := range lines {
		encodeLine(e, &lines[i])
	}
	e.ArrEnd()
}

func decodeLines(d *jx.Decoder) ([]cart.Line, error) {
	lines := []cart.Line{}
	err := d.Arr(func(d *jx.Decoder) error {
		line, err := decodeLine(d)
		if err != nil {
			return err
		}
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func encodeLine(e *jx.Encoder, l *cart.Line) {
	e.ObjStart()
	e.FieldStart("menuItem")
	encodeItem(e, l.Item)
	e.FieldStart("quantity")
	e.Int(l.Quantity)
	if len(l.Selection) > 0 {
		e.FieldStart("selectedVariations")
		encodeSelection(e, l.Selection)
	}
	e.FieldStart("notes")
	e.Str(l.Notes)
	e.FieldStart("subtotal")
	encodeDecimal(e, l.Subtotal)
	e.ObjEnd()
}

func decodeLine(d *jx.Decoder) (cart.Line, error) {
	l := cart.Line{Subtotal: decimal.Zero}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "menuItem":
			item, err := decodeItem(d)
			if err != nil {
				return err
			}
			l.Item = item
			return nil
		case "quantity":
			return decodeInt(d, &l.Quantity)
		case "selectedVariations":
			sel, err := decodeSelection(d)
			if err != nil {
				return err
			}
			l.Selection = sel
			return nil
		case "notes":
			return decodeStr(d, &l.Notes)
		case "subtotal":
			return decodeDecimal(d, &l.Subtotal)
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return cart.Line{}, errors.Wrap(err, "decode cart line")
	}
	return l, nil
}

func encodeItem(e *jx.Encoder, it menu.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(it.ID)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("description")
	e.Str(it.Description)
	e.FieldStart("price")
	encodeDecimal(e, it.Price)
	e.FieldStart("category")
	e.Str(string(it.Category))
	e.FieldStart("available")
	e.Bool(it.Available)
	if len(it.Variations) > 0 {
		e.FieldStart("variations")
		e.ArrStart()
		for _, g := range it.Variations {
			encodeGroup(e, g)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

func decodeItem(d *jx.Decoder) (menu.Item, error) {
	it := menu.Item{Price: decimal.Zero}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			return decodeStr(d, &it.ID)
		case "name":
			return decodeStr(d, &it.Name)
		case "description":
			return decodeStr(d, &it.Description)
		case "price":
			return decodeDecimal(d, &it.Price)
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			it.Category = menu.Category(v)
			return nil
		case "available":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			it.Available = v
			return nil
		case "variations":
			return d.Arr(func(d *jx.Decoder) error {
				g, err := decodeGroup(d)
				if err != nil {
					return err
				}
				it.Variations = append(it.Variations, g)
				return nil
			})
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return menu.Item{}, errors.Wrap(err, "decode menu item")
	}
	return it, nil
}

func encodeGroup(e *jx.Encoder, g menu.VariationGroup) {
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
		encodeDecimal(e, o.PriceAdjustment)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func decodeGroup(d *jx.Decoder) (menu.VariationGroup, error) {
	var g menu.VariationGroup
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			return decodeStr(d, &g.Name)
		case "options":
			return d.Arr(func(d *jx.Decoder) error {
				o := menu.VariationOption{PriceAdjustment: decimal.Zero}
				err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "label":
						return decodeStr(d, &o.Label)
					case "priceAdjustment":
						return decodeDecimal(d, &o.PriceAdjustment)
					default:
						return errors.Errorf("unexpected key %q", key)
					}
				})
				if err != nil {
					return err
				}
				g.Options = append(g.Options, o)
				return nil
			})
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return menu.VariationGroup{}, errors.Wrap(err, "decode variation group")
	}
	return g, nil
}

func encodeSelection(e *jx.Encoder, sel menu.Selection) {
	e.ObjStart()
	for _, group := range sel.SortedGroups() {
		e.FieldStart(group)
		e.Str(sel[group])
	}
	e.ObjEnd()
}

func decodeSelection(d *jx.Decoder) (menu.Selection, error) {
	sel := menu.Selection{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		v, err := d.Str()
		if err != nil {
			return err
		}
		sel[key] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339Nano))
}

func decodeTime(d *jx.Decoder, out *time.Time) error {
	v, err := d.Str()
	if err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return errors.Wrapf(err, "parse timestamp %q", v)
	}
	*out = t
	return nil
}

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}

func decodeDecimal(d *jx.Decoder, out *decimal.Decimal) error {
	n, err := d.Num()
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return errors.Wrapf(err, "parse amount %q", n.String())
	}
	*out = v
	return nil
}

func decodeStr(d *jx.Decoder, out *string) error {
	v, err := d.Str()
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func decodeInt(d *jx.Decoder, out *int) error {
	v, err := d.Int()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
