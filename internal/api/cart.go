package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/pricing"
)

// maxBodyBytes bounds request bodies; cart payloads are tiny.
const maxBodyBytes = 1 << 20

type addCartItemRequest struct {
	MenuItemID string
	Selection  menu.Selection
	Notes      string
}

func decodeAddCartItemRequest(r *http.Request) (*addCartItemRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	req := &addCartItemRequest{}
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "menuItemId":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.MenuItemID = v
			return nil
		case "selectedVariations":
			req.Selection = menu.Selection{}
			return d.Obj(func(d *jx.Decoder, group string) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				req.Selection[group] = v
				return nil
			})
		case "notes":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Notes = v
			return nil
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return nil, err
	}
	if req.MenuItemID == "" {
		return nil, errors.New("menuItemId required")
	}
	return req, nil
}

type updateCartItemRequest struct {
	Quantity *int
	Notes    *string
}

func decodeUpdateCartItemRequest(r *http.Request) (*updateCartItemRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	req := &updateCartItemRequest{}
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			req.Quantity = &v
			return nil
		case "notes":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Notes = &v
			return nil
		default:
			return errors.Errorf("unexpected key %q", key)
		}
	})
	if err != nil {
		return nil, err
	}
	if req.Quantity == nil && req.Notes == nil {
		return nil, errors.New("quantity or notes required")
	}
	return req, nil
}

// GetCart returns the current cart for the table. A table without a
// persisted cart gets an empty one, never an error.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}
	c := h.carts.Load(r.Context(), table)
	respond(w, r, http.StatusOK, encodeCartView(c))
}

// AddCartItem adds one unit of a menu item, merging into an existing line
// when the item and variation selection match.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}

	req, err := decodeAddCartItemRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Notes) > cart.MaxLineNotesLen {
		respondError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("notes must be at most %d characters", cart.MaxLineNotesLen))
		return
	}

	item, err := h.catalog.GetByID(r.Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			respondError(w, r, http.StatusUnprocessableEntity,
				fmt.Sprintf("menu item %s not found", req.MenuItemID))
			return
		}
		respondInternal(w, r, errors.Wrapf(err, "get menu item %s", req.MenuItemID))
		return
	}
	if !item.Available {
		respondError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("menu item %s is not available", req.MenuItemID))
		return
	}

	c, err := h.carts.AddItem(r.Context(), table, *item, req.Selection, req.Notes)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, encodeCartView(c))
}

// UpdateCartItem changes the quantity and/or notes of one cart line.
// A quantity of zero removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid line index")
		return
	}

	req, err := decodeUpdateCartItemRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Notes != nil && len(*req.Notes) > cart.MaxLineNotesLen {
		respondError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("notes must be at most %d characters", cart.MaxLineNotesLen))
		return
	}

	var c *cart.Cart
	if req.Quantity != nil {
		c, err = h.carts.UpdateQuantity(r.Context(), table, index, *req.Quantity)
		if err != nil {
			h.respondCartError(w, r, err)
			return
		}
	}
	// Notes apply only while the line still exists; a zero quantity above
	// already removed it.
	if req.Notes != nil && (req.Quantity == nil || *req.Quantity > 0) {
		c, err = h.carts.UpdateNotes(r.Context(), table, index, *req.Notes)
		if err != nil {
			h.respondCartError(w, r, err)
			return
		}
	}
	respond(w, r, http.StatusOK, encodeCartView(c))
}

// RemoveCartItem deletes one cart line, keeping the order of the rest.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid line index")
		return
	}

	c, err := h.carts.RemoveLine(r.Context(), table, index)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, encodeCartView(c))
}

// ClearCart deletes the table's persisted cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}
	if err := h.carts.Clear(r.Context(), table); err != nil {
		respondInternal(w, r, errors.Wrap(err, "clear cart"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondCartError maps cart/pricing contract errors to 422 responses.
func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		selErr   *pricing.InvalidSelectionError
		qtyErr   *pricing.InvalidQuantityError
		indexErr *cart.IndexOutOfRangeError
	)
	switch {
	case errors.As(err, &selErr):
		respondError(w, r, http.StatusUnprocessableEntity, selErr.Error())
	case errors.As(err, &qtyErr):
		respondError(w, r, http.StatusUnprocessableEntity, qtyErr.Error())
	case errors.As(err, &indexErr):
		respondError(w, r, http.StatusUnprocessableEntity, indexErr.Error())
	default:
		respondInternal(w, r, err)
	}
}
