package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/warung-digital/internal/domain/order"
)

type submitOrderRequest struct {
	Notes string
}

func decodeSubmitOrderRequest(r *http.Request) (*submitOrderRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	req := &submitOrderRequest{}
	if len(body) == 0 {
		return req, nil
	}
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
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
	return req, nil
}

// SubmitOrder finalizes the table's cart into an order and returns the
// receipt payload. The cart is cleared as part of submission.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}

	req, err := decodeSubmitOrderRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Notes) > order.MaxNotesLen {
		respondError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("notes must be at most %d characters", order.MaxNotesLen))
		return
	}

	o, err := h.orders.SubmitOrder(r.Context(), table, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			respondError(w, r, http.StatusBadRequest, "Keranjang masih kosong")
		case errors.Is(err, order.ErrOffline):
			// Same message the cart screen shows on a failed connectivity
			// check; the diner retries once the connection returns.
			respondError(w, r, http.StatusServiceUnavailable, "Tolong periksa kembali koneksi Anda.")
		default:
			respondInternal(w, r, errors.Wrap(err, "submit order"))
		}
		return
	}
	respond(w, r, http.StatusCreated, encodeOrderView(o))
}

// GetOrder returns a submitted order for the receipt screen. Unknown ids
// get a redirect hint back to the start of the flow.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondNotFoundRedirect(w, r, "Pesanan tidak ditemukan", "/")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "get order"))
		return
	}
	respond(w, r, http.StatusOK, encodeOrderView(o))
}
