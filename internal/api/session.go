package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/warung-digital/internal/domain/order"
)

// CreateSession starts a fresh ordering session for the scanned table,
// replacing any previous session for that table.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}

	sess, err := h.orders.CreateSession(r.Context(), table)
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "create session"))
		return
	}
	respond(w, r, http.StatusCreated, encodeSessionView(sess))
}

// GetSession returns the active session for the table, or 404 when the
// table has not scanned in yet.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	table, ok := tableOrReject(w, r)
	if !ok {
		return
	}

	sess, err := h.orders.GetSession(r.Context(), table)
	if err != nil {
		if errors.Is(err, order.ErrSessionNotFound) {
			respondError(w, r, http.StatusNotFound, "session not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "get session"))
		return
	}
	respond(w, r, http.StatusOK, encodeSessionView(sess))
}
