package api

import (
	"net/http"

	"github.com/go-faster/errors"
)

// ListMenu returns every item in the catalog, including unavailable ones;
// the menu screen greys those out rather than hiding them.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "list menu"))
		return
	}
	respond(w, r, http.StatusOK, encodeMenuItems(items))
}

// GetRestaurantInfo returns the restaurant identity for the landing page
// and printed receipts.
func (h *Handler) GetRestaurantInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.RestaurantInfo(r.Context())
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "get restaurant info"))
		return
	}
	respond(w, r, http.StatusOK, encodeRestaurantInfo(info))
}
