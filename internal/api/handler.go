// Package api implements the HTTP surface consumed by the ordering screens:
// catalog browsing, per-table session and cart manipulation, order
// submission, and receipt lookup.
package api

import (
	"net/http"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/order"
)

// Handler holds the domain dependencies for all API endpoints.
type Handler struct {
	catalog menu.Repository
	carts   *cart.Store
	orders  *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(catalog menu.Repository, carts *cart.Store, orders *order.Service) *Handler {
	return &Handler{
		catalog: catalog,
		carts:   carts,
		orders:  orders,
	}
}

// Register attaches all API routes to the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.ListMenu)
	mux.HandleFunc("GET /api/restaurant", h.GetRestaurantInfo)

	mux.HandleFunc("POST /api/tables/{table}/session", h.CreateSession)
	mux.HandleFunc("GET /api/tables/{table}/session", h.GetSession)

	mux.HandleFunc("GET /api/tables/{table}/cart", h.GetCart)
	mux.HandleFunc("POST /api/tables/{table}/cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /api/tables/{table}/cart/items/{index}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/tables/{table}/cart/items/{index}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/tables/{table}/cart", h.ClearCart)

	mux.HandleFunc("POST /api/tables/{table}/orders", h.SubmitOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
}
