// Package handler exposes the HTTP API: product creation and listing, order
// placement, and per-user order listing.
package handler

import (
	"net/http"

	"github.com/storekit/ecom-backend/internal/domain/order"
	"github.com/storekit/ecom-backend/internal/domain/product"
)

// Listing endpoints fall back to these when the query omits paging values.
const (
	defaultPageLimit  = 10
	defaultPageOffset = 0
)

// Handler routes HTTP requests to the product repository and order service.
type Handler struct {
	products     product.Repository
	orderService *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(products product.Repository, orderService *order.Service) *Handler {
	return &Handler{
		products:     products,
		orderService: orderService,
	}
}

// RegisterRoutes mounts all API endpoints on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("POST /products", h.CreateProduct)
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /orders", h.PlaceOrder)
	mux.HandleFunc("GET /orders/{user_id}", h.ListOrders)
}

// Root reports that the API is up.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Ecommerce backend API is running")
}
