package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/storekit/ecom-backend/internal/domain/product"
)

type createProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CreateProduct inserts a new product. Matching the store contract, values
// are not validated beyond their types: zero or negative price and quantity
// pass through as given.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.products.Create(r.Context(), req.Name, req.Price, req.Quantity); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Product created successfully")
}

// ListProducts returns one page of the catalog. The name parameter matches a
// case-insensitive substring; size matches the optional size attribute
// exactly.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.ListFilter{
		NameContains: q.Get("name"),
		Size:         q.Get("size"),
		Limit:        limitQuery(r, defaultPageLimit),
		Offset:       intQuery(r, "offset", defaultPageOffset),
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range products {
			encodeProduct(e, p)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("quantity")
	e.Int(p.Quantity)
	e.ObjEnd()
}
