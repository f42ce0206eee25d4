package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/storekit/ecom-backend/internal/domain/order"
	"github.com/storekit/ecom-backend/internal/domain/product"
)

type placeOrderRequest struct {
	Items []struct {
		ProductID      string `json:"product_id"`
		BoughtQuantity int    `json:"bought_quantity"`
	} `json:"items"`
	UserID      string          `json:"user_id"`
	UserAddress json.RawMessage `json:"user_address"`
}

// PlaceOrder places an order for the requested items. A missing product maps
// to 404 and insufficient stock to 400; either failure leaves every
// product's stock untouched.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.ItemRequest{
			ProductID:      item.ProductID,
			BoughtQuantity: item.BoughtQuantity,
		}
	}

	_, err := h.orderService.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		Items:       items,
		UserID:      req.UserID,
		UserAddress: req.UserAddress,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Order created successfully")
}

// ListOrders returns one page of the user's orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := order.ListFilter{
		UserID: r.PathValue("user_id"),
		Limit:  limitQuery(r, defaultPageLimit),
		Offset: intQuery(r, "offset", defaultPageOffset),
	}

	orders, err := h.orderService.ListForUser(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("orders")
		e.ArrStart()
		for _, o := range orders {
			encodeOrder(e, o)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// writeOrderError maps order placement failures to status codes.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *order.ProductNotFoundError
		invalidQty *order.InvalidQuantityError
		noStock    *product.InsufficientStockError
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &noStock):
		writeError(w, http.StatusBadRequest, noStock.Error())
	case errors.As(err, &invalidQty):
		writeError(w, http.StatusBadRequest, invalidQty.Error())
	case errors.Is(err, order.ErrEmptyItems):
		writeError(w, http.StatusBadRequest, order.ErrEmptyItems.Error())
	default:
		writeStoreError(w, r, err)
	}
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("user_id")
	e.Str(o.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range o.Items {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Str(item.ProductID)
		e.FieldStart("bought_quantity")
		e.Int(item.BoughtQuantity)
		e.FieldStart("price")
		e.Num(jx.Num(item.Price.String()))
		e.FieldStart("total_price")
		e.Num(jx.Num(item.TotalPrice.String()))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total_amount")
	e.Num(jx.Num(o.TotalAmount.String()))
	e.FieldStart("user_address")
	if len(o.UserAddress) > 0 {
		e.Raw(jx.Raw(o.UserAddress))
	} else {
		e.ObjStart()
		e.ObjEnd()
	}
	e.FieldStart("timestamp")
	e.Str(o.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
