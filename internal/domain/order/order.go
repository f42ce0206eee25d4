package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a placed customer order. Orders are immutable once
// created; line items carry the product price as it was at purchase time.
type Order struct {
	ID          string
	UserID      string
	Items       []LineItem
	TotalAmount decimal.Decimal
	// UserAddress is the caller-supplied address object, stored verbatim
	// without validation.
	UserAddress json.RawMessage
	CreatedAt   time.Time
}

// LineItem is a single purchased product within an order. Price is a
// snapshot, not a live reference: later price changes do not affect it.
type LineItem struct {
	ProductID      string          `json:"product_id"`
	BoughtQuantity int             `json:"bought_quantity"`
	Price          decimal.Decimal `json:"price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// ListFilter pages an order listing for one user.
type ListFilter struct {
	UserID string
	Limit  int
	Offset int
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error

	// ListByUser returns the user's orders in insertion order.
	ListByUser(ctx context.Context, f ListFilter) ([]Order, error)
}

// Transactor runs fn atomically: every store operation made through the
// fn context either commits as a unit or rolls back when fn errors.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
