package product

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// InsufficientStockError indicates a stock decrement was rejected because the
// requested quantity exceeds what is available.
type InsufficientStockError struct {
	ID        string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough quantity available for product %s", e.Name)
}

// Product represents a catalog item available for purchase.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// ListFilter narrows and pages a product listing. NameContains matches a
// case-insensitive substring anywhere in the name. Size is an exact match
// against the optional size attribute; products without one never match.
type ListFilter struct {
	NameContains string
	Size         string
	Limit        int
	Offset       int
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	// Create inserts a new product and returns its store-assigned ID.
	// Field values are stored as given; nothing beyond types is validated.
	Create(ctx context.Context, name string, price decimal.Decimal, quantity int) (string, error)

	// List returns products matching the filter in insertion order.
	List(ctx context.Context, f ListFilter) ([]Product, error)

	// DecrementStock atomically reduces a product's quantity. It fails with
	// ErrNotFound when the product does not exist and with
	// *InsufficientStockError when the remaining stock is too low. On
	// success it returns the product as it was before the decrement.
	DecrementStock(ctx context.Context, id string, quantity int) (*Product, error)
}
