package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storekit/ecom-backend/internal/domain/product"
)

// ErrEmptyItems is returned when an order request carries no items.
var ErrEmptyItems = errors.New("items required")

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// ItemRequest is one requested line of an order.
type ItemRequest struct {
	ProductID      string
	BoughtQuantity int
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	Items       []ItemRequest
	UserID      string
	UserAddress json.RawMessage
}

// Service encapsulates order placement and listing business logic.
type Service struct {
	products product.Repository
	orders   Repository
	tx       Transactor
	now      func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository, tx Transactor) *Service {
	return &Service{
		products: products,
		orders:   orders,
		tx:       tx,
		now:      time.Now,
	}
}

// PlaceOrder validates the requested items, decrements stock per item,
// snapshots prices into line items, and persists the resulting order.
//
// The whole placement runs in a single transaction: a missing product or an
// insufficient stock failure on any line rolls back the decrements already
// applied for earlier lines, so stock is never consumed without a matching
// order record. Each decrement is conditional on remaining stock, which also
// keeps concurrent placements against the same product from overselling.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.BoughtQuantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
	}

	address := req.UserAddress
	if len(address) == 0 {
		address = json.RawMessage(`{}`)
	}

	o := &Order{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Items:       make([]LineItem, 0, len(req.Items)),
		TotalAmount: decimal.Zero,
		UserAddress: address,
		CreatedAt:   s.now().UTC(),
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		for _, item := range req.Items {
			p, err := s.products.DecrementStock(ctx, item.ProductID, item.BoughtQuantity)
			if err != nil {
				if errors.Is(err, product.ErrNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return err
			}

			lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.BoughtQuantity)))
			o.Items = append(o.Items, LineItem{
				ProductID:      item.ProductID,
				BoughtQuantity: item.BoughtQuantity,
				Price:          p.Price,
				TotalPrice:     lineTotal,
			})
			o.TotalAmount = o.TotalAmount.Add(lineTotal)
		}

		if err := s.orders.Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}

// ListForUser returns one page of the user's orders.
func (s *Service) ListForUser(ctx context.Context, f ListFilter) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}
