package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/storekit/ecom-backend/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, items, total_amount, user_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	listOrdersByUserSQL = `SELECT id, user_id, items, total_amount, user_address, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY seq
		LIMIT $2 OFFSET $3`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	db *DB
}

// NewOrderRepository returns an OrderRepository that uses the given DB.
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order. Line items and the address are stored in
// JSONB columns.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshal order items")
	}

	_, err = r.db.querier(ctx).Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.TotalAmount, []byte(o.UserAddress), o.CreatedAt,
	)
	if err != nil {
		return wrapErr(err, "create order %q", o.ID)
	}

	return nil
}

// ListByUser returns one page of the user's orders in insertion order.
func (r *OrderRepository) ListByUser(ctx context.Context, f order.ListFilter) ([]order.Order, error) {
	rows, err := r.db.querier(ctx).Query(ctx, listOrdersByUserSQL, f.UserID, f.Limit, f.Offset)
	if err != nil {
		return nil, wrapErr(err, "list orders for %q", f.UserID)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o       order.Order
		items   []byte
		address []byte
		total   decimal.Decimal
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &total, &address, &o.CreatedAt); err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return order.Order{}, errors.Wrapf(err, "unmarshal items for order %q", o.ID)
	}
	o.TotalAmount = total
	o.UserAddress = json.RawMessage(address)
	return o, nil
}
