package postgres

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/storekit/ecom-backend/internal/domain/product"
)

const (
	createProductSQL = `INSERT INTO products (id, name, price, quantity)
		VALUES ($1, $2, $3, $4)`

	// $1/$2 are passed as NULL when the corresponding filter is unset.
	// Products whose size column is NULL never match an exact size filter.
	listProductsSQL = `SELECT id, name, price, quantity FROM products
		WHERE ($1::text IS NULL OR name ILIKE $1)
		  AND ($2::text IS NULL OR size = $2)
		ORDER BY seq
		LIMIT $3 OFFSET $4`

	decrementStockSQL = `UPDATE products
		SET quantity = quantity - $2
		WHERE id = $1 AND quantity >= $2
		RETURNING id, name, price, quantity`

	getProductStockSQL = `SELECT id, name, price, quantity FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	db *DB
}

// NewProductRepository returns a ProductRepository that uses the given DB.
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product and returns its generated ID.
func (r *ProductRepository) Create(ctx context.Context, name string, price decimal.Decimal, quantity int) (string, error) {
	id := uuid.New().String()
	_, err := r.db.querier(ctx).Exec(ctx, createProductSQL, id, name, price, quantity)
	if err != nil {
		return "", wrapErr(err, "create product")
	}
	return id, nil
}

// List returns one page of products matching the filter, in insertion order.
func (r *ProductRepository) List(ctx context.Context, f product.ListFilter) ([]product.Product, error) {
	var namePattern, size *string
	if f.NameContains != "" {
		p := "%" + escapeLike(f.NameContains) + "%"
		namePattern = &p
	}
	if f.Size != "" {
		size = &f.Size
	}

	rows, err := r.db.querier(ctx).Query(ctx, listProductsSQL, namePattern, size, f.Limit, f.Offset)
	if err != nil {
		return nil, wrapErr(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// DecrementStock conditionally reduces a product's stock in one statement.
// The WHERE guard keeps quantity from ever going negative, including under
// concurrent placements. It returns the product with its pre-decrement
// quantity.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (*product.Product, error) {
	q := r.db.querier(ctx)

	rows, err := q.Query(ctx, decrementStockSQL, id, quantity)
	if err != nil {
		return nil, wrapErr(err, "decrement stock for %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err == nil {
		p.Quantity += quantity
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, wrapErr(err, "decrement stock for %q", id)
	}

	// The guard rejected the update: distinguish a missing product from one
	// that exists with too little stock.
	rows, err = q.Query(ctx, getProductStockSQL, id)
	if err != nil {
		return nil, wrapErr(err, "get product %q", id)
	}
	p, err = pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, wrapErr(err, "get product %q", id)
	}

	return nil, &product.InsufficientStockError{
		ID:        p.ID,
		Name:      p.Name,
		Available: p.Quantity,
		Requested: quantity,
	}
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &price, &p.Quantity)
	p.Price = price
	return p, err
}

// escapeLike escapes LIKE/ILIKE metacharacters so filter text always matches
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
