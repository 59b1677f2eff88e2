package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// ProductRepository handles data access for catalog products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product. A duplicate name yields ErrProductExists.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	const q = `
        INSERT INTO products (name, price, stock, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q, product.Name, product.Price, product.Stock, product.IsActive).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return utils.ErrProductExists
	}
	return err
}

// ListActive returns all active products ordered by name.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT * FROM products WHERE is_active = true ORDER BY name ASC`
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id regardless of active state.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdatePrice sets the price of an active product. Inactive or missing
// products are not found.
func (r *ProductRepository) UpdatePrice(ctx context.Context, id int, price float64) (*models.Product, error) {
	const q = `
        UPDATE products SET price = $2, updated_at = NOW()
        WHERE id = $1 AND is_active = true
        RETURNING *`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id, price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateStock sets the absolute stock count of an active product. Inactive
// or missing products are not found. Relative decrements happen only inside
// the bill transaction.
func (r *ProductRepository) UpdateStock(ctx context.Context, id, stock int) (*models.Product, error) {
	const q = `
        UPDATE products SET stock = $2, updated_at = NOW()
        WHERE id = $1 AND is_active = true
        RETURNING *`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id, stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetActive flips the soft-delete flag. Missing products are not found.
func (r *ProductRepository) SetActive(ctx context.Context, id int, isActive bool) error {
	const q = `UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, isActive)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}
