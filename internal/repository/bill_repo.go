package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

// NewBill carries everything the bill transaction persists. Items arrive
// with subtotals already computed; TotalAmount, Discount, and FinalAmount
// are the pre-computed bill totals.
type NewBill struct {
	ClientName  string
	Phone       *string
	Items       []models.BillItem
	TotalAmount float64
	Discount    float64
	FinalAmount float64
}

// BillRepository handles data access for bills and their line items.
type BillRepository struct {
	db *sqlx.DB
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create runs the bill transaction: resolve-or-create the client, stage the
// stock decrement for every line in input order, reject a negative final
// amount, then persist the bill, its items, and the client's running total
// in one atomic commit. Any failure rolls the whole transaction back.
//
// The stock check-and-decrement is a single conditional UPDATE
// (stock = stock - qty WHERE stock >= qty), so two concurrent bills can
// never oversell a product: the second UPDATE on the same row waits for the
// first transaction and then re-evaluates the guard.
func (r *BillRepository) Create(ctx context.Context, in *NewBill) (*models.Bill, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	client, err := resolveClient(ctx, tx, in.ClientName, in.Phone)
	if err != nil {
		return nil, err
	}

	for i := range in.Items {
		if err := decrementStock(ctx, tx, &in.Items[i]); err != nil {
			return nil, err
		}
	}

	if in.FinalAmount < 0 {
		return nil, utils.ErrNegativeFinalAmount
	}

	bill := &models.Bill{
		ClientID:    client.ID,
		TotalAmount: in.TotalAmount,
		Discount:    in.Discount,
		FinalAmount: in.FinalAmount,
	}
	const insertBill = `
        INSERT INTO bills (client_id, total_amount, discount, final_amount)
        VALUES ($1, $2, $3, $4)
        RETURNING id, date`
	if err := tx.QueryRowxContext(ctx, insertBill,
		bill.ClientID, bill.TotalAmount, bill.Discount, bill.FinalAmount,
	).Scan(&bill.ID, &bill.Date); err != nil {
		return nil, err
	}

	const insertItem = `
        INSERT INTO bill_items (bill_id, product_id, quantity, price, subtotal)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	for i := range in.Items {
		it := &in.Items[i]
		it.BillID = bill.ID
		if err := tx.QueryRowxContext(ctx, insertItem,
			it.BillID, it.ProductID, it.Quantity, it.Price, it.Subtotal,
		).Scan(&it.ID); err != nil {
			return nil, err
		}
	}

	const updateClient = `UPDATE clients SET total_spent = total_spent + $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateClient, client.ID, bill.FinalAmount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return bill, nil
}

// resolveClient finds a client by exact name or creates one. The phone of an
// existing client is not updated: first write wins.
func resolveClient(ctx context.Context, tx *sqlx.Tx, name string, phone *string) (*models.Client, error) {
	var c models.Client
	err := tx.GetContext(ctx, &c, `SELECT * FROM clients WHERE name = $1 ORDER BY id ASC LIMIT 1`, name)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	const insert = `
        INSERT INTO clients (name, phone, total_spent)
        VALUES ($1, $2, 0)
        RETURNING id, created_at`
	c.Name = name
	c.Phone = phone
	if err := tx.QueryRowxContext(ctx, insert, name, phone).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// decrementStock atomically checks and decrements the stock of one active
// product. Zero rows affected means the product is either missing/inactive
// (not found) or short on stock; a follow-up read inside the same
// transaction tells the two apart for the error report.
func decrementStock(ctx context.Context, tx *sqlx.Tx, item *models.BillItem) error {
	const q = `
        UPDATE products SET stock = stock - $2, updated_at = NOW()
        WHERE id = $1 AND is_active = true AND stock >= $2`
	res, err := tx.ExecContext(ctx, q, item.ProductID, item.Quantity)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	var p models.Product
	err = tx.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 AND is_active = true`, item.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %d: %w", item.ProductID, utils.ErrProductNotFound)
	}
	if err != nil {
		return err
	}
	return &utils.StockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   item.Quantity,
		Available:   p.Stock,
	}
}

// ListSummaries returns all bills joined with their client names, newest
// first.
func (r *BillRepository) ListSummaries(ctx context.Context) ([]models.BillSummary, error) {
	const q = `
        SELECT b.id AS bill_id, c.name AS client_name, b.date,
               b.total_amount, b.discount, b.final_amount
        FROM bills b
        JOIN clients c ON c.id = b.client_id
        ORDER BY b.date DESC`
	var bills []models.BillSummary
	if err := r.db.SelectContext(ctx, &bills, q); err != nil {
		return nil, err
	}
	return bills, nil
}

// GetDetail returns a bill with client info and line items.
func (r *BillRepository) GetDetail(ctx context.Context, billID int) (*models.BillDetail, error) {
	const billQ = `
        SELECT b.id, b.client_id, b.date, b.total_amount, b.discount, b.final_amount,
               c.name AS client_name, c.phone AS client_phone
        FROM bills b
        JOIN clients c ON c.id = b.client_id
        WHERE b.id = $1`
	var row struct {
		models.Bill
		ClientName  string  `db:"client_name"`
		ClientPhone *string `db:"client_phone"`
	}
	if err := r.db.GetContext(ctx, &row, billQ, billID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrBillNotFound
		}
		return nil, err
	}

	const itemsQ = `
        SELECT bi.product_id, p.name, bi.quantity, bi.price, bi.subtotal
        FROM bill_items bi
        JOIN products p ON p.id = bi.product_id
        WHERE bi.bill_id = $1
        ORDER BY bi.id ASC`
	var items []models.BillDetailItem
	if err := r.db.SelectContext(ctx, &items, itemsQ, billID); err != nil {
		return nil, err
	}

	return &models.BillDetail{
		BillID:      row.Bill.ID,
		ClientID:    row.Bill.ClientID,
		ClientName:  row.ClientName,
		ClientPhone: row.ClientPhone,
		Date:        row.Bill.Date,
		TotalAmount: row.Bill.TotalAmount,
		Discount:    row.Bill.Discount,
		FinalAmount: row.Bill.FinalAmount,
		Items:       items,
	}, nil
}
