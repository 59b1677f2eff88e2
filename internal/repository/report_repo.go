package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mekarlab/billing-api/internal/models"
)

// ReportRepository serves the read-only aggregation queries behind analytics,
// CSV export, and invoice rendering. It never mutates anything.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// rangeTotals is the single-row aggregate over a date range.
type rangeTotals struct {
	TotalBills    int     `db:"total_bills"`
	TotalRevenue  float64 `db:"total_revenue"`
	TotalDiscount float64 `db:"total_discount"`
	FinalRevenue  float64 `db:"final_revenue"`
}

// Summary aggregates bills between start and end (inclusive) into totals,
// weekly buckets, and the top five products by quantity sold.
func (r *ReportRepository) Summary(ctx context.Context, start, end time.Time) (*models.SalesSummary, error) {
	const totalsQ = `
        SELECT COUNT(id)                        AS total_bills,
               COALESCE(SUM(total_amount), 0)  AS total_revenue,
               COALESCE(SUM(discount), 0)      AS total_discount,
               COALESCE(SUM(final_amount), 0)  AS final_revenue
        FROM bills
        WHERE date >= $1 AND date <= $2`
	var totals rangeTotals
	if err := r.db.GetContext(ctx, &totals, totalsQ, start, end); err != nil {
		return nil, err
	}

	const itemsQ = `
        SELECT COALESCE(SUM(bi.quantity), 0)
        FROM bill_items bi
        JOIN bills b ON b.id = bi.bill_id
        WHERE b.date >= $1 AND b.date <= $2`
	var itemsSold int
	if err := r.db.GetContext(ctx, &itemsSold, itemsQ, start, end); err != nil {
		return nil, err
	}

	const weeklySalesQ = `
        SELECT to_char(date_trunc('week', date), 'YYYY-MM-DD') AS week,
               COALESCE(SUM(final_amount), 0)                  AS total
        FROM bills
        WHERE date >= $1 AND date <= $2
        GROUP BY date_trunc('week', date)
        ORDER BY date_trunc('week', date)`
	weeklySales := []models.WeeklyPoint{}
	if err := r.db.SelectContext(ctx, &weeklySales, weeklySalesQ, start, end); err != nil {
		return nil, err
	}

	const weeklyDiscountsQ = `
        SELECT to_char(date_trunc('week', date), 'YYYY-MM-DD') AS week,
               COALESCE(SUM(discount), 0)                      AS discount
        FROM bills
        WHERE date >= $1 AND date <= $2
        GROUP BY date_trunc('week', date)
        ORDER BY date_trunc('week', date)`
	weeklyDiscounts := []models.WeeklyDiscount{}
	if err := r.db.SelectContext(ctx, &weeklyDiscounts, weeklyDiscountsQ, start, end); err != nil {
		return nil, err
	}

	const topProductsQ = `
        SELECT p.name, COALESCE(SUM(bi.quantity), 0)::int AS total_sold
        FROM products p
        JOIN bill_items bi ON bi.product_id = p.id
        JOIN bills b ON b.id = bi.bill_id
        WHERE b.date >= $1 AND b.date <= $2
        GROUP BY p.name
        ORDER BY SUM(bi.quantity) DESC
        LIMIT 5`
	topProducts := []models.TopProduct{}
	if err := r.db.SelectContext(ctx, &topProducts, topProductsQ, start, end); err != nil {
		return nil, err
	}

	return &models.SalesSummary{
		StartDate:       start.Format(time.RFC3339),
		EndDate:         end.Format(time.RFC3339),
		TotalBills:      totals.TotalBills,
		TotalRevenue:    totals.TotalRevenue,
		TotalDiscount:   totals.TotalDiscount,
		FinalRevenue:    totals.FinalRevenue,
		ItemsSold:       itemsSold,
		WeeklySales:     weeklySales,
		WeeklyDiscounts: weeklyDiscounts,
		TopProducts:     topProducts,
	}, nil
}

// MonthlyBills returns the bill rows of one calendar month, oldest first.
func (r *ReportRepository) MonthlyBills(ctx context.Context, start, end time.Time) ([]models.MonthlyBillRow, error) {
	const q = `
        SELECT b.id AS bill_id,
               to_char(b.date, 'YYYY-MM-DD"T"HH24:MI:SS') AS date,
               c.name AS client_name,
               b.total_amount, b.discount, b.final_amount
        FROM bills b
        JOIN clients c ON c.id = b.client_id
        WHERE b.date >= $1 AND b.date < $2
        ORDER BY b.date ASC`
	var rows []models.MonthlyBillRow
	if err := r.db.SelectContext(ctx, &rows, q, start, end); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyItems returns the line-item rows of one calendar month, grouped in
// the same bill order as MonthlyBills.
func (r *ReportRepository) MonthlyItems(ctx context.Context, start, end time.Time) ([]models.MonthlyItemRow, error) {
	const q = `
        SELECT bi.bill_id, p.id AS product_id, p.name AS product_name,
               bi.quantity, bi.price, bi.subtotal
        FROM bill_items bi
        JOIN bills b ON b.id = bi.bill_id
        JOIN products p ON p.id = bi.product_id
        WHERE b.date >= $1 AND b.date < $2
        ORDER BY b.date ASC, bi.bill_id ASC, bi.id ASC`
	var rows []models.MonthlyItemRow
	if err := r.db.SelectContext(ctx, &rows, q, start, end); err != nil {
		return nil, err
	}
	return rows, nil
}
