package models

// WeeklyPoint is one week bucket of summed final amounts.
type WeeklyPoint struct {
	Week  string  `db:"week" json:"week"`
	Total float64 `db:"total" json:"total"`
}

// WeeklyDiscount is one week bucket of summed discounts.
type WeeklyDiscount struct {
	Week     string  `db:"week" json:"week"`
	Discount float64 `db:"discount" json:"discount"`
}

// TopProduct is a product ranked by quantity sold in a period.
type TopProduct struct {
	Name      string `db:"name" json:"name"`
	TotalSold int    `db:"total_sold" json:"total_sold"`
}

// SalesSummary is the date-range analytics aggregate.
type SalesSummary struct {
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	TotalBills      int              `json:"total_bills"`
	TotalRevenue    float64          `json:"total_revenue"`
	TotalDiscount   float64          `json:"total_discount"`
	FinalRevenue    float64          `json:"final_revenue"`
	ItemsSold       int              `json:"items_sold"`
	WeeklySales     []WeeklyPoint    `json:"weekly_sales"`
	WeeklyDiscounts []WeeklyDiscount `json:"weekly_discounts"`
	TopProducts     []TopProduct     `json:"top_products"`
}

// MonthlyBillRow is one bill row of the monthly CSV export.
type MonthlyBillRow struct {
	BillID      int     `db:"bill_id"`
	Date        string  `db:"date"`
	ClientName  string  `db:"client_name"`
	TotalAmount float64 `db:"total_amount"`
	Discount    float64 `db:"discount"`
	FinalAmount float64 `db:"final_amount"`
}

// MonthlyItemRow is one line-item row of the monthly CSV export.
type MonthlyItemRow struct {
	BillID      int     `db:"bill_id"`
	ProductID   int     `db:"product_id"`
	ProductName string  `db:"product_name"`
	Quantity    int     `db:"quantity"`
	Price       float64 `db:"price"`
	Subtotal    float64 `db:"subtotal"`
}
