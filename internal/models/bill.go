package models

import "time"

// Bill is a committed sale. Immutable after creation; there is no update or
// cancel operation.
type Bill struct {
	ID          int       `db:"id" json:"bill_id"`
	ClientID    int       `db:"client_id" json:"client_id"`
	Date        time.Time `db:"date" json:"date"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	Discount    float64   `db:"discount" json:"discount"`
	FinalAmount float64   `db:"final_amount" json:"final_amount"`
}

// BillItem is one line of a bill. Price is the unit price snapshotted at
// creation time, independent of later catalog price changes.
type BillItem struct {
	ID        int     `db:"id" json:"id"`
	BillID    int     `db:"bill_id" json:"bill_id"`
	ProductID int     `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// BillSummary is the list/history projection of a bill.
type BillSummary struct {
	BillID      int       `db:"bill_id" json:"bill_id"`
	ClientName  string    `db:"client_name" json:"client_name,omitempty"`
	Date        time.Time `db:"date" json:"date"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	Discount    float64   `db:"discount" json:"discount"`
	FinalAmount float64   `db:"final_amount" json:"final_amount"`
}

// BillDetailItem is a bill line joined with its product name.
type BillDetailItem struct {
	ProductID int     `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// BillDetail is a full bill with client info and line items.
type BillDetail struct {
	BillID      int              `json:"bill_id"`
	ClientID    int              `json:"client_id"`
	ClientName  string           `json:"client_name"`
	ClientPhone *string          `json:"-"`
	Date        time.Time        `json:"date"`
	TotalAmount float64          `json:"total_amount"`
	Discount    float64          `json:"discount"`
	FinalAmount float64          `json:"final_amount"`
	Items       []BillDetailItem `json:"items"`
}
