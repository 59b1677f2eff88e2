package models

import "time"

// Client represents a billed customer. TotalSpent is a running aggregate
// maintained by the bill transaction, never recomputed from bills.
type Client struct {
	ID         int       `db:"id" json:"client_id"`
	Name       string    `db:"name" json:"name"`
	Phone      *string   `db:"phone" json:"phone"`
	TotalSpent float64   `db:"total_spent" json:"total_spent"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}

// ClientHistory is a client with its bills, newest first.
type ClientHistory struct {
	ClientID   int           `json:"client_id"`
	Name       string        `json:"name"`
	Phone      *string       `json:"phone"`
	TotalSpent float64       `json:"total_spent"`
	Bills      []BillSummary `json:"bills"`
}
