package models

import "time"

// Product represents a sellable catalog item. Deactivated products keep
// their row (bills reference them historically) but are hidden from listing
// and mutation until restored.
type Product struct {
	ID        int       `db:"id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Stock     int       `db:"stock" json:"stock"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
