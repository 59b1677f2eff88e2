package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/utils"
)

// ClientRepository handles data access for clients. Client rows are created
// by the bill transaction (lookup-or-create by name); this repository only
// reads.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// List returns all clients ordered by name.
func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	const q = `SELECT * FROM clients ORDER BY name ASC`
	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, q); err != nil {
		return nil, err
	}
	return clients, nil
}

// GetByID returns a client by id.
func (r *ClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	const q = `SELECT * FROM clients WHERE id = $1 LIMIT 1`
	var c models.Client
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByName returns a client by exact name match. Name is the de facto
// natural key: the first client with a given name wins all later lookups.
func (r *ClientRepository) GetByName(ctx context.Context, name string) (*models.Client, error) {
	const q = `SELECT * FROM clients WHERE name = $1 ORDER BY id ASC LIMIT 1`
	var c models.Client
	if err := r.db.GetContext(ctx, &c, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListBills returns the client's bills, newest first.
func (r *ClientRepository) ListBills(ctx context.Context, clientID int) ([]models.BillSummary, error) {
	const q = `
        SELECT id AS bill_id, date, total_amount, discount, final_amount
        FROM bills
        WHERE client_id = $1
        ORDER BY date DESC`
	var bills []models.BillSummary
	if err := r.db.SelectContext(ctx, &bills, q, clientID); err != nil {
		return nil, err
	}
	return bills, nil
}
