package service

import (
	"context"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/repository"
)

// ClientService serves client reads. Clients come into existence through the
// bill transaction only.
type ClientService struct {
	clients *repository.ClientRepository
}

// NewClientService constructs a ClientService.
func NewClientService(clients *repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// List returns all clients ordered by name.
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.List(ctx)
}

// History returns a client and its bills, newest first.
func (s *ClientService) History(ctx context.Context, id int) (*models.ClientHistory, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.historyOf(ctx, client)
}

// HistoryByName resolves a client by exact name and returns its history.
func (s *ClientService) HistoryByName(ctx context.Context, name string) (*models.ClientHistory, error) {
	client, err := s.clients.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.historyOf(ctx, client)
}

func (s *ClientService) historyOf(ctx context.Context, client *models.Client) (*models.ClientHistory, error) {
	bills, err := s.clients.ListBills(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if bills == nil {
		bills = []models.BillSummary{}
	}
	return &models.ClientHistory{
		ClientID:   client.ID,
		Name:       client.Name,
		Phone:      client.Phone,
		TotalSpent: client.TotalSpent,
		Bills:      bills,
	}, nil
}
