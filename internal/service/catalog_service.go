package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/repository"
)

// CatalogService handles product management. Every operation is a single-row
// read-modify-write; stock decrements from sales belong to BillingService.
type CatalogService struct {
	products *repository.ProductRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(products *repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// Add creates a new active product.
func (s *CatalogService) Add(ctx context.Context, name string, price float64, stock int) (*models.Product, error) {
	product := &models.Product{
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	log.Info().Int("product_id", product.ID).Str("name", name).Msg("product added")
	return product, nil
}

// ListActive returns the visible catalog, ordered by name.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.Product, error) {
	return s.products.ListActive(ctx)
}

// UpdatePrice sets a new price on an active product.
func (s *CatalogService) UpdatePrice(ctx context.Context, id int, price float64) (*models.Product, error) {
	return s.products.UpdatePrice(ctx, id, price)
}

// UpdateStock sets a new absolute stock count on an active product.
func (s *CatalogService) UpdateStock(ctx context.Context, id, stock int) (*models.Product, error) {
	return s.products.UpdateStock(ctx, id, stock)
}

// Deactivate soft-deletes a product. Historical bill items keep referencing
// it; Restore undoes the flag.
func (s *CatalogService) Deactivate(ctx context.Context, id int) error {
	if err := s.products.SetActive(ctx, id, false); err != nil {
		return err
	}
	log.Info().Int("product_id", id).Msg("product deactivated")
	return nil
}

// Restore reactivates a soft-deleted product.
func (s *CatalogService) Restore(ctx context.Context, id int) error {
	if err := s.products.SetActive(ctx, id, true); err != nil {
		return err
	}
	log.Info().Int("product_id", id).Msg("product restored")
	return nil
}
