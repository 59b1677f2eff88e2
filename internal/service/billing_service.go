package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mekarlab/billing-api/internal/cache"
	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/repository"
	"github.com/mekarlab/billing-api/internal/utils"
)

// BillLineRequest is one requested bill line. Price is the caller-supplied
// unit price snapshot, deliberately not re-read from the catalog so later
// price changes never affect old bills.
type BillLineRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

// CreateBillRequest is the input to bill creation.
type CreateBillRequest struct {
	ClientName string            `json:"client_name" binding:"required"`
	Phone      *string           `json:"phone"`
	Items      []BillLineRequest `json:"items"`
	Discount   float64           `json:"discount" binding:"gte=0"`
}

// BillStore is the persistence surface BillingService needs. The Create
// implementation must be atomic: all rows or none.
type BillStore interface {
	Create(ctx context.Context, in *repository.NewBill) (*models.Bill, error)
	ListSummaries(ctx context.Context) ([]models.BillSummary, error)
	GetDetail(ctx context.Context, billID int) (*models.BillDetail, error)
}

// BillingService is the ledger: it creates bills atomically across client,
// product-stock, bill, and bill-item records, and serves bill reads.
type BillingService struct {
	bills       BillStore
	reportCache *cache.ReportCache
}

// NewBillingService constructs a BillingService. reportCache may be nil.
func NewBillingService(bills BillStore, reportCache *cache.ReportCache) *BillingService {
	return &BillingService{bills: bills, reportCache: reportCache}
}

// CreateBill validates the request, computes line subtotals and bill totals,
// and hands the whole unit to the repository for an all-or-nothing commit.
// Resubmitting the same request creates a second bill: creation is not
// idempotent.
func (s *BillingService) CreateBill(ctx context.Context, req *CreateBillRequest) (*models.Bill, error) {
	if len(req.Items) == 0 {
		return nil, utils.ErrEmptyBill
	}

	items, total := buildItems(req.Items)
	bill, err := s.bills.Create(ctx, &repository.NewBill{
		ClientName:  req.ClientName,
		Phone:       req.Phone,
		Items:       items,
		TotalAmount: total,
		Discount:    req.Discount,
		FinalAmount: total - req.Discount,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("bill_id", bill.ID).
		Str("client", req.ClientName).
		Int("items", len(items)).
		Float64("final_amount", bill.FinalAmount).
		Msg("bill created")

	// Cached analytics summaries are stale now; best-effort invalidation.
	s.reportCache.BumpGeneration(ctx)

	return bill, nil
}

// buildItems turns line requests into persistable items with subtotals, in
// input order, and returns the summed total.
func buildItems(lines []BillLineRequest) ([]models.BillItem, float64) {
	items := make([]models.BillItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		subtotal := line.Price * float64(line.Quantity)
		total += subtotal
		items = append(items, models.BillItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Subtotal:  subtotal,
		})
	}
	return items, total
}

// ListBills returns all bill summaries, newest first.
func (s *BillingService) ListBills(ctx context.Context) ([]models.BillSummary, error) {
	return s.bills.ListSummaries(ctx)
}

// GetBill returns one bill with its line items.
func (s *BillingService) GetBill(ctx context.Context, id int) (*models.BillDetail, error) {
	return s.bills.GetDetail(ctx, id)
}
