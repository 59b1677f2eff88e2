package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/repository"
	"github.com/mekarlab/billing-api/internal/utils"
)

// fakeBillStore records the NewBill it was asked to persist.
type fakeBillStore struct {
	created *repository.NewBill
	err     error
}

func (f *fakeBillStore) Create(_ context.Context, in *repository.NewBill) (*models.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = in
	return &models.Bill{
		ID:          42,
		ClientID:    7,
		Date:        time.Now(),
		TotalAmount: in.TotalAmount,
		Discount:    in.Discount,
		FinalAmount: in.FinalAmount,
	}, nil
}

func (f *fakeBillStore) ListSummaries(_ context.Context) ([]models.BillSummary, error) {
	return nil, nil
}

func (f *fakeBillStore) GetDetail(_ context.Context, _ int) (*models.BillDetail, error) {
	return nil, utils.ErrBillNotFound
}

func TestCreateBill_EmptyItems(t *testing.T) {
	svc := NewBillingService(&fakeBillStore{}, nil)

	_, err := svc.CreateBill(context.Background(), &CreateBillRequest{
		ClientName: "Acme",
		Items:      nil,
	})
	assert.ErrorIs(t, err, utils.ErrEmptyBill)
}

func TestCreateBill_ComputesTotals(t *testing.T) {
	store := &fakeBillStore{}
	svc := NewBillingService(store, nil)

	bill, err := svc.CreateBill(context.Background(), &CreateBillRequest{
		ClientName: "Acme",
		Items: []BillLineRequest{
			{ProductID: 1, Quantity: 2, Price: 10},
			{ProductID: 2, Quantity: 1, Price: 5},
		},
		Discount: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 42, bill.ID)
	assert.Equal(t, 25.0, bill.TotalAmount)
	assert.Equal(t, 20.0, bill.FinalAmount)

	require.NotNil(t, store.created)
	assert.Equal(t, "Acme", store.created.ClientName)
	assert.Equal(t, 25.0, store.created.TotalAmount)
	assert.Equal(t, 5.0, store.created.Discount)
	assert.Equal(t, 20.0, store.created.FinalAmount)
}

func TestBuildItems(t *testing.T) {
	items, total := buildItems([]BillLineRequest{
		{ProductID: 3, Quantity: 4, Price: 2.5},
		{ProductID: 1, Quantity: 1, Price: 0.5},
		{ProductID: 2, Quantity: 2, Price: 3},
	})

	assert.Equal(t, 16.5, total)
	require.Len(t, items, 3)

	// Input order is preserved; subtotal is price times quantity.
	assert.Equal(t, 3, items[0].ProductID)
	assert.Equal(t, 10.0, items[0].Subtotal)
	assert.Equal(t, 1, items[1].ProductID)
	assert.Equal(t, 0.5, items[1].Subtotal)
	assert.Equal(t, 2, items[2].ProductID)
	assert.Equal(t, 6.0, items[2].Subtotal)
}

func TestCreateBill_PropagatesStockError(t *testing.T) {
	stockErr := &utils.StockError{ProductID: 9, ProductName: "Pen", Requested: 5, Available: 2}
	svc := NewBillingService(&fakeBillStore{err: stockErr}, nil)

	_, err := svc.CreateBill(context.Background(), &CreateBillRequest{
		ClientName: "Acme",
		Items:      []BillLineRequest{{ProductID: 9, Quantity: 5, Price: 4}},
	})

	var se *utils.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 9, se.ProductID)
	assert.Equal(t, 5, se.Requested)
	assert.Equal(t, 2, se.Available)
}
