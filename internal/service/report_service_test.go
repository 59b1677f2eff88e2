package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mekarlab/billing-api/internal/models"
)

func TestBuildMonthlyCSV(t *testing.T) {
	bills := []models.MonthlyBillRow{
		{BillID: 1, Date: "2026-08-02 10:15", ClientName: "Acme", TotalAmount: 100, Discount: 10, FinalAmount: 90},
		{BillID: 2, Date: "2026-08-05 16:40", ClientName: "Bob's Shop", TotalAmount: 25.5, Discount: 0, FinalAmount: 25.5},
	}
	items := []models.MonthlyItemRow{
		{BillID: 1, ProductID: 3, ProductName: "Pen", Quantity: 10, Price: 10, Subtotal: 100},
		{BillID: 2, ProductID: 5, ProductName: "Notebook", Quantity: 3, Price: 8.5, Subtotal: 25.5},
	}

	payload, err := buildMonthlyCSV(bills, items)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	require.Len(t, lines, 7)

	assert.Equal(t, "bill_id,date,client_name,total_amount,discount,final_amount", lines[0])
	assert.Equal(t, "1,2026-08-02 10:15,Acme,100,10,90", lines[1])
	assert.Equal(t, "2,2026-08-05 16:40,Bob's Shop,25.5,0,25.5", lines[2])
	// Blank row separates the bills section from the items section.
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "bill_id,product_id,product_name,quantity,price,subtotal", lines[4])
	assert.Equal(t, "1,3,Pen,10,10,100", lines[5])
	assert.Equal(t, "2,5,Notebook,3,8.5,25.5", lines[6])
}

func TestBuildMonthlyCSV_Empty(t *testing.T) {
	payload, err := buildMonthlyCSV(nil, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "bill_id,date,client_name,total_amount,discount,final_amount", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "bill_id,product_id,product_name,quantity,price,subtotal", lines[2])
}

func TestRenderInvoice(t *testing.T) {
	phone := "555-0101"
	detail := &models.BillDetail{
		BillID:      17,
		ClientID:    3,
		ClientName:  "Acme",
		ClientPhone: &phone,
		Date:        time.Date(2026, 8, 2, 10, 15, 0, 0, time.UTC),
		TotalAmount: 100,
		Discount:    10,
		FinalAmount: 90,
		Items: []models.BillDetailItem{
			{ProductID: 3, Name: "Pen", Quantity: 10, Price: 10, Subtotal: 100},
		},
	}

	payload, err := renderInvoice(detail)
	require.NoError(t, err)
	html := string(payload)

	assert.Contains(t, html, "Invoice #17")
	assert.Contains(t, html, "Acme")
	assert.Contains(t, html, "555-0101")
	assert.Contains(t, html, "<td>Pen</td>")
	assert.Contains(t, html, "100.00")
	assert.Contains(t, html, "-10.00")
	assert.Contains(t, html, "90.00")
}

func TestRenderInvoice_EscapesClientName(t *testing.T) {
	detail := &models.BillDetail{
		BillID:      1,
		ClientName:  "<script>alert(1)</script>",
		Date:        time.Date(2026, 8, 2, 10, 15, 0, 0, time.UTC),
		TotalAmount: 5,
		FinalAmount: 5,
	}

	payload, err := renderInvoice(detail)
	require.NoError(t, err)
	html := string(payload)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderInvoice_NilPhone(t *testing.T) {
	detail := &models.BillDetail{
		BillID:      2,
		ClientName:  "Acme",
		Date:        time.Date(2026, 8, 2, 10, 15, 0, 0, time.UTC),
		TotalAmount: 5,
		FinalAmount: 5,
	}

	payload, err := renderInvoice(detail)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "<strong>Phone:</strong> ")
}
