package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/mekarlab/billing-api/internal/cache"
	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/repository"
)

// ReportService serves analytics, the monthly CSV export, and HTML invoice
// rendering. It is strictly read-only over the billing data.
type ReportService struct {
	reports *repository.ReportRepository
	bills   *repository.BillRepository
	cache   *cache.ReportCache
}

// NewReportService constructs a ReportService. reportCache may be nil, in
// which case every summary hits the database.
func NewReportService(reports *repository.ReportRepository, bills *repository.BillRepository, reportCache *cache.ReportCache) *ReportService {
	return &ReportService{reports: reports, bills: bills, cache: reportCache}
}

// Summary aggregates bills in [start, end]. Zero times default to
// end = now and start = end minus 30 days.
func (s *ReportService) Summary(ctx context.Context, start, end time.Time) (*models.SalesSummary, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}

	startKey := start.Format(time.RFC3339)
	endKey := end.Format(time.RFC3339)
	if cached := s.cache.GetSummary(ctx, startKey, endKey); cached != nil {
		return cached, nil
	}

	summary, err := s.reports.Summary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	s.cache.SetSummary(ctx, startKey, endKey, summary)
	return summary, nil
}

// MonthlyCSV renders one calendar month of bills and line items as CSV and
// returns the payload with its attachment filename.
func (s *ReportService) MonthlyCSV(ctx context.Context, year, month int) ([]byte, string, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	bills, err := s.reports.MonthlyBills(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	items, err := s.reports.MonthlyItems(ctx, start, end)
	if err != nil {
		return nil, "", err
	}

	payload, err := buildMonthlyCSV(bills, items)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("sales_%d_%02d.csv", year, month)
	return payload, filename, nil
}

// buildMonthlyCSV writes the bills section, a blank separator row, then the
// line-items section.
func buildMonthlyCSV(bills []models.MonthlyBillRow, items []models.MonthlyItemRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"bill_id", "date", "client_name", "total_amount", "discount", "final_amount"}); err != nil {
		return nil, err
	}
	for _, b := range bills {
		record := []string{
			strconv.Itoa(b.BillID),
			b.Date,
			b.ClientName,
			formatAmount(b.TotalAmount),
			formatAmount(b.Discount),
			formatAmount(b.FinalAmount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{""}); err != nil {
		return nil, err
	}

	if err := w.Write([]string{"bill_id", "product_id", "product_name", "quantity", "price", "subtotal"}); err != nil {
		return nil, err
	}
	for _, it := range items {
		record := []string{
			strconv.Itoa(it.BillID),
			strconv.Itoa(it.ProductID),
			it.ProductName,
			strconv.Itoa(it.Quantity),
			formatAmount(it.Price),
			formatAmount(it.Subtotal),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// invoiceTmpl renders a standalone HTML invoice document.
var invoiceTmpl = template.Must(template.New("invoice").Parse(`<html>
<head>
  <title>Invoice #{{.BillID}}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 24px; }
    h1 { margin-bottom: 4px; }
    .meta { margin-bottom: 16px; color: #444; }
    table { width: 100%; border-collapse: collapse; }
    th, td { border-bottom: 1px solid #ddd; padding: 8px; }
    th { text-align: left; background: #f7f7f7; }
    .num { text-align: right; }
    .totals td { font-weight: bold; }
  </style>
</head>
<body>
  <h1>Invoice #{{.BillID}}</h1>
  <div class="meta">
    <div><strong>Date:</strong> {{.Date}}</div>
    <div><strong>Client:</strong> {{.ClientName}}</div>
    <div><strong>Phone:</strong> {{.Phone}}</div>
  </div>
  <table>
    <thead>
      <tr><th>Product</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Subtotal</th></tr>
    </thead>
    <tbody>
{{- range .Items}}
      <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Price}}</td><td class="num">{{.Subtotal}}</td></tr>
{{- end}}
      <tr class="totals"><td colspan="3" class="num">Total</td><td class="num">{{.Total}}</td></tr>
      <tr class="totals"><td colspan="3" class="num">Discount</td><td class="num">-{{.Discount}}</td></tr>
      <tr class="totals"><td colspan="3" class="num">Final</td><td class="num">{{.Final}}</td></tr>
    </tbody>
  </table>
</body>
</html>
`))

// invoiceView is the pre-formatted template model.
type invoiceView struct {
	BillID     int
	Date       string
	ClientName string
	Phone      string
	Items      []invoiceItemView
	Total      string
	Discount   string
	Final      string
}

type invoiceItemView struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

// InvoiceHTML renders a bill as a standalone HTML invoice.
func (s *ReportService) InvoiceHTML(ctx context.Context, billID int) ([]byte, error) {
	detail, err := s.bills.GetDetail(ctx, billID)
	if err != nil {
		return nil, err
	}
	return renderInvoice(detail)
}

func renderInvoice(detail *models.BillDetail) ([]byte, error) {
	view := invoiceView{
		BillID:     detail.BillID,
		Date:       detail.Date.Format(time.RFC3339),
		ClientName: detail.ClientName,
		Total:      money(detail.TotalAmount),
		Discount:   money(detail.Discount),
		Final:      money(detail.FinalAmount),
	}
	if detail.ClientPhone != nil {
		view.Phone = *detail.ClientPhone
	}
	for _, it := range detail.Items {
		view.Items = append(view.Items, invoiceItemView{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    money(it.Price),
			Subtotal: money(it.Subtotal),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
