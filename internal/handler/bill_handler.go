package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/service"
	"github.com/mekarlab/billing-api/internal/utils"
)

// BillHandler handles bill creation and reads.
type BillHandler struct {
	billingService *service.BillingService
	reportService  *service.ReportService
}

// NewBillHandler constructs a BillHandler.
func NewBillHandler(billingService *service.BillingService, reportService *service.ReportService) *BillHandler {
	return &BillHandler{billingService: billingService, reportService: reportService}
}

// Create handles POST /bills/create.
func (h *BillHandler) Create(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":      "Bill created",
		"bill_id":      bill.ID,
		"final_amount": bill.FinalAmount,
	})
}

// List handles GET /bills/list (newest first).
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.billingService.ListBills(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if bills == nil {
		bills = []models.BillSummary{}
	}
	c.JSON(200, bills)
}

// Get handles GET /bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid bill ID")
		return
	}

	detail, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, detail)
}

// Invoice handles GET /bills/:id/invoice, returning a rendered HTML
// document.
func (h *BillHandler) Invoice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid bill ID")
		return
	}

	html, err := h.reportService.InvoiceHTML(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(200, "text/html; charset=utf-8", html)
}
