package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mekarlab/billing-api/internal/service"
	"github.com/mekarlab/billing-api/internal/utils"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// Add handles POST /products/add.
func (h *ProductHandler) Add(c *gin.Context) {
	var req struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price" binding:"required,gt=0"`
		Stock int     `json:"stock" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalogService.Add(c.Request.Context(), req.Name, req.Price, req.Stock)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":    "Product added",
		"product_id": product.ID,
	})
}

// List handles GET /products/list (active products only).
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalogService.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		out = append(out, gin.H{
			"product_id": p.ID,
			"name":       p.Name,
			"price":      p.Price,
			"stock":      p.Stock,
		})
	}
	c.JSON(200, out)
}

// UpdatePrice handles POST /products/update_price.
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	var req struct {
		ProductID int     `json:"product_id" binding:"required"`
		NewPrice  float64 `json:"new_price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalogService.UpdatePrice(c.Request.Context(), req.ProductID, req.NewPrice)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":    "Price updated",
		"product_id": product.ID,
		"price":      product.Price,
	})
}

// UpdateStock handles POST /products/update_stock.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var req struct {
		ProductID int  `json:"product_id" binding:"required"`
		NewStock  *int `json:"new_stock" binding:"required,gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalogService.UpdateStock(c.Request.Context(), req.ProductID, *req.NewStock)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":    "Stock updated",
		"product_id": product.ID,
		"stock":      product.Stock,
	})
}

// Deactivate handles DELETE /products/:id (soft delete).
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	if err := h.catalogService.Deactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Product marked inactive", "product_id": id})
}

// Restore handles POST /products/restore/:id.
func (h *ProductHandler) Restore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	if err := h.catalogService.Restore(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Product restored", "product_id": id, "is_active": true})
}
