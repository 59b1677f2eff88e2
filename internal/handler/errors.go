package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mekarlab/billing-api/internal/utils"
)

// writeError maps a service error onto the HTTP taxonomy. Unknown errors
// become opaque 500s; nothing leaks and nothing is swallowed.
func writeError(c *gin.Context, err error) {
	var stockErr *utils.StockError
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrClientNotFound):
		utils.Error(c, 404, "CLIENT_NOT_FOUND", "Client not found")
	case errors.Is(err, utils.ErrBillNotFound):
		utils.Error(c, 404, "BILL_NOT_FOUND", "Bill not found")
	case errors.Is(err, utils.ErrEmptyBill):
		utils.Error(c, 400, "EMPTY_BILL", "Bill must contain at least one item")
	case errors.Is(err, utils.ErrNegativeFinalAmount):
		utils.Error(c, 400, "NEGATIVE_FINAL_AMOUNT", "Final amount cannot be negative")
	case errors.As(err, &stockErr):
		utils.Error(c, 400, "INSUFFICIENT_STOCK", stockErr.Error())
	case errors.Is(err, utils.ErrUserExists):
		utils.Error(c, 400, "USER_EXISTS", "User already exists")
	case errors.Is(err, utils.ErrProductExists):
		utils.Error(c, 400, "PRODUCT_EXISTS", "Product already exists")
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid credentials")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
