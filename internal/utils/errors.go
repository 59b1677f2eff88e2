package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrTokenExpired        = errors.New("TOKEN_EXPIRED")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrForbidden           = errors.New("FORBIDDEN")
	ErrUserExists          = errors.New("USER_EXISTS")
	ErrProductExists       = errors.New("PRODUCT_EXISTS")
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrClientNotFound      = errors.New("CLIENT_NOT_FOUND")
	ErrBillNotFound        = errors.New("BILL_NOT_FOUND")
	ErrEmptyBill           = errors.New("EMPTY_BILL")
	ErrNegativeFinalAmount = errors.New("NEGATIVE_FINAL_AMOUNT")
)

// StockError is returned when a bill line requests more units than a product
// has in stock. The whole bill transaction is rolled back.
type StockError struct {
	ProductID   int
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("INSUFFICIENT_STOCK: not enough stock for %s (requested %d, available %d)",
		e.ProductName, e.Requested, e.Available)
}
