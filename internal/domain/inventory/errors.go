package inventory

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrEmptyItems is returned when a sale has no line items.
var ErrEmptyItems = errors.New("items required")

// ValidationError indicates a client supplied value violates a field rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// InsufficientStockError indicates a sale asks for more units than a product
// has in stock.
type InsufficientStockError struct {
	ProductID int64
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product ID %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
