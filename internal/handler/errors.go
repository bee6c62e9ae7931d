package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/inventory-pos/internal/domain/inventory"
	"github.com/xenking/inventory-pos/internal/domain/product"
)

const (
	msgProductNotFound = "Product not found"
	msgNoItems         = "No items provided"
)

// writeError converts domain errors to HTTP responses. Unknown errors are
// logged and exposed as 500 with their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, inventory.ErrEmptyItems) {
		writeMessage(w, http.StatusBadRequest, msgNoItems)
		return
	}
	if errors.Is(err, product.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	if errors.Is(err, errBodyTooLarge) {
		writeMessage(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeMessage(w, http.StatusBadRequest,
			fmt.Sprintf("Insufficient stock for product ID %d", stockErr.ProductID))
		return
	}

	var (
		qtyErr  *inventory.InvalidQuantityError
		valErr  *inventory.ValidationError
		bodyErr *BodyError
	)
	if errors.As(err, &qtyErr) || errors.As(err, &valErr) || errors.As(err, &bodyErr) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	zctx.From(r.Context()).Error("Handler error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeMessage(w, http.StatusInternalServerError, err.Error())
}
