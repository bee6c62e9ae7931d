// Package handler exposes the inventory service over the REST API consumed
// by the point-of-sale UI.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/domain/sale"
)

// Service is the domain surface the handlers depend on.
type Service interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, f product.Fields) (product.Product, error)
	UpdateProduct(ctx context.Context, id int64, f product.Fields) (product.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListSales(ctx context.Context) ([]sale.Sale, error)
	RecordSale(ctx context.Context, items []sale.LineItem) (*sale.Sale, error)
	Summary(ctx context.Context) (*sale.Summary, error)
}

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Handler maps HTTP requests onto Service calls.
type Handler struct {
	svc          Service
	maxBodyBytes int64
}

// NewHandler constructs a Handler delegating to svc.
func NewHandler(cfg HandlerConfig, svc Service) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Handler{
		svc:          svc,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/sales", h.ListSales)
		r.Post("/sales", h.RecordSale)

		r.Get("/reports/summary", h.Summary)
	})
	return r
}
