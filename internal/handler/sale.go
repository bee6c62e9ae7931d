package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/inventory-pos/internal/domain/inventory"
)

// ListSales serves GET /api/sales.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, s := range sales {
				encodeSale(e, s)
			}
		})
	})
}

// RecordSale serves POST /api/sales.
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	obj, err := h.readObject(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := saleItems(obj)
	if len(items) == 0 {
		writeError(w, r, inventory.ErrEmptyItems)
		return
	}
	created, err := h.svc.RecordSale(r.Context(), items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSale(e, *created) })
}

// Summary serves GET /api/reports/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSummary(e, summary) })
}
