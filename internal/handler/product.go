package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
)

// ListProducts serves GET /api/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range products {
				encodeProduct(e, p)
			}
		})
	})
}

// CreateProduct serves POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	obj, err := h.readObject(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), createFields(obj))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeProduct(e, created) })
}

// UpdateProduct serves PUT /api/products/{id}. A non-numeric id is reported
// as an unknown product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeMessage(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	obj, err := h.readObject(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.svc.UpdateProduct(r.Context(), id, updateFields(obj))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProduct(e, updated) })
}

// DeleteProduct serves DELETE /api/products/{id}. Unknown ids are a no-op.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if id, ok := parseID(chi.URLParam(r, "id")); ok {
		if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
