package product

import (
	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Defaults applied to fields that are missing or empty.
const (
	DefaultName     = "Untitled Product"
	DefaultCategory = "Uncategorized"
	DefaultImage    = "https://via.placeholder.com/150?text=No+Image"
)

// Product represents an item held in stock and offered for sale.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Image       string  `json:"image"`
}

// Fields is a partial set of product attributes supplied by a client.
// A nil pointer means the attribute was absent (or null) in the request.
// Price and Quantity are already coerced to numbers by the caller.
type Fields struct {
	Name        *string
	Description *string
	Category    *string
	Image       *string
	Price       *float64
	Quantity    *int64
}

// New builds a product with the given id, using defaults for every field that
// is absent or empty in f.
func New(id int64, f Fields) Product {
	return Product{
		ID:          id,
		Name:        stringOr(f.Name, DefaultName),
		Description: stringOr(f.Description, ""),
		Category:    stringOr(f.Category, DefaultCategory),
		Price:       valueOr(f.Price, 0),
		Quantity:    valueOr(f.Quantity, 0),
		Image:       stringOr(f.Image, DefaultImage),
	}
}

// Merge overlays f onto p. String attributes absent from f keep their current
// value. Price and Quantity are always replaced: an absent number becomes 0.
func (p Product) Merge(f Fields) Product {
	out := p
	if f.Name != nil {
		out.Name = *f.Name
	}
	if f.Description != nil {
		out.Description = *f.Description
	}
	if f.Category != nil {
		out.Category = *f.Category
	}
	if f.Image != nil {
		out.Image = *f.Image
	}
	out.Price = valueOr(f.Price, 0)
	out.Quantity = valueOr(f.Quantity, 0)
	return out
}

// Normalize fills empty string attributes with their defaults.
func (p Product) Normalize() Product {
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	return p
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func valueOr[T int64 | float64](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
