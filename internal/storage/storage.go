// Package storage defines the persistence port for the inventory document
// and the normalization every backend applies when reading it.
package storage

import (
	"context"

	"github.com/xenking/inventory-pos/internal/coerce"
	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/domain/sale"
)

// Document is the entire persisted state.
type Document struct {
	Products []product.Product `json:"products"`
	Sales    []sale.Sale       `json:"sales"`
}

// Store loads and saves the whole document. Implementations must return a
// document the caller may mutate freely.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// Pinger is implemented by stores that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Empty returns a document with no products and no sales.
func Empty() *Document {
	return &Document{
		Products: []product.Product{},
		Sales:    []sale.Sale{},
	}
}

// Normalize fills defaults on typed data and guarantees non-nil slices.
func (d *Document) Normalize() *Document {
	if d.Products == nil {
		d.Products = []product.Product{}
	}
	if d.Sales == nil {
		d.Sales = []sale.Sale{}
	}
	for i := range d.Products {
		d.Products[i] = d.Products[i].Normalize()
	}
	for i := range d.Sales {
		if d.Sales[i].Items == nil {
			d.Sales[i].Items = []sale.LineItem{}
		}
	}
	return d
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{
		Products: make([]product.Product, len(d.Products)),
		Sales:    make([]sale.Sale, len(d.Sales)),
	}
	copy(out.Products, d.Products)
	for i, s := range d.Sales {
		items := make([]sale.LineItem, len(s.Items))
		copy(items, s.Items)
		s.Items = items
		out.Sales[i] = s
	}
	return out
}

// FromRaw builds a document from an arbitrary decoded JSON value, coercing
// every malformed record into the canonical shape. Non-object input or
// non-array collections yield empty collections.
func FromRaw(v any) *Document {
	doc := Empty()
	root, ok := v.(map[string]any)
	if !ok {
		return doc
	}
	if products, ok := root["products"].([]any); ok {
		for _, p := range products {
			doc.Products = append(doc.Products, rawProduct(p))
		}
	}
	if sales, ok := root["sales"].([]any); ok {
		for _, s := range sales {
			doc.Sales = append(doc.Sales, rawSale(s))
		}
	}
	return doc
}

func rawProduct(v any) product.Product {
	m, _ := v.(map[string]any)
	image := m["image"]
	if !coerce.Truthy(image) {
		// Older records used imageUrl.
		image = m["imageUrl"]
	}
	return product.Product{
		ID:          coerce.Int(m["id"]),
		Name:        coerce.StringOr(m["name"], product.DefaultName),
		Description: coerce.StringOr(m["description"], ""),
		Category:    coerce.StringOr(m["category"], product.DefaultCategory),
		Price:       coerce.Number(m["price"]),
		Quantity:    coerce.Int(m["quantity"]),
		Image:       coerce.StringOr(image, product.DefaultImage),
	}
}

func rawSale(v any) sale.Sale {
	m, _ := v.(map[string]any)
	s := sale.Sale{
		ID:        coerce.Int(m["id"]),
		Timestamp: coerce.StringOr(m["timestamp"], ""),
		Items:     []sale.LineItem{},
	}
	items, _ := m["items"].([]any)
	for _, it := range items {
		im, _ := it.(map[string]any)
		s.Items = append(s.Items, sale.LineItem{
			ProductID: coerce.Int(im["productId"]),
			Qty:       coerce.Int(im["qty"]),
			UnitPrice: coerce.Number(im["unitPrice"]),
		})
	}
	return s
}
