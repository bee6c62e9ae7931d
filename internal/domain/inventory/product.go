package inventory

import (
	"context"
	"slices"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/storage"
)

// ListProducts returns every product in stored order.
func (s *Service) ListProducts(ctx context.Context) (_ []product.Product, rerr error) {
	ctx, span := s.startSpan(ctx, "ListProducts")
	defer func() { endSpan(span, rerr) }()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// CreateProduct stores a new product built from f. The id is one more than the
// highest existing id, or 1 for an empty catalog.
func (s *Service) CreateProduct(ctx context.Context, f product.Fields) (_ product.Product, rerr error) {
	ctx, span := s.startSpan(ctx, "CreateProduct")
	defer func() { endSpan(span, rerr) }()

	if err := validateFields(f); err != nil {
		return product.Product{}, err
	}

	var created product.Product
	err := s.mutate(ctx, func(doc *storage.Document) error {
		created = product.New(nextProductID(doc.Products), f)
		doc.Products = append(doc.Products, created)
		return nil
	})
	if err != nil {
		return product.Product{}, err
	}

	zctx.From(ctx).Info("Product created", zap.Int64("product_id", created.ID))
	return created, nil
}

// UpdateProduct merges f into the product with the given id. Omitted string
// attributes are kept; price and quantity are always overwritten, so omitting
// them resets them to 0.
func (s *Service) UpdateProduct(ctx context.Context, id int64, f product.Fields) (_ product.Product, rerr error) {
	ctx, span := s.startSpan(ctx, "UpdateProduct")
	defer func() { endSpan(span, rerr) }()

	if err := validateFields(f); err != nil {
		return product.Product{}, err
	}

	var updated product.Product
	err := s.mutate(ctx, func(doc *storage.Document) error {
		i := slices.IndexFunc(doc.Products, func(p product.Product) bool { return p.ID == id })
		if i < 0 {
			return product.ErrNotFound
		}
		updated = doc.Products[i].Merge(f).Normalize()
		doc.Products[i] = updated
		return nil
	})
	if err != nil {
		return product.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes every product with the given id. Deleting an unknown
// id is not an error.
func (s *Service) DeleteProduct(ctx context.Context, id int64) (rerr error) {
	ctx, span := s.startSpan(ctx, "DeleteProduct")
	defer func() { endSpan(span, rerr) }()

	return s.mutate(ctx, func(doc *storage.Document) error {
		doc.Products = slices.DeleteFunc(doc.Products, func(p product.Product) bool { return p.ID == id })
		return nil
	})
}

func nextProductID(products []product.Product) int64 {
	if len(products) == 0 {
		return 1
	}
	highest := products[0].ID
	for _, p := range products[1:] {
		highest = max(highest, p.ID)
	}
	return highest + 1
}

func validateFields(f product.Fields) error {
	if f.Price != nil && *f.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if f.Quantity != nil && *f.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}
