package inventory

import (
	"context"
	"slices"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/inventory-pos/internal/domain/sale"
	"github.com/xenking/inventory-pos/internal/storage"
)

// ListSales returns every recorded sale in insertion order.
func (s *Service) ListSales(ctx context.Context) (_ []sale.Sale, rerr error) {
	ctx, span := s.startSpan(ctx, "ListSales")
	defer func() { endSpan(span, rerr) }()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Sales, nil
}

// RecordSale validates stock for every item, then decrements stock and
// appends the sale. Nothing is changed when any item fails validation.
// Items referencing unknown products are recorded without touching stock.
func (s *Service) RecordSale(ctx context.Context, items []sale.LineItem) (_ *sale.Sale, rerr error) {
	ctx, span := s.startSpan(ctx, "RecordSale")
	defer func() { endSpan(span, rerr) }()

	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return nil, &InvalidQuantityError{ProductID: it.ProductID}
		}
		if it.UnitPrice < 0 {
			return nil, &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
		}
	}

	var created sale.Sale
	err := s.mutate(ctx, func(doc *storage.Document) error {
		// First product wins when ids are duplicated.
		index := make(map[int64]int, len(doc.Products))
		for i, p := range doc.Products {
			if _, ok := index[p.ID]; !ok {
				index[p.ID] = i
			}
		}

		demand := make(map[int64]int64, len(items))
		for _, it := range items {
			i, ok := index[it.ProductID]
			if !ok {
				continue
			}
			demand[it.ProductID] += it.Qty
			if available := doc.Products[i].Quantity; available < demand[it.ProductID] {
				return &InsufficientStockError{
					ProductID: it.ProductID,
					Available: available,
					Requested: demand[it.ProductID],
				}
			}
		}
		for id, qty := range demand {
			doc.Products[index[id]].Quantity -= qty
		}

		created = sale.Sale{
			ID:        int64(len(doc.Sales)) + 1,
			Items:     slices.Clone(items),
			Timestamp: sale.FormatTimestamp(s.now()),
		}
		doc.Sales = append(doc.Sales, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		units   int64
		revenue float64
	)
	for _, it := range created.Items {
		units += it.Qty
		revenue += float64(it.Qty) * it.UnitPrice
	}
	attrs := metric.WithAttributes(attribute.Int("items", len(created.Items)))
	s.salesCounter.Add(ctx, 1, attrs)
	s.unitsCounter.Add(ctx, units)
	s.revenue.Add(ctx, revenue)

	zctx.From(ctx).Info("Sale recorded",
		zap.Int64("sale_id", created.ID),
		zap.Int("items", len(created.Items)),
		zap.Int64("units", units),
	)
	return &created, nil
}
