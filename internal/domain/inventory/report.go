package inventory

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/xenking/inventory-pos/internal/domain/sale"
)

const (
	// DeletedProductName labels report groups whose product no longer exists.
	DeletedProductName = "Deleted Product"

	topSellingLimit = 5
)

// Summary aggregates all sale line items per product. Items with a zero
// product id, quantity or unit price are skipped. Groups are ordered by
// product id; TopSelling holds at most five groups ordered by descending
// quantity, keeping group order among ties.
func (s *Service) Summary(ctx context.Context) (_ *sale.Summary, rerr error) {
	ctx, span := s.startSpan(ctx, "Summary")
	defer func() { endSpan(span, rerr) }()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		qty     int64
		revenue decimal.Decimal
	}
	groups := make(map[int64]*acc)
	for _, sl := range doc.Sales {
		for _, it := range sl.Items {
			if it.ProductID == 0 || it.Qty == 0 || it.UnitPrice == 0 {
				continue
			}
			g, ok := groups[it.ProductID]
			if !ok {
				g = &acc{revenue: decimal.Zero}
				groups[it.ProductID] = g
			}
			g.qty += it.Qty
			g.revenue = g.revenue.Add(decimal.NewFromInt(it.Qty).Mul(decimal.NewFromFloat(it.UnitPrice)))
		}
	}

	names := make(map[int64]string, len(doc.Products))
	for _, p := range doc.Products {
		if _, ok := names[p.ID]; !ok {
			names[p.ID] = p.Name
		}
	}

	ids := make([]int64, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	total := decimal.Zero
	report := make([]sale.ReportGroup, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		name, ok := names[id]
		if !ok {
			name = DeletedProductName
		}
		total = total.Add(g.revenue)
		report = append(report, sale.ReportGroup{
			ProductID: id,
			Name:      name,
			Qty:       g.qty,
			Revenue:   g.revenue.InexactFloat64(),
		})
	}

	top := slices.Clone(report)
	slices.SortStableFunc(top, func(a, b sale.ReportGroup) int {
		return cmp.Compare(b.Qty, a.Qty)
	})
	if len(top) > topSellingLimit {
		top = top[:topSellingLimit]
	}

	return &sale.Summary{
		Report:       report,
		TotalRevenue: total.InexactFloat64(),
		TopSelling:   top,
	}, nil
}
