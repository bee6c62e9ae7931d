package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/domain/sale"
	"github.com/xenking/inventory-pos/internal/storage"
)

func saleOf(items ...sale.LineItem) sale.Sale {
	return sale.Sale{Items: items}
}

func TestSummary_SingleProduct(t *testing.T) {
	p := stocked(1, 0)
	p.Name = "Mug"
	svc, _ := newTestService(t, &storage.Document{
		Products: []product.Product{p},
		Sales: []sale.Sale{
			saleOf(sale.LineItem{ProductID: 1, Qty: 2, UnitPrice: 5}),
			saleOf(sale.LineItem{ProductID: 1, Qty: 3, UnitPrice: 5}),
		},
	})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25.0, summary.TotalRevenue)
	require.Len(t, summary.Report, 1)
	assert.Equal(t, sale.ReportGroup{ProductID: 1, Name: "Mug", Qty: 5, Revenue: 25}, summary.Report[0])
	assert.Equal(t, summary.Report, summary.TopSelling)
}

func TestSummary_UsesLineItemPrice(t *testing.T) {
	p := stocked(1, 0)
	p.Price = 1000
	svc, _ := newTestService(t, &storage.Document{
		Products: []product.Product{p},
		Sales:    []sale.Sale{saleOf(sale.LineItem{ProductID: 1, Qty: 3, UnitPrice: 0.1})},
	})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.3, summary.TotalRevenue)
	assert.Equal(t, 0.3, summary.Report[0].Revenue)
}

func TestSummary_DeletedProduct(t *testing.T) {
	svc, _ := newTestService(t, &storage.Document{
		Products: []product.Product{stocked(1, 0)},
		Sales:    []sale.Sale{saleOf(sale.LineItem{ProductID: 42, Qty: 1, UnitPrice: 3})},
	})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Report, 1)
	assert.Equal(t, DeletedProductName, summary.Report[0].Name)
}

func TestSummary_SkipsIncompleteItems(t *testing.T) {
	svc, _ := newTestService(t, &storage.Document{
		Sales: []sale.Sale{saleOf(
			sale.LineItem{ProductID: 0, Qty: 1, UnitPrice: 3},
			sale.LineItem{ProductID: 1, Qty: 0, UnitPrice: 3},
			sale.LineItem{ProductID: 1, Qty: 1, UnitPrice: 0},
			sale.LineItem{ProductID: 2, Qty: 2, UnitPrice: 1.5},
		)},
	})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Report, 1)
	assert.Equal(t, int64(2), summary.Report[0].ProductID)
	assert.Equal(t, 3.0, summary.TotalRevenue)
}

func TestSummary_Empty(t *testing.T) {
	svc, _ := newTestService(t, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Report)
	assert.Empty(t, summary.TopSelling)
	assert.Zero(t, summary.TotalRevenue)
}

func TestSummary_TopSelling(t *testing.T) {
	// Quantities per product id: 1->2, 2->7, 3->2, 4->9, 5->1, 6->7, 7->2
	qty := map[int64]int64{1: 2, 2: 7, 3: 2, 4: 9, 5: 1, 6: 7, 7: 2}
	var items []sale.LineItem
	for id := int64(7); id >= 1; id-- {
		items = append(items, sale.LineItem{ProductID: id, Qty: qty[id], UnitPrice: 1})
	}
	svc, _ := newTestService(t, &storage.Document{Sales: []sale.Sale{saleOf(items...)}})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Report, 7)
	for i, g := range summary.Report {
		assert.Equal(t, int64(i+1), g.ProductID, "report is ordered by product id")
	}

	require.Len(t, summary.TopSelling, 5)
	var got []int64
	for i, g := range summary.TopSelling {
		got = append(got, g.ProductID)
		if i > 0 {
			assert.GreaterOrEqual(t, summary.TopSelling[i-1].Qty, g.Qty)
		}
	}
	// Ties keep product id order.
	assert.Equal(t, []int64{4, 2, 6, 1, 3}, got)
	assert.Equal(t, 30.0, summary.TotalRevenue)
}
