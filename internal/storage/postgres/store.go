// Package postgres stores the inventory document in PostgreSQL.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/domain/sale"
	"github.com/xenking/inventory-pos/internal/storage"
)

const (
	listProductsSQL = `SELECT id, name, description, category, price, quantity, image
		FROM products ORDER BY pos`

	listSalesSQL = `SELECT pos, id, created_at FROM sales ORDER BY pos`

	listSaleItemsSQL = `SELECT sale_pos, product_id, qty, unit_price
		FROM sale_items ORDER BY sale_pos, pos`

	truncateSQL = `TRUNCATE sale_items, sales, products`
)

var (
	_ storage.Store  = (*Store)(nil)
	_ storage.Pinger = (*Store)(nil)
)

// Store implements storage.Store backed by PostgreSQL. Every Save rewrites
// all three tables inside one transaction.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store that uses the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Load reads the whole document from a consistent snapshot.
func (s *Store) Load(ctx context.Context) (*storage.Document, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, errors.Wrap(err, "begin load")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}

	rows, err = tx.Query(ctx, listSalesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	sales, err := pgx.CollectRows(rows, scanSale)
	if err != nil {
		return nil, errors.Wrap(err, "scan sales")
	}

	rows, err = tx.Query(ctx, listSaleItemsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list sale items")
	}
	items, err := pgx.CollectRows(rows, scanSaleItem)
	if err != nil {
		return nil, errors.Wrap(err, "scan sale items")
	}

	doc := &storage.Document{
		Products: products,
		Sales:    make([]sale.Sale, len(sales)),
	}
	byPos := make(map[int32]int, len(sales))
	for i, row := range sales {
		doc.Sales[i] = row.Sale
		doc.Sales[i].Items = []sale.LineItem{}
		byPos[row.pos] = i
	}
	for _, it := range items {
		if i, ok := byPos[it.salePos]; ok {
			doc.Sales[i].Items = append(doc.Sales[i].Items, it.LineItem)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit load")
	}
	return doc.Normalize(), nil
}

// Save replaces the stored document with doc.
func (s *Store) Save(ctx context.Context, doc *storage.Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, truncateSQL); err != nil {
		return errors.Wrap(err, "truncate")
	}

	productRows := make([][]any, len(doc.Products))
	for i, p := range doc.Products {
		productRows[i] = []any{
			int32(i), p.ID, p.Name, p.Description, p.Category,
			decimal.NewFromFloat(p.Price), p.Quantity, p.Image,
		}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"pos", "id", "name", "description", "category", "price", "quantity", "image"},
		pgx.CopyFromRows(productRows),
	); err != nil {
		return errors.Wrap(err, "copy products")
	}

	saleRows := make([][]any, len(doc.Sales))
	var itemRows [][]any
	for i, sl := range doc.Sales {
		saleRows[i] = []any{int32(i), sl.ID, sl.Timestamp}
		for j, it := range sl.Items {
			itemRows = append(itemRows, []any{
				int32(i), int32(j), it.ProductID, it.Qty, decimal.NewFromFloat(it.UnitPrice),
			})
		}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sales"},
		[]string{"pos", "id", "created_at"},
		pgx.CopyFromRows(saleRows),
	); err != nil {
		return errors.Wrap(err, "copy sales")
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sale_items"},
		[]string{"sale_pos", "pos", "product_id", "qty", "unit_price"},
		pgx.CopyFromRows(itemRows),
	); err != nil {
		return errors.Wrap(err, "copy sale items")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit save")
	}
	return nil
}

type saleRow struct {
	sale.Sale
	pos int32
}

type saleItemRow struct {
	sale.LineItem
	salePos int32
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &price, &p.Quantity, &p.Image)
	p.Price = price.InexactFloat64()
	return p, err
}

func scanSale(row pgx.CollectableRow) (saleRow, error) {
	var r saleRow
	err := row.Scan(&r.pos, &r.ID, &r.Timestamp)
	return r, err
}

func scanSaleItem(row pgx.CollectableRow) (saleItemRow, error) {
	var (
		r     saleItemRow
		price decimal.Decimal
	)
	err := row.Scan(&r.salePos, &r.ProductID, &r.Qty, &price)
	r.UnitPrice = price.InexactFloat64()
	return r, err
}
