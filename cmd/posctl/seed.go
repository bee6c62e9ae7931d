package main

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/inventory-pos/db"
	"github.com/xenking/inventory-pos/internal/domain/inventory"
	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/storage"
)

func seedCmd(flags *storeFlags) *cobra.Command {
	var productsFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create catalog products that do not exist yet (matched by name)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := db.SeedProducts
			if productsFile != "" {
				var err error
				if data, err = os.ReadFile(productsFile); err != nil {
					return errors.Wrap(err, "read products file")
				}
			}
			return flags.withStore(func(ctx context.Context, store storage.Store) error {
				_, err := seedProducts(ctx, store, data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&productsFile, "products-file", "", "JSON array of products, defaults to the built-in demo catalog")
	return cmd
}

// seedProducts creates every product of the JSON array in data whose name is
// not in the catalog yet. It returns the number of created products.
func seedProducts(ctx context.Context, store storage.Store, data []byte) (int, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, errors.Wrap(err, "parse products")
	}
	seed := storage.FromRaw(map[string]any{"products": raw}).Products

	svc, err := inventory.NewService(store, inventory.Options{})
	if err != nil {
		return 0, err
	}
	existing, err := svc.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		names[p.Name] = struct{}{}
	}

	lg := zctx.From(ctx)
	created := 0
	for _, p := range seed {
		if _, ok := names[p.Name]; ok {
			lg.Debug("Product exists, skipping", zap.String("name", p.Name))
			continue
		}
		if _, err := svc.CreateProduct(ctx, product.Fields{
			Name:        &p.Name,
			Description: &p.Description,
			Category:    &p.Category,
			Image:       &p.Image,
			Price:       &p.Price,
			Quantity:    &p.Quantity,
		}); err != nil {
			return created, errors.Wrapf(err, "create %q", p.Name)
		}
		names[p.Name] = struct{}{}
		created++
	}
	lg.Info("Seeded", zap.Int("created", created), zap.Int("skipped", len(seed)-created))
	return created, nil
}
