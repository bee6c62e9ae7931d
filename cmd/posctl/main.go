// Command posctl dumps, restores and seeds the inventory document of a store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appkg "github.com/xenking/inventory-pos/internal/app"
	"github.com/xenking/inventory-pos/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// storeFlags selects the store a command operates on.
type storeFlags struct {
	driver      string
	path        string
	databaseURL string
	verbose     bool
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.driver, "driver", appkg.DriverFile, "Store driver: file or postgres")
	cmd.PersistentFlags().StringVar(&f.path, "path", "db.json", "JSON document path for the file driver")
	cmd.PersistentFlags().StringVar(&f.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
}

// withStore opens the selected store and runs fn with a logger-carrying,
// signal-aware context.
func (f *storeFlags) withStore(fn func(ctx context.Context, store storage.Store) error) error {
	if f.driver != appkg.DriverFile && f.driver != appkg.DriverPostgres {
		return errors.Errorf("unsupported driver %q", f.driver)
	}

	lvl := zap.InfoLevel
	if f.verbose {
		lvl = zap.DebugLevel
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(lvl)
	lg, err := logCfg.Build()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = zctx.Base(ctx, lg)

	store, closeStore, err := appkg.OpenStore(ctx, appkg.StorageConfig{
		Driver:      f.driver,
		Path:        f.path,
		DatabaseURL: f.databaseURL,
	})
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(ctx, store)
}

func rootCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "posctl",
		Short: "Inventory store maintenance",
		Long: `Dump, restore and seed the inventory document.

Examples:
  posctl dump --out snapshot.json.gz
  posctl restore --in snapshot.json.gz --driver postgres --database-url postgres://...
  posctl seed --path db.json
`,
		SilenceUsage: true,
	}
	flags.register(cmd)

	cmd.AddCommand(dumpCmd(&flags), restoreCmd(&flags), seedCmd(&flags))
	return cmd
}

func dumpCmd(flags *storeFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the store document as JSON (gzip when --out ends in .gz)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withStore(func(ctx context.Context, store storage.Store) error {
				doc, err := store.Load(ctx)
				if err != nil {
					return errors.Wrap(err, "load")
				}
				if out == "-" {
					return writeSnapshot(cmd.OutOrStdout(), doc, false)
				}
				if err := writeSnapshotFile(out, doc); err != nil {
					return err
				}
				zctx.From(ctx).Info("Dumped",
					zap.String("out", out),
					zap.Int("products", len(doc.Products)),
					zap.Int("sales", len(doc.Sales)),
				)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func restoreCmd(flags *storeFlags) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the store document with a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withStore(func(ctx context.Context, store storage.Store) error {
				var (
					doc *storage.Document
					err error
				)
				if in == "-" {
					doc, err = readSnapshot(cmd.InOrStdin(), false)
				} else {
					doc, err = readSnapshotFile(in)
				}
				if err != nil {
					return err
				}
				if err := store.Save(ctx, doc); err != nil {
					return errors.Wrap(err, "save")
				}
				zctx.From(ctx).Info("Restored",
					zap.String("in", in),
					zap.Int("products", len(doc.Products)),
					zap.Int("sales", len(doc.Sales)),
				)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "-", "Snapshot file, - for stdin")
	return cmd
}
