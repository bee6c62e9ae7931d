// Package jsonfile stores the inventory document as a single pretty-printed
// JSON file.
package jsonfile

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	jsoniter "github.com/json-iterator/go"
	"github.com/moby/sys/atomicwriter"
	"go.uber.org/zap"

	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/domain/sale"
	"github.com/xenking/inventory-pos/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	_ storage.Store  = (*Store)(nil)
	_ storage.Pinger = (*Store)(nil)
)

// Store implements storage.Store on top of one JSON file. Reads fail open:
// a missing file is created empty and an unreadable or malformed file is
// served as an empty document.
type Store struct {
	path string
	perm fs.FileMode
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path, perm: 0o644}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and normalizes the document. It never returns an error.
func (s *Store) Load(ctx context.Context) (*storage.Document, error) {
	lg := zctx.From(ctx).With(zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := storage.Empty()
		if err := s.write(doc); err != nil {
			lg.Warn("Create store file", zap.Error(err))
		}
		return doc, nil
	}
	if err != nil {
		lg.Warn("Read store file, serving empty document", zap.Error(err))
		return storage.Empty(), nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		lg.Warn("Malformed store file, serving empty document", zap.Error(err))
		return storage.Empty(), nil
	}
	return storage.FromRaw(raw), nil
}

// Save replaces the file with doc. The previous content stays intact if the
// write fails.
func (s *Store) Save(ctx context.Context, doc *storage.Document) error {
	if err := s.write(doc); err != nil {
		zctx.From(ctx).Error("Write store file",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Ping reports whether the directory holding the file is reachable.
func (s *Store) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	st, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(err, "stat store dir")
	}
	if !st.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (s *Store) write(doc *storage.Document) error {
	out := *doc
	if out.Products == nil {
		out.Products = []product.Product{}
	}
	if out.Sales == nil {
		out.Sales = []sale.Sale{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal document")
	}
	if err := atomicwriter.WriteFile(s.path, data, s.perm); err != nil {
		return errors.Wrap(err, "write document")
	}
	return nil
}
