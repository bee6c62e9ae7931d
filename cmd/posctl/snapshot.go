package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	jsoniter "github.com/json-iterator/go"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/inventory-pos/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func isGzip(name string) bool {
	return strings.HasSuffix(name, ".gz")
}

// writeSnapshot encodes doc as two-space indented JSON.
func writeSnapshot(w io.Writer, doc *storage.Document, gzipped bool) error {
	data, err := json.MarshalIndent(doc.Clone().Normalize(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	data = append(data, '\n')

	if !gzipped {
		if _, err := w.Write(data); err != nil {
			return errors.Wrap(err, "write")
		}
		return nil
	}
	gz := pgzip.NewWriter(w)
	if _, err := gz.Write(data); err != nil {
		return errors.Wrap(err, "compress")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "close gzip")
	}
	return nil
}

// readSnapshot decodes a snapshot leniently: records are coerced into their
// canonical shape like a store load would.
func readSnapshot(r io.Reader, gzipped bool) (*storage.Document, error) {
	if gzipped {
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var raw any
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, errors.New("snapshot must be a JSON object")
	}
	return storage.FromRaw(raw), nil
}

func writeSnapshotFile(name string, doc *storage.Document) (rerr error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create")
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = errors.Wrap(err, "close")
		}
	}()

	bw := bufio.NewWriter(f)
	if err := writeSnapshot(bw, doc, isGzip(name)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

func readSnapshotFile(name string) (*storage.Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()
	return readSnapshot(f, isGzip(name))
}
