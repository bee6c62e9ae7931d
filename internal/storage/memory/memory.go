// Package memory provides an in-process storage.Store for tests and
// throwaway runs.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/inventory-pos/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps the document in memory. Load and Save copy the document so
// callers never share state with the store.
type Store struct {
	mu    sync.RWMutex
	doc   *storage.Document
	saves int
	err   error
}

// New returns a Store seeded with doc, or an empty document when doc is nil.
func New(doc *storage.Document) *Store {
	if doc == nil {
		doc = storage.Empty()
	}
	return &Store{doc: doc.Clone().Normalize()}
}

// Load returns a copy of the current document.
func (s *Store) Load(_ context.Context) (*storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone(), nil
}

// Save replaces the current document with a copy of doc.
func (s *Store) Save(_ context.Context, doc *storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.doc = doc.Clone().Normalize()
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FailSaves makes every following Save return err. A nil err restores
// normal behaviour.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
