package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/linkboard/internal/storage"
)

// Store loads and saves the document under a fixed key.
type Store struct {
	kv         storage.KV
	key        string
	normalizer *Normalizer
}

// NewStore creates a new Store. A nil normalizer uses NewNormalizer.
func NewStore(kv storage.KV, key string, normalizer *Normalizer) *Store {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	return &Store{
		kv:         kv,
		key:        key,
		normalizer: normalizer,
	}
}

// Normalizer returns the normalizer applied on load.
func (s *Store) Normalizer() *Normalizer {
	return s.normalizer
}

// Seed persists and returns a minimal empty document.
func (s *Store) Seed(ctx context.Context) (*Document, error) {
	doc := &Document{
		Groups:          []Group{},
		CustomReminders: []CustomReminder{},
	}
	s.normalizer.Normalize(doc)
	if err := s.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("s.Save(seed) > %w", err)
	}
	return doc, nil
}

// Load returns the normalized stored document. A missing key or a corrupt document yields
// (nil, nil) so that the caller seeds a fresh one; only storage failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*Document, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv.Get(%s) > %w", s.key, err)
	}

	doc, err := Decode(data)
	if err != nil {
		slog.Default().Warn("stored dashboard is unreadable, it will be replaced",
			"key", s.key,
			"error", err)
		return nil, nil
	}
	s.normalizer.Normalize(doc)
	return doc, nil
}

// Save writes doc verbatim. Callers normalize beforehand.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("Encode > %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("kv.Set(%s) > %w", s.key, err)
	}
	return nil
}
