// Package storage provides the key-value persistence backing the dashboard document.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=storage.go -destination=../mocks/storage/mock_kv.go -package=mock_storage

// KV stores opaque values under string keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
