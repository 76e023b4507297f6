package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("kvstore: key not found")
	ErrKeyExists = errors.New("kvstore: key already exists")
)

// Entry is a raw key/value pair returned by prefix scans.
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Store is a schemaless JSON key-value store. Values are encoded as JSON.
// SetMany and DeleteMany apply all keys or none.
type Store interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
	Create(ctx context.Context, key string, value any) error
	SetMany(ctx context.Context, values map[string]any) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

// GetAs loads key into a new T.
func GetAs[T any](ctx context.Context, s Store, key string) (*T, error) {
	var v T
	if err := s.Get(ctx, key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListAs decodes every value under prefix into T, in key order.
func ListAs[T any](ctx context.Context, s Store, prefix string) ([]T, error) {
	entries, err := s.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("kvstore: decode %q: %w", e.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func encode(key string, value any) ([]byte, error) {
	if key == "" {
		return nil, errors.New("kvstore: empty key")
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("kvstore: encode %q: %w", key, err)
	}
	return b, nil
}
