package repository

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
)

type namespacedStorage struct {
	next port.Storage
	ns   string
}

// Namespace scopes every key of s under ns, so that owners sharing one
// backend never see each other's items.
func Namespace(s port.Storage, ns string) port.Storage {
	if ns == "" {
		return s
	}
	return &namespacedStorage{next: s, ns: ns}
}

func (s *namespacedStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	return s.next.GetItem(ctx, s.key(key))
}

func (s *namespacedStorage) SetItem(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	return s.next.SetItem(ctx, s.key(key), value)
}

func (s *namespacedStorage) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	return s.next.RemoveItem(ctx, s.key(key))
}

func (s *namespacedStorage) key(key string) string {
	return s.ns + "/" + key
}
