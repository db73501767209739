package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("item not found")

// Storage is durable key/value storage scoped to one owner, modelled on a
// browser's local storage.
type Storage interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
}
