package repository

import "context"

// KeyValueStore is the persistence collaborator. Values survive restarts
// for every backend except the memory store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
