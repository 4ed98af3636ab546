// Package kv holds the persisted key-value backends behind the session store.
package kv

import "context"

// Storage is a small string key-value store. Get reports ok=false for a
// missing key. Delete of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
