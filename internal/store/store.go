// Package store implements a TTL-bounded key/value/list/set facility.
// Every durable-within-room datum the core writes lives here under
// "room:{roomId}:..." keys. The store never spans multiple keys in a
// transaction — each game state key is the single source of truth for
// its state machine, and auxiliary keys hold append-only or
// set-semantics data that tolerate independent updates.
package store

import (
	"context"
	"time"
)

// ErrNotFound is returned by Get when the key is absent. Absence must
// always be treated as "room gone", never as a zero value.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "store: key not found" }

// Store is the contract every game state machine and the room registry
// depend on. All values are UTF-8 JSON blobs; the store itself is
// type-agnostic.
type Store interface {
	// Get returns the last successful write for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key and refreshes its TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Expire refreshes the TTL of an existing key without touching its
	// value. A no-op (not an error) if the key is absent.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// ListAppend appends value to the list at key, creating it if absent,
	// and refreshes the list's TTL.
	ListAppend(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// ListRange returns every element of the list at key, in append
	// order. Returns an empty slice (not an error) if the key is absent.
	ListRange(ctx context.Context, key string) ([][]byte, error)
	// ListClear removes the list at key.
	ListClear(ctx context.Context, key string) error

	// SetAdd adds member to the set at key, creating it if absent, and
	// refreshes the set's TTL. Returns true if member was newly added.
	SetAdd(ctx context.Context, key string, member string, ttl time.Duration) (bool, error)
	// SetRemove removes member from the set at key.
	SetRemove(ctx context.Context, key string, member string) error
	// SetMembers returns every member of the set at key. Returns an
	// empty slice (not an error) if the key is absent.
	SetMembers(ctx context.Context, key string) ([]string, error)
	// SetSize returns the number of members in the set at key.
	SetSize(ctx context.Context, key string) (int, error)
	// SetContains reports whether member is in the set at key.
	SetContains(ctx context.Context, key string, member string) (bool, error)

	// Close releases any underlying connection resources.
	Close() error
}
