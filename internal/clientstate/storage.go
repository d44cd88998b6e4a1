// Package clientstate holds the cart and wishlist state a storefront keeps
// on the client. Stores start cold and answer with zero values until a
// Hydrate call replays the persisted snapshot.
package clientstate

import (
	"context"
	"errors"
)

// ErrNotFound reports that no snapshot exists under the requested key.
var ErrNotFound = errors.New("clientstate: key not found")

// Storage is the persistence boundary for keyed state snapshots.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

const (
	cartStorageKey     = "cart-storage"
	wishlistStorageKey = "wishlist-storage"
)
