package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistEntryType discriminates saved products from saved stores.
type WishlistEntryType string

const (
	WishlistEntryProduct WishlistEntryType = "product"
	WishlistEntryStore   WishlistEntryType = "store"
)

// IsValid reports whether the entry type is one of the known kinds.
func (t WishlistEntryType) IsValid() bool {
	return t == WishlistEntryProduct || t == WishlistEntryStore
}

// WishlistEntry is one saved product or store.
type WishlistEntry struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	ImageURL string            `json:"image"`
	Price    *decimal.Decimal  `json:"price,omitempty"`
	Type     WishlistEntryType `json:"type"`
}

// Wishlist is a hydrating, mutex-guarded wishlist store. Adds are
// idempotent; every mutation persists synchronously before returning.
type Wishlist struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]WishlistEntry
	hydrated bool
	storage  Storage
}

// NewWishlist builds a cold wishlist backed by the provided storage.
func NewWishlist(storage Storage) (*Wishlist, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &Wishlist{
		entries: map[uuid.UUID]WishlistEntry{},
		storage: storage,
	}, nil
}

// Hydrate replays the persisted snapshot. A missing snapshot hydrates an
// empty wishlist.
func (w *Wishlist) Hydrate(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.storage.Load(ctx, wishlistStorageKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			w.hydrated = true
			return nil
		}
		return fmt.Errorf("load wishlist snapshot: %w", err)
	}

	var entries []WishlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode wishlist snapshot: %w", err)
	}
	w.entries = make(map[uuid.UUID]WishlistEntry, len(entries))
	for _, entry := range entries {
		w.entries[entry.ID] = entry
	}
	w.hydrated = true
	return nil
}

// Hydrated reports whether the snapshot has been replayed.
func (w *Wishlist) Hydrated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hydrated
}

// Add saves the entry. Saving an already present ID is a no-op.
func (w *Wishlist) Add(ctx context.Context, entry WishlistEntry) error {
	if !entry.Type.IsValid() {
		return fmt.Errorf("invalid wishlist entry type %q", entry.Type)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entries[entry.ID]; ok {
		return nil
	}
	w.entries[entry.ID] = entry
	return w.persist(ctx)
}

// Remove drops the entry.
func (w *Wishlist) Remove(ctx context.Context, id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.entries, id)
	return w.persist(ctx)
}

// Has reports whether the ID is saved.
func (w *Wishlist) Has(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.entries[id]
	return ok
}

// ItemsByType returns the saved entries of one kind in no particular order.
func (w *Wishlist) ItemsByType(entryType WishlistEntryType) []WishlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []WishlistEntry
	for _, entry := range w.entries {
		if entry.Type == entryType {
			out = append(out, entry)
		}
	}
	return out
}

// Count returns the number of saved entries. Zero until hydrated.
func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hydrated {
		return 0
	}
	return len(w.entries)
}

// Clear empties the wishlist.
func (w *Wishlist) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = map[uuid.UUID]WishlistEntry{}
	return w.persist(ctx)
}

func (w *Wishlist) persist(ctx context.Context) error {
	entries := make([]WishlistEntry, 0, len(w.entries))
	for _, entry := range w.entries {
		entries = append(entries, entry)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode wishlist snapshot: %w", err)
	}
	if err := w.storage.Save(ctx, wishlistStorageKey, data); err != nil {
		return fmt.Errorf("save wishlist snapshot: %w", err)
	}
	return nil
}
