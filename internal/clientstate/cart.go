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

// CartItem is one product line in the client cart.
type CartItem struct {
	ProductID uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image"`
	StoreID   uuid.UUID       `json:"store"`
}

// CartInput carries the product fields needed to add a line.
type CartInput struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	StoreID   uuid.UUID
}

// Cart is a hydrating, mutex-guarded cart store. Totals answer zero until
// Hydrate has replayed the persisted snapshot; every mutation persists
// synchronously before returning.
type Cart struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*CartItem
	hydrated bool
	storage  Storage
}

// NewCart builds a cold cart backed by the provided storage.
func NewCart(storage Storage) (*Cart, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &Cart{
		items:   map[uuid.UUID]*CartItem{},
		storage: storage,
	}, nil
}

// Hydrate replays the persisted snapshot. A missing snapshot hydrates an
// empty cart.
func (c *Cart) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.storage.Load(ctx, cartStorageKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.hydrated = true
			return nil
		}
		return fmt.Errorf("load cart snapshot: %w", err)
	}

	var items []CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode cart snapshot: %w", err)
	}
	c.items = make(map[uuid.UUID]*CartItem, len(items))
	for i := range items {
		item := items[i]
		c.items[item.ProductID] = &item
	}
	c.hydrated = true
	return nil
}

// Hydrated reports whether the snapshot has been replayed.
func (c *Cart) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// Add puts the product in the cart, bumping the quantity by one when the
// line already exists.
func (c *Cart) Add(ctx context.Context, input CartInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.items[input.ProductID]; ok {
		existing.Quantity++
	} else {
		c.items[input.ProductID] = &CartItem{
			ProductID: input.ProductID,
			Name:      input.Name,
			Price:     input.Price,
			Quantity:  1,
			ImageURL:  input.ImageURL,
			StoreID:   input.StoreID,
		}
	}
	return c.persist(ctx)
}

// Remove drops the product's line entirely.
func (c *Cart) Remove(ctx context.Context, productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, productID)
	return c.persist(ctx)
}

// UpdateQuantity sets the line's quantity. Zero or negative removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[productID]
	if !ok {
		return fmt.Errorf("product %s is not in the cart", productID)
	}
	if quantity <= 0 {
		delete(c.items, productID)
	} else {
		item.Quantity = quantity
	}
	return c.persist(ctx)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = map[uuid.UUID]*CartItem{}
	return c.persist(ctx)
}

// Items returns the current lines in no particular order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, *item)
	}
	return out
}

// TotalItems sums line quantities. Zero until hydrated.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hydrated {
		return 0
	}
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price*quantity across lines. Zero until hydrated.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	if !c.hydrated {
		return total
	}
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) persist(ctx context.Context) error {
	items := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, *item)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := c.storage.Save(ctx, cartStorageKey, data); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}
