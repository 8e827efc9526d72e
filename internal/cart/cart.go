package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the pure cart aggregate. It performs no I/O, never fails, and keeps
// TotalItems/TotalPrice equal to a recomputation over Items after every operation.
// A Cart is not safe for concurrent use; Store serializes access.
type Cart struct {
	items      []Item
	totalItems decimal.Decimal
	totalPrice decimal.Decimal
	newID      func() string
}

// Option customizes a Cart.
type Option func(*Cart)

// WithIDGenerator overrides how fresh line identifiers are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{newID: uuid.NewString}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem merges quantity into the line for candidate.ProductID, or appends a new
// line with a fresh id. An existing line keeps its add-time snapshot. The resulting
// quantity is clamped into the line's order bounds. Non-positive quantities are ignored.
func (c *Cart) AddItem(candidate Candidate, quantity decimal.Decimal) {
	if !quantity.IsPositive() {
		return
	}
	if idx := c.indexOf(candidate.ProductID); idx >= 0 {
		line := &c.items[idx]
		line.Quantity = line.Clamp(line.Quantity.Add(quantity))
	} else {
		line := candidate.toItem(c.newID(), quantity)
		line.Quantity = line.Clamp(quantity)
		c.items = append(c.items, line)
	}
	c.recompute()
}

// RemoveItem deletes the line for productID. Unknown products are a no-op.
func (c *Cart) RemoveItem(productID string) {
	if idx := c.indexOf(productID); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
	c.recompute()
}

// UpdateQuantity sets the line quantity, clamped into its order bounds.
// A non-positive quantity removes the line; unknown products are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity decimal.Decimal) {
	if !quantity.IsPositive() {
		c.RemoveItem(productID)
		return
	}
	if idx := c.indexOf(productID); idx >= 0 {
		line := &c.items[idx]
		line.Quantity = line.Clamp(quantity)
	}
	c.recompute()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.recompute()
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// TotalItems is the cached sum of line quantities.
func (c *Cart) TotalItems() decimal.Decimal {
	return c.totalItems
}

// TotalPrice is the cached sum of line totals.
func (c *Cart) TotalPrice() decimal.Decimal {
	return c.totalPrice
}

// ItemCount recomputes the quantity sum from the lines.
func (c *Cart) ItemCount() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Quantity)
	}
	return sum
}

// CartTotal recomputes the price sum from the lines.
func (c *Cart) CartTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// ItemByProductID returns the line for productID, if present.
func (c *Cart) ItemByProductID(productID string) (Item, bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.items[idx], true
	}
	return Item{}, false
}

// Snapshot captures the current state in persisted form.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Version:    SchemaVersion,
		Items:      c.Items(),
		TotalItems: c.totalItems,
		TotalPrice: c.totalPrice,
	}
}

// restore replaces the lines with a persisted set, dropping duplicate products and
// lines with a non-positive quantity. Kept quantities are clamped into the line's
// order bounds and the totals recomputed.
func (c *Cart) restore(items []Item) {
	c.items = c.items[:0]
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup || !it.Quantity.IsPositive() {
			continue
		}
		seen[it.ProductID] = struct{}{}
		if it.ID == "" {
			it.ID = c.newID()
		}
		it.Quantity = it.Clamp(it.Quantity)
		c.items = append(c.items, it)
	}
	c.recompute()
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) recompute() {
	c.totalItems = c.ItemCount()
	c.totalPrice = c.CartTotal()
}
