// Package cart owns the in-memory shopping carts, one per restaurant.
// Carts live only for the process session; nothing is persisted.
package cart

import (
	"sync"

	"github.com/findlunch/ordercore/internal/catalog"
)

// Line is one catalog item plus its requested amount within a cart.
// Amount is never 0 while the line is in a cart; a line reaching 0 is removed.
type Line struct {
	Item   catalog.Item
	Amount int
}

// Cart is the ordered line list for one restaurant. All consumers must read
// through Store.GetCart so they share the same handle; holding a *Cart after
// Store.EmptyCart replaced it observes no further mutation.
type Cart struct {
	restaurantID int64

	mu    sync.Mutex
	lines []*Line
}

// RestaurantID returns the owning restaurant's identifier.
func (c *Cart) RestaurantID() int64 { return c.restaurantID }

// Lines returns the current lines in insertion order. The slice is a copy but
// the *Line elements are shared, so amount mutations stay visible to every
// holder.
func (c *Cart) Lines() []*Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Add increments the amount of an existing line for item.ID by one, or
// appends a new line with amount 1. The 999 ceiling is enforced at the
// mutation call site, not here.
func (c *Cart) Add(item catalog.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		if line.Item.ID == item.ID {
			line.Amount++
			return
		}
	}
	c.lines = append(c.lines, &Line{Item: item, Amount: 1})
}

// ItemCount sums the amounts across all lines, for badge counters.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, line := range c.lines {
		count += line.Amount
	}
	return count
}

// Remove splices out the line referencing itemID, if present.
func (c *Cart) Remove(itemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.Item.ID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Store owns one cart per restaurant identifier, created lazily on first
// access. It is the single source of truth for cart state within a session.
type Store struct {
	mu    sync.RWMutex
	carts map[int64]*Cart
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[int64]*Cart)}
}

// GetCart returns the existing cart for the restaurant or creates a new
// empty one. Never fails.
func (s *Store) GetCart(restaurantID int64) *Cart {
	s.mu.RLock()
	c, ok := s.carts[restaurantID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[restaurantID]; ok {
		return c
	}
	c = &Cart{restaurantID: restaurantID}
	s.carts[restaurantID] = c
	return c
}

// AddItem adds one unit of the item to the restaurant's cart.
func (s *Store) AddItem(restaurantID int64, item catalog.Item) {
	s.GetCart(restaurantID).Add(item)
}

// ItemCount returns the total amount of items in the restaurant's cart.
func (s *Store) ItemCount(restaurantID int64) int {
	return s.GetCart(restaurantID).ItemCount()
}

// EmptyCart replaces the restaurant's cart with a new empty one. The old
// cart reference is discarded, not cleared in place, so other holders of it
// observe no further mutation.
func (s *Store) EmptyCart(restaurantID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[restaurantID] = &Cart{restaurantID: restaurantID}
}
