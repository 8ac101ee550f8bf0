package game

import (
	"fmt"
	"sort"
	"sync"
)

// Item is a stack of identical goods.
type Item struct {
	Count  int     `json:"count"`
	Weight float64 `json:"weight"` // per unit
}

// Inventory holds stackable goods carried by a player, keyed by item name.
type Inventory struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		items: make(map[string]Item),
	}
}

// Add stacks count units of name. The unit weight of an existing stack is
// replaced by weight.
func (inv *Inventory) Add(name string, count int, weight float64) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	if weight < 0 {
		return fmt.Errorf("weight must not be negative, got %g", weight)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	it := inv.items[name]
	it.Count += count
	it.Weight = weight
	inv.items[name] = it
	return nil
}

// Remove takes count units of name out of the inventory.
func (inv *Inventory) Remove(name string, count int) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	it, ok := inv.items[name]
	if !ok || it.Count < count {
		return fmt.Errorf("not carrying %d %s", count, name)
	}
	it.Count -= count
	if it.Count == 0 {
		delete(inv.items, name)
		return nil
	}
	inv.items[name] = it
	return nil
}

// Count returns how many units of name are carried.
func (inv *Inventory) Count(name string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.items[name].Count
}

// TotalWeight sums count times unit weight over every stack.
func (inv *Inventory) TotalWeight() float64 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var total float64
	for _, it := range inv.items {
		total += float64(it.Count) * it.Weight
	}
	return total
}

// Items returns a copy of the inventory contents.
func (inv *Inventory) Items() map[string]Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make(map[string]Item, len(inv.items))
	for k, v := range inv.items {
		out[k] = v
	}
	return out
}

// Names returns the carried item names in sorted order.
func (inv *Inventory) Names() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	names := make([]string, 0, len(inv.items))
	for k := range inv.items {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (inv *Inventory) replace(items map[string]Item) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.items = make(map[string]Item, len(items))
	for k, v := range items {
		if v.Count > 0 {
			inv.items[k] = v
		}
	}
}
