// Package cart holds customer selections before they become orders.
package cart

import "github.com/example/chiya/internal/models"

// Store is an ordered set of cart lines keyed by menu item id.
// It is not safe for concurrent use; Session serialises access.
type Store struct {
	items []models.CartItem
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) index(itemID string) int {
	for i, item := range s.items {
		if item.ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity of item, merging with an existing line.
// It reports false and changes nothing when quantity < 1.
func (s *Store) AddItem(item models.MenuItem, quantity int) bool {
	if quantity < 1 {
		return false
	}

	if i := s.index(item.ID); i >= 0 {
		s.items[i].Quantity += quantity
		return true
	}

	s.items = append(s.items, models.NewCartItem(item, quantity))
	return true
}

// SetQuantity sets the line quantity; quantity <= 0 removes the line.
func (s *Store) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	if i := s.index(itemID); i >= 0 {
		s.items[i].Quantity = quantity
	}
}

// RemoveItem deletes the line if present.
func (s *Store) RemoveItem(itemID string) {
	if i := s.index(itemID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// Quantity returns the current quantity of itemID.
func (s *Store) Quantity(itemID string) (int, bool) {
	if i := s.index(itemID); i >= 0 {
		return s.items[i].Quantity, true
	}
	return 0, false
}

// TotalAmount sums price * quantity over all lines.
func (s *Store) TotalAmount() int64 {
	return models.SumItems(s.items)
}

// TotalItems sums quantities over all lines.
func (s *Store) TotalItems() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// ReplaceAll bulk-sets the cart. Lines with non-positive quantity are
// dropped and repeated ids are merged into the first occurrence.
func (s *Store) ReplaceAll(items []models.CartItem) {
	s.items = s.items[:0]
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i := s.index(item.ItemID); i >= 0 {
			s.items[i].Quantity += item.Quantity
			continue
		}
		s.items = append(s.items, item)
	}
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return len(s.items)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
}
