package cart

import "github.com/example/chiya/internal/models"

// Lock remembers the quantities of an order being extended. Those lines may
// grow but never shrink below the original or disappear.
type Lock struct {
	original map[string]int
}

// NewLock records the original quantity of each seeded line.
func NewLock(items []models.CartItem) *Lock {
	l := &Lock{original: make(map[string]int, len(items))}
	for _, item := range items {
		l.original[item.ItemID] += item.Quantity
	}
	return l
}

// OriginalQuantity returns the seeded quantity of itemID.
func (l *Lock) OriginalQuantity(itemID string) (int, bool) {
	if l == nil {
		return 0, false
	}
	q, ok := l.original[itemID]
	return q, ok
}

// IsDecreaseBelowOriginal reports whether setting itemID to quantity would go
// under its seeded quantity.
func (l *Lock) IsDecreaseBelowOriginal(itemID string, quantity int) bool {
	original, ok := l.OriginalQuantity(itemID)
	return ok && quantity < original
}

// IsRemovalOfOriginal reports whether itemID was part of the seeded order.
func (l *Lock) IsRemovalOfOriginal(itemID string) bool {
	_, ok := l.OriginalQuantity(itemID)
	return ok
}

// Originals returns a copy of the seeded quantities.
func (l *Lock) Originals() map[string]int {
	if l == nil {
		return nil
	}
	out := make(map[string]int, len(l.original))
	for k, v := range l.original {
		out[k] = v
	}
	return out
}
