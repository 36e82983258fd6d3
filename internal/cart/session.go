package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/chiya/internal/models"
)

// Session is one customer's cart, optionally locked to an order being extended.
// All update-flow policy checks happen here, before the Store is touched.
type Session struct {
	ID uuid.UUID

	mu      sync.Mutex
	store   *Store
	lock    *Lock
	orderID string
	touched time.Time
}

// Summary is a point-in-time view of a session.
type Summary struct {
	ID          uuid.UUID         `json:"id"`
	Items       []models.CartItem `json:"items"`
	TotalAmount int64             `json:"total_amount"`
	TotalItems  int               `json:"total_items"`
	OrderID     string            `json:"updating_order_id,omitempty"`
	Original    map[string]int    `json:"original_quantities,omitempty"`
}

func newSession(now time.Time) *Session {
	return &Session{ID: uuid.New(), store: NewStore(), touched: now}
}

// NewSession returns an unlocked, empty session.
func NewSession() *Session {
	return newSession(time.Now())
}

// BeginUpdate seeds the cart from an existing order and locks its lines.
func (s *Session) BeginUpdate(orderID string, items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.ReplaceAll(items)
	s.lock = NewLock(s.store.Items())
	s.orderID = orderID
	s.touch()
}

// UpdatingOrder returns the id of the order being extended, if any.
func (s *Session) UpdatingOrder() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID, s.orderID != ""
}

// Add adds quantity of item.
func (s *Session) Add(item models.MenuItem, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.AddItem(item, quantity) {
		return ErrInvalidQuantity
	}
	s.touch()
	return nil
}

// SetQuantity sets the quantity of a line already in the cart.
func (s *Session) SetQuantity(itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Quantity(itemID); !ok {
		return ErrItemNotInCart
	}
	if s.lock.IsDecreaseBelowOriginal(itemID, quantity) {
		return ErrDecreaseBelowOriginal
	}

	s.store.SetQuantity(itemID, quantity)
	s.touch()
	return nil
}

// Remove deletes a line.
func (s *Session) Remove(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Quantity(itemID); !ok {
		return ErrItemNotInCart
	}
	if s.lock.IsRemovalOfOriginal(itemID) {
		return ErrRemoveOriginal
	}

	s.store.RemoveItem(itemID)
	s.touch()
	return nil
}

// Items returns a copy of the cart lines.
func (s *Session) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Items()
}

// Clear empties the cart and ends any update flow.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Submit hands the cart lines and the order being extended ("" for a new
// order) to write, holding the session for the duration. The cart is cleared
// only when write succeeds; on error it is left exactly as it was.
func (s *Session) Submit(write func(orderID string, items []models.CartItem) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := write(s.orderID, s.store.Items()); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.store.Clear()
	s.lock = nil
	s.orderID = ""
	s.touch()
}

// Summary snapshots the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Summary{
		ID:          s.ID,
		Items:       s.store.Items(),
		TotalAmount: s.store.TotalAmount(),
		TotalItems:  s.store.TotalItems(),
		OrderID:     s.orderID,
		Original:    s.lock.Originals(),
	}
}

func (s *Session) touch() {
	s.touched = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}
