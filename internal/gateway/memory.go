package gateway

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/chiya/internal/models"
)

// MemoryStore keeps orders in process memory. It backs tests and
// STORE_DRIVER=memory development runs.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]models.Order
	feed   *Feed
	now    func() time.Time

	failWrites bool
}

// NewMemoryStore returns an empty store that has already published an empty snapshot.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		orders: make(map[uuid.UUID]models.Order),
		feed:   NewFeed(),
		now:    time.Now,
	}
	s.feed.Publish(nil)
	return s
}

// SetClock overrides the time source used for created_at.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// SetFailWrites makes CreateOrder and UpdateOrder fail with ErrWriteFailed.
func (s *MemoryStore) SetFailWrites(fail bool) {
	s.mu.Lock()
	s.failWrites = fail
	s.mu.Unlock()
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.failWrites {
		s.mu.Unlock()
		return "", ErrWriteFailed
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	order.SetItems(order.CartItems())
	s.orders[order.ID] = order.Clone()
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	s.feed.Publish(snapshot)
	return order.ID.String(), nil
}

func (s *MemoryStore) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	orderID, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.failWrites {
		s.mu.Unlock()
		return ErrWriteFailed
	}

	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	order = order.Clone()
	patch.Apply(&order)
	s.orders[orderID] = order
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	s.feed.Publish(snapshot)
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	out := order.Clone()
	return &out, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	all := s.sortedLocked()
	s.mu.RUnlock()

	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	if offset < 0 {
		offset = 0
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *MemoryStore) Subscribe(onSnapshot SnapshotFunc, onError func(error)) func() {
	return s.feed.Add(onSnapshot, onError)
}

// sortedLocked returns cloned orders by created_at descending.
func (s *MemoryStore) sortedLocked() []models.Order {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
