package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/models"
)

var ErrTransitionNotAllowed = errors.New("transition not allowed for this order")

// Board holds the live order list behind the dashboard. Staff status changes
// are applied locally first and reverted if the write fails.
type Board struct {
	store  gateway.OrderStore
	window time.Duration
	log    logrus.FieldLogger

	mu       sync.RWMutex
	orders   []models.Order
	loading  bool
	err      error
	gen      uint64
	watchers map[int]func()
	nextID   int
}

// NewBoard returns a board that stays loading until Start receives a snapshot.
func NewBoard(store gateway.OrderStore, window time.Duration, log logrus.FieldLogger) *Board {
	if window <= 0 {
		window = DefaultRecencyWindow
	}
	return &Board{
		store:    store,
		window:   window,
		log:      log.WithField("component", "dashboard"),
		loading:  true,
		watchers: make(map[int]func()),
	}
}

// Start subscribes to the order store until ctx is done.
func (b *Board) Start(ctx context.Context) {
	unsubscribe := b.store.Subscribe(b.onSnapshot, b.onError)
	go func() {
		<-ctx.Done()
		unsubscribe()
		b.log.Debug("order subscription closed")
	}()
}

func (b *Board) onSnapshot(orders []models.Order) {
	b.mu.Lock()
	b.orders = orders
	b.loading = false
	b.err = nil
	b.gen++
	b.mu.Unlock()

	b.notify()
}

func (b *Board) onError(err error) {
	b.log.WithError(err).Error("order subscription failed")

	b.mu.Lock()
	b.loading = false
	b.err = err
	b.mu.Unlock()

	b.notify()
}

// Orders returns a copy of the current list.
func (b *Board) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Order, len(b.orders))
	for i, o := range b.orders {
		out[i] = o.Clone()
	}
	return out
}

// Order returns the current copy of one order.
func (b *Board) Order(id string) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if idx := b.indexLocked(id); idx >= 0 {
		return b.orders[idx].Clone(), true
	}
	return models.Order{}, false
}

// Loading reports whether the first snapshot is still outstanding.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Err returns the last subscription error, cleared by the next snapshot.
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Window returns the recency window used for highlighting.
func (b *Board) Window() time.Duration {
	return b.window
}

// Views derives the dashboard for f as of now.
func (b *Board) Views(f Filter, now time.Time) Views {
	return Derive(b.Orders(), f, now, b.window)
}

// Watch calls fn after every change to the list. fn must not block.
func (b *Board) Watch(fn func()) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.watchers, id)
		b.mu.Unlock()
	}
}

func (b *Board) notify() {
	b.mu.RLock()
	fns := make([]func(), 0, len(b.watchers))
	for _, fn := range b.watchers {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// MarkPaid records payment for an order that is still pending and open.
func (b *Board) MarkPaid(ctx context.Context, id string) error {
	status := models.PaymentStatusCompleted
	return b.transition(ctx, id, canMarkPaid, gateway.OrderPatch{PaymentStatus: &status})
}

// MarkOrderDone completes an order. Completed orders accept no further transitions.
func (b *Board) MarkOrderDone(ctx context.Context, id string) error {
	status := models.OrderStatusCompleted
	return b.transition(ctx, id, canMarkDone, gateway.OrderPatch{OrderStatus: &status})
}

func (b *Board) transition(ctx context.Context, id string, allowed func(*models.Order) bool, patch gateway.OrderPatch) error {
	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return gateway.ErrNotFound
	}
	if !allowed(&b.orders[idx]) {
		b.mu.Unlock()
		return ErrTransitionNotAllowed
	}

	previous := b.orders[idx].Clone()
	updated := previous.Clone()
	patch.Apply(&updated)
	b.replaceLocked(idx, updated)
	gen := b.gen
	b.mu.Unlock()
	b.notify()

	err := b.store.UpdateOrder(ctx, id, patch)
	if err == nil {
		return nil
	}

	b.log.WithError(err).WithField("order_id", id).Warn("status change failed, rolling back")

	b.mu.Lock()
	// A newer snapshot from the store already reflects the real state.
	if b.gen == gen {
		if idx := b.indexLocked(id); idx >= 0 {
			b.replaceLocked(idx, previous)
		}
	}
	b.mu.Unlock()
	b.notify()

	return err
}

func (b *Board) indexLocked(id string) int {
	for i := range b.orders {
		if b.orders[i].ID.String() == id {
			return i
		}
	}
	return -1
}

// replaceLocked swaps one order without touching slices already handed out.
func (b *Board) replaceLocked(idx int, o models.Order) {
	orders := make([]models.Order, len(b.orders))
	copy(orders, b.orders)
	orders[idx] = o
	b.orders = orders
}
