package gateway

import (
	"sync"

	"github.com/example/chiya/internal/models"
)

// Feed fans order snapshots out to subscribers. Each subscriber runs on its
// own goroutine with a one-slot mailbox, so a slow subscriber skips straight
// to the newest snapshot instead of blocking publishers.
type Feed struct {
	mu        sync.Mutex
	nextID    int
	subs      map[int]*subscriber
	latest    []models.Order
	hasLatest bool
}

type subscriber struct {
	onSnapshot SnapshotFunc
	onError    func(error)
	mailbox    chan delivery
	done       chan struct{}
}

type delivery struct {
	orders []models.Order
	err    error
}

// NewFeed returns a feed with no subscribers.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscriber)}
}

// Add registers a subscriber and returns its unsubscribe function. The latest
// published snapshot, if any, is delivered right away.
func (f *Feed) Add(onSnapshot SnapshotFunc, onError func(error)) func() {
	sub := &subscriber{
		onSnapshot: onSnapshot,
		onError:    onError,
		mailbox:    make(chan delivery, 1),
		done:       make(chan struct{}),
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	if f.hasLatest {
		sub.offer(delivery{orders: cloneOrders(f.latest)})
	}
	f.mu.Unlock()

	go sub.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish records orders as the latest snapshot and delivers it to every subscriber.
func (f *Feed) Publish(orders []models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = cloneOrders(orders)
	f.hasLatest = true
	for _, sub := range f.subs {
		sub.offer(delivery{orders: cloneOrders(orders)})
	}
}

// Fail delivers err to every subscriber's error callback.
func (f *Feed) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		sub.offer(delivery{err: err})
	}
}

// HasSnapshot reports whether anything was published yet.
func (f *Feed) HasSnapshot() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasLatest
}

// Len returns the number of subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// offer never blocks: a full mailbox has its stale delivery replaced.
func (s *subscriber) offer(d delivery) {
	for {
		select {
		case <-s.done:
			return
		case s.mailbox <- d:
			return
		default:
		}
		select {
		case <-s.mailbox:
		default:
		}
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case d := <-s.mailbox:
			if d.err != nil {
				if s.onError != nil {
					s.onError(d.err)
				}
				continue
			}
			if s.onSnapshot != nil {
				s.onSnapshot(d.orders)
			}
		}
	}
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
