package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/logger"
	"github.com/example/chiya/internal/models"
)

func startBoard(t *testing.T, orders ...models.Order) (*Board, *gateway.MemoryStore) {
	t.Helper()
	store := gateway.NewMemoryStore()
	for i := range orders {
		_, err := store.CreateOrder(context.Background(), &orders[i])
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	board := NewBoard(store, DefaultRecencyWindow, logger.Discard())
	board.Start(ctx)
	require.Eventually(t, func() bool {
		return !board.Loading() && len(board.Orders()) == len(orders)
	}, time.Second, 5*time.Millisecond)
	return board, store
}

func find(t *testing.T, b *Board, id string) models.Order {
	t.Helper()
	for _, o := range b.Orders() {
		if o.ID.String() == id {
			return o
		}
	}
	t.Fatalf("order %s not on board", id)
	return models.Order{}
}

func TestBoardMarkPaid(t *testing.T) {
	o := order("4", "Ram", time.Now())
	board, store := startBoard(t, o)
	id := o.ID.String()

	require.NoError(t, board.MarkPaid(context.Background(), id))
	assert.Equal(t, models.PaymentStatusCompleted, find(t, board, id).PaymentStatus)

	stored, err := store.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)

	assert.ErrorIs(t, board.MarkPaid(context.Background(), id), ErrTransitionNotAllowed)
}

func TestBoardMarkOrderDoneIsTerminal(t *testing.T) {
	o := order("4", "Ram", time.Now())
	board, _ := startBoard(t, o)
	id := o.ID.String()

	require.NoError(t, board.MarkOrderDone(context.Background(), id))
	done := find(t, board, id)
	assert.True(t, done.IsCompleted())

	assert.ErrorIs(t, board.MarkOrderDone(context.Background(), id), ErrTransitionNotAllowed)
	assert.ErrorIs(t, board.MarkPaid(context.Background(), id), ErrTransitionNotAllowed)
	assert.Equal(t, models.PaymentStatusPending, find(t, board, id).PaymentStatus)
}

func TestBoardRollsBackFailedWrite(t *testing.T) {
	o := order("4", "Ram", time.Now())
	board, store := startBoard(t, o)
	id := o.ID.String()

	var notified atomic.Int32
	cancel := board.Watch(func() { notified.Add(1) })
	defer cancel()

	store.SetFailWrites(true)
	err := board.MarkPaid(context.Background(), id)
	require.ErrorIs(t, err, gateway.ErrWriteFailed)

	assert.Equal(t, models.PaymentStatusPending, find(t, board, id).PaymentStatus)
	assert.GreaterOrEqual(t, notified.Load(), int32(2))
}

func TestBoardUnknownOrder(t *testing.T) {
	board, _ := startBoard(t)
	assert.ErrorIs(t, board.MarkOrderDone(context.Background(), "missing"), gateway.ErrNotFound)
}

func TestBoardFollowsStore(t *testing.T) {
	board, store := startBoard(t)

	var notified atomic.Int32
	cancel := board.Watch(func() { notified.Add(1) })
	defer cancel()

	o := order("7", "Maya", time.Now())
	_, err := store.CreateOrder(context.Background(), &o)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(board.Orders()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Positive(t, notified.Load())

	v := board.Views(Filter{}, time.Now())
	require.Len(t, v.Filtered, 1)
	assert.True(t, v.Filtered[0].IsNewOrUpdated)

	v = board.Views(Filter{Date: Today(o.CreatedAt, nil)}, o.CreatedAt.Add(time.Hour))
	require.Len(t, v.Filtered, 1)
	assert.False(t, v.Filtered[0].IsNewOrUpdated)
}

type failingStore struct {
	gateway.OrderStore
}

func (failingStore) Subscribe(_ gateway.SnapshotFunc, onError func(error)) func() {
	go onError(assert.AnError)
	return func() {}
}

func TestBoardSubscriptionErrorEndsLoading(t *testing.T) {
	board := NewBoard(failingStore{}, 0, logger.Discard())
	board.Start(context.Background())

	require.Eventually(t, func() bool { return !board.Loading() }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, board.Err(), assert.AnError)
	assert.Empty(t, board.Orders())
}
