package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/chiya/internal/logger"
	"github.com/example/chiya/internal/models"
)

func seededSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.BeginUpdate("order-1", []models.CartItem{
		models.NewCartItem(chiya, 2),
		models.NewCartItem(momo, 1),
	})
	return s
}

func TestLockPredicates(t *testing.T) {
	l := NewLock([]models.CartItem{models.NewCartItem(chiya, 2)})

	assert.True(t, l.IsDecreaseBelowOriginal("1", 1))
	assert.False(t, l.IsDecreaseBelowOriginal("1", 2))
	assert.False(t, l.IsDecreaseBelowOriginal("1", 5))
	assert.False(t, l.IsDecreaseBelowOriginal("8", 0))

	assert.True(t, l.IsRemovalOfOriginal("1"))
	assert.False(t, l.IsRemovalOfOriginal("8"))

	var none *Lock
	assert.False(t, none.IsDecreaseBelowOriginal("1", 0))
	assert.False(t, none.IsRemovalOfOriginal("1"))
}

func TestSessionLockedItemsOnlyGrow(t *testing.T) {
	s := seededSession(t)

	require.NoError(t, s.SetQuantity("1", 3))
	assert.ErrorIs(t, s.SetQuantity("1", 1), ErrDecreaseBelowOriginal)
	assert.ErrorIs(t, s.SetQuantity("1", 0), ErrDecreaseBelowOriginal)
	assert.ErrorIs(t, s.Remove("13"), ErrRemoveOriginal)

	sum := s.Summary()
	assert.Equal(t, "order-1", sum.OrderID)
	assert.Equal(t, map[string]int{"1": 2, "13": 1}, sum.Original)
	assert.Equal(t, 3, sum.Items[0].Quantity)
	assert.Equal(t, 1, sum.Items[1].Quantity)
}

func TestSessionLockedCanDecreaseBackToOriginal(t *testing.T) {
	s := seededSession(t)

	require.NoError(t, s.SetQuantity("1", 5))
	require.NoError(t, s.SetQuantity("1", 2))

	q, _ := s.store.Quantity("1")
	assert.Equal(t, 2, q)
}

func TestSessionNewItemsFollowNormalRules(t *testing.T) {
	s := seededSession(t)

	require.NoError(t, s.Add(blackCoffee, 2))
	require.NoError(t, s.SetQuantity("8", 1))
	require.NoError(t, s.Remove("8"))

	_, ok := s.store.Quantity("8")
	assert.False(t, ok)
}

func TestSessionErrors(t *testing.T) {
	s := NewSession()

	assert.ErrorIs(t, s.Add(chiya, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.SetQuantity("1", 2), ErrItemNotInCart)
	assert.ErrorIs(t, s.Remove("1"), ErrItemNotInCart)

	_, updating := s.UpdatingOrder()
	assert.False(t, updating)
}

func TestSessionClearEndsUpdate(t *testing.T) {
	s := seededSession(t)
	s.Clear()

	_, updating := s.UpdatingOrder()
	assert.False(t, updating)
	assert.Empty(t, s.Items())

	require.NoError(t, s.Add(chiya, 1))
	require.NoError(t, s.Remove("1"))
}

func TestSessionSubmitClearsOnSuccess(t *testing.T) {
	s := seededSession(t)
	require.NoError(t, s.Add(blackCoffee, 1))

	var gotOrder string
	var gotItems []models.CartItem
	err := s.Submit(func(orderID string, items []models.CartItem) error {
		gotOrder, gotItems = orderID, items
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", gotOrder)
	require.Len(t, gotItems, 3)
	assert.Empty(t, s.Items())
	_, updating := s.UpdatingOrder()
	assert.False(t, updating)
}

func TestSessionSubmitKeepsCartOnError(t *testing.T) {
	s := seededSession(t)
	require.NoError(t, s.Add(blackCoffee, 1))
	before := s.Summary()

	err := s.Submit(func(string, []models.CartItem) error {
		return ErrInvalidQuantity
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, before, s.Summary())
}

func TestSessionAddDuringSubmitIsNotLost(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Add(chiya, 2))

	added := make(chan struct{})
	err := s.Submit(func(orderID string, items []models.CartItem) error {
		assert.Empty(t, orderID)
		require.Len(t, items, 1)

		go func() {
			assert.NoError(t, s.Add(momo, 1))
			close(added)
		}()

		select {
		case <-added:
			t.Error("cart changed while its lines were being written")
		case <-time.After(20 * time.Millisecond):
		}
		return nil
	})
	require.NoError(t, err)

	<-added
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "13", items[0].ItemID)
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(time.Hour, logger.Discard())

	s := r.Create()
	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	r.Delete(s.ID)
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepExpiresIdleSessions(t *testing.T) {
	r := NewRegistry(time.Hour, logger.Discard())
	stale := r.Create()
	fresh := r.Create()

	now := time.Now()
	stale.touched = now.Add(-2 * time.Hour)

	assert.Equal(t, 1, r.Sweep(now))

	_, err := r.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}
