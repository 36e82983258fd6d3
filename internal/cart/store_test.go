package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/chiya/internal/models"
)

var (
	chiya       = models.MenuItem{ID: "1", Name: "Chiya", Price: 20, Category: "Tea"}
	blackCoffee = models.MenuItem{ID: "8", Name: "Black Coffee", Price: 40, Category: "Coffee"}
	momo        = models.MenuItem{ID: "13", Name: "Momo (Veg)", Price: 100, Category: "Snacks"}
)

func TestStoreAddItemMergesLines(t *testing.T) {
	s := NewStore()

	assert.True(t, s.AddItem(chiya, 1))
	assert.True(t, s.AddItem(blackCoffee, 2))
	assert.True(t, s.AddItem(chiya, 2))

	items := s.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ItemID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Chiya", items[0].Name)
	assert.EqualValues(t, 3*20+2*40, s.TotalAmount())
	assert.Equal(t, 5, s.TotalItems())
}

func TestStoreAddItemRejectsNonPositive(t *testing.T) {
	s := NewStore()

	assert.False(t, s.AddItem(chiya, 0))
	assert.False(t, s.AddItem(chiya, -3))
	assert.Equal(t, 0, s.Len())
}

func TestStoreSetQuantity(t *testing.T) {
	s := NewStore()
	s.AddItem(chiya, 1)
	s.AddItem(momo, 1)

	s.SetQuantity("1", 4)
	q, ok := s.Quantity("1")
	assert.True(t, ok)
	assert.Equal(t, 4, q)

	s.SetQuantity("13", 0)
	_, ok = s.Quantity("13")
	assert.False(t, ok)

	s.SetQuantity("99", 2)
	assert.Equal(t, 1, s.Len())
}

func TestStoreRemoveItem(t *testing.T) {
	s := NewStore()
	s.AddItem(chiya, 1)

	s.RemoveItem("1")
	s.RemoveItem("1")
	assert.Equal(t, 0, s.Len())
	assert.EqualValues(t, 0, s.TotalAmount())
}

func TestStoreReplaceAll(t *testing.T) {
	s := NewStore()
	s.AddItem(momo, 3)

	s.ReplaceAll([]models.CartItem{
		models.NewCartItem(chiya, 2),
		models.NewCartItem(blackCoffee, 0),
		models.NewCartItem(chiya, 1),
	})

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestStoreItemsIsACopy(t *testing.T) {
	s := NewStore()
	s.AddItem(chiya, 1)

	items := s.Items()
	items[0].Quantity = 10

	q, _ := s.Quantity("1")
	assert.Equal(t, 1, q)
}
