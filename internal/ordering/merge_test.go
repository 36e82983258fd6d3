package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/chiya/internal/models"
)

func orderWith(total int64, items ...models.CartItem) *models.Order {
	o := &models.Order{TotalAmount: total}
	o.SetItems(items)
	return o
}

func line(id string, qty int, price int64) models.CartItem {
	return models.CartItem{ItemID: id, Name: "item " + id, Price: price, Quantity: qty}
}

func quantities(items []models.CartItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.ItemID] = item.Quantity
	}
	return out
}

func TestComputeMergeAppendsDeltaAndNewLines(t *testing.T) {
	existing := orderWith(40, line("1", 2, 20))
	cart := []models.CartItem{line("1", 3, 20), line("8", 1, 40)}

	m := ComputeMerge(existing, cart)

	assert.Equal(t, []models.CartItem{line("1", 3, 20), line("8", 1, 40)}, m.MergedItems)
	assert.Equal(t, int64(60), m.AddedTotal)
	assert.Equal(t, int64(100), m.NewTotal)
	assert.Equal(t, []models.CartItem{line("1", 1, 20), line("8", 1, 40)}, m.Added)
}

func TestComputeMergeIgnoresDecrease(t *testing.T) {
	existing := orderWith(100, line("1", 5, 20))

	m := ComputeMerge(existing, []models.CartItem{line("1", 3, 20)})

	assert.Equal(t, []models.CartItem{line("1", 5, 20)}, m.MergedItems)
	assert.Zero(t, m.AddedTotal)
	assert.Equal(t, int64(100), m.NewTotal)
	assert.Empty(t, m.Added)
}

func TestComputeMergeKeepsLinesMissingFromCart(t *testing.T) {
	existing := orderWith(80, line("1", 2, 20), line("2", 1, 40))

	m := ComputeMerge(existing, []models.CartItem{line("2", 2, 40)})

	assert.Equal(t, map[string]int{"1": 2, "2": 2}, quantities(m.MergedItems))
	assert.Equal(t, "1", m.MergedItems[0].ItemID)
	assert.Equal(t, int64(120), m.NewTotal)
}

func TestComputeMergeDoesNotMutateExisting(t *testing.T) {
	existing := orderWith(40, line("1", 2, 20))

	ComputeMerge(existing, []models.CartItem{line("1", 4, 20)})

	assert.Equal(t, 2, existing.Items[0].Quantity)
	assert.Equal(t, int64(40), existing.TotalAmount)
}

func TestComputeMergeProperties(t *testing.T) {
	cases := []struct {
		name     string
		existing *models.Order
		cart     []models.CartItem
	}{
		{"empty order", orderWith(0), []models.CartItem{line("3", 2, 150)}},
		{"growth only", orderWith(90, line("1", 1, 20), line("2", 1, 70)), []models.CartItem{line("1", 4, 20), line("2", 1, 70)}},
		{"mixed", orderWith(200, line("5", 2, 100)), []models.CartItem{line("5", 1, 100), line("6", 3, 60), line("7", 0, 10)}},
		{"unchanged", orderWith(60, line("9", 3, 20)), []models.CartItem{line("9", 3, 20)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := quantities(tc.existing.CartItems())
			m := ComputeMerge(tc.existing, tc.cart)
			after := quantities(m.MergedItems)

			for id, qty := range before {
				assert.GreaterOrEqual(t, after[id], qty, "item %s shrank", id)
			}
			assert.Equal(t, models.SumItems(m.MergedItems), m.NewTotal)

			for _, want := range tc.cart {
				if old, ok := before[want.ItemID]; ok {
					if want.Quantity <= old {
						assert.Equal(t, old, after[want.ItemID])
					}
					continue
				}
				if want.Quantity > 0 {
					assert.Equal(t, want.Quantity, after[want.ItemID])
				}
			}
		})
	}
}
