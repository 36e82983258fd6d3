// Package ordering places orders and extends placed orders with more items.
package ordering

import "github.com/example/chiya/internal/models"

// Merge is the result of reconciling a cart with a placed order.
type Merge struct {
	MergedItems []models.CartItem
	// Added holds one line per item that grew, with the added quantity.
	Added      []models.CartItem
	AddedTotal int64
	NewTotal   int64
}

// ComputeMerge applies the positive difference between cart and the order's
// lines. Existing lines only ever grow; lines the cart lacks or holds fewer
// of are left as they are. Items new to the order are appended with their
// full cart quantity.
func ComputeMerge(existing *models.Order, cart []models.CartItem) Merge {
	merged := existing.CartItems()
	index := make(map[string]int, len(merged))
	for i, item := range merged {
		if _, dup := index[item.ItemID]; !dup {
			index[item.ItemID] = i
		}
	}

	var (
		added      []models.CartItem
		addedTotal int64
	)
	for _, want := range cart {
		existingQty := 0
		i, found := index[want.ItemID]
		if found {
			existingQty = merged[i].Quantity
		}

		delta := want.Quantity - existingQty
		if delta <= 0 {
			continue
		}

		if found {
			merged[i].Quantity += delta
		} else {
			index[want.ItemID] = len(merged)
			merged = append(merged, want)
		}

		line := want
		line.Quantity = delta
		added = append(added, line)
		addedTotal += want.Price * int64(delta)
	}

	return Merge{
		MergedItems: merged,
		Added:       added,
		AddedTotal:  addedTotal,
		NewTotal:    existing.TotalAmount + addedTotal,
	}
}
