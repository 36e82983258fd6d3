package models

// MenuItem is a dish or drink on the menu. Prices are in minor currency units.
type MenuItem struct {
	ID            string `gorm:"primaryKey;size:32" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	NameLocalized string `json:"name_localized,omitempty"`
	Price         int64  `gorm:"not null;check:price >= 0" json:"price"`
	Category      string `gorm:"index;not null" json:"category"`
	Position      int    `json:"-"`
}

// CartItem is a menu item with a selected quantity.
type CartItem struct {
	ItemID        string `gorm:"column:item_id;size:32;not null" json:"id"`
	Name          string `json:"name"`
	NameLocalized string `json:"name_localized,omitempty"`
	Price         int64  `json:"price"`
	Category      string `json:"category"`
	Quantity      int    `json:"quantity"`
}

// NewCartItem copies the menu fields of item into a cart line.
func NewCartItem(item MenuItem, quantity int) CartItem {
	return CartItem{
		ItemID:        item.ID,
		Name:          item.Name,
		NameLocalized: item.NameLocalized,
		Price:         item.Price,
		Category:      item.Category,
		Quantity:      quantity,
	}
}

// LineTotal returns price * quantity.
func (c CartItem) LineTotal() int64 {
	return c.Price * int64(c.Quantity)
}

// SumItems returns the total of all lines.
func SumItems(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
