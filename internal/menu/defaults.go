package menu

import "github.com/example/chiya/internal/models"

// DefaultItems is the house menu seeded into an empty database.
func DefaultItems() []models.MenuItem {
	items := []models.MenuItem{
		{ID: "1", Name: "Chiya", NameLocalized: "चिया", Price: 20, Category: "Tea"},
		{ID: "2", Name: "Black Tea", NameLocalized: "कालो चिया", Price: 20, Category: "Tea"},
		{ID: "3", Name: "Milk Tea", NameLocalized: "दुध चिया", Price: 25, Category: "Tea"},
		{ID: "4", Name: "Masala Tea", NameLocalized: "मसला चिया", Price: 30, Category: "Tea"},
		{ID: "5", Name: "Green Tea", NameLocalized: "हरियो चिया", Price: 30, Category: "Tea"},
		{ID: "6", Name: "Lemon Tea", NameLocalized: "कागती चिया", Price: 30, Category: "Tea"},
		{ID: "7", Name: "Ginger Tea", NameLocalized: "अदुवा चिया", Price: 25, Category: "Tea"},

		{ID: "8", Name: "Black Coffee", NameLocalized: "कालो कफी", Price: 40, Category: "Coffee"},
		{ID: "9", Name: "Milk Coffee", NameLocalized: "दुध कफी", Price: 50, Category: "Coffee"},
		{ID: "10", Name: "Cappuccino", NameLocalized: "क्यापुचिनो", Price: 80, Category: "Coffee"},

		{ID: "11", Name: "Samosa", NameLocalized: "समोसा", Price: 25, Category: "Snacks"},
		{ID: "12", Name: "Pakora", NameLocalized: "पकौडा", Price: 40, Category: "Snacks"},
		{ID: "13", Name: "Momo (Veg)", NameLocalized: "मोमो (भेज)", Price: 100, Category: "Snacks"},
		{ID: "14", Name: "Momo (Buff)", NameLocalized: "मोमो (बफ)", Price: 120, Category: "Snacks"},
		{ID: "15", Name: "Chowmein", NameLocalized: "चाउमिन", Price: 80, Category: "Snacks"},
		{ID: "16", Name: "Fried Rice", NameLocalized: "फ्राइड राइस", Price: 100, Category: "Snacks"},

		{ID: "17", Name: "Veg Burger", NameLocalized: "भेज बर्गर", Price: 80, Category: "Burger"},
		{ID: "18", Name: "Chicken Burger", NameLocalized: "चिकन बर्गर", Price: 120, Category: "Burger"},
		{ID: "19", Name: "Cheese Burger", NameLocalized: "चिज बर्गर", Price: 100, Category: "Burger"},

		{ID: "20", Name: "Lassi", NameLocalized: "लस्सी", Price: 50, Category: "Drinks"},
		{ID: "21", Name: "Lemon Soda", NameLocalized: "कागती सोडा", Price: 40, Category: "Drinks"},
		{ID: "22", Name: "Cold Coffee", NameLocalized: "चिसो कफी", Price: 70, Category: "Drinks"},
	}
	for i := range items {
		items[i].Position = i
	}
	return items
}
