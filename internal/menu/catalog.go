package menu

import (
	"sort"
	"strings"

	"github.com/example/chiya/internal/models"
)

// AllCategories is the pseudo-category that disables filtering.
const AllCategories = "All"

// Catalog is the immutable, in-memory menu loaded once at start-up.
type Catalog struct {
	items      []models.MenuItem
	byID       map[string]models.MenuItem
	categories []string
}

// NewCatalog indexes items. Item order is kept as given.
func NewCatalog(items []models.MenuItem) *Catalog {
	c := &Catalog{
		items: make([]models.MenuItem, len(items)),
		byID:  make(map[string]models.MenuItem, len(items)),
	}
	copy(c.items, items)

	seen := make(map[string]bool)
	for _, item := range c.items {
		c.byID[item.ID] = item
		if !seen[item.Category] {
			seen[item.Category] = true
			c.categories = append(c.categories, item.Category)
		}
	}
	return c
}

// Get returns the menu item with id.
func (c *Catalog) Get(id string) (models.MenuItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Items returns items in category, or every item for "" and AllCategories.
func (c *Catalog) Items(category string) []models.MenuItem {
	if category == "" || strings.EqualFold(category, AllCategories) {
		out := make([]models.MenuItem, len(c.items))
		copy(out, c.items)
		return out
	}

	out := []models.MenuItem{}
	for _, item := range c.items {
		if strings.EqualFold(item.Category, category) {
			out = append(out, item)
		}
	}
	return out
}

// Categories lists AllCategories followed by categories in menu order.
func (c *Catalog) Categories() []string {
	return append([]string{AllCategories}, c.categories...)
}

// Len returns the number of menu items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// sortByPosition orders rows loaded from the database.
func sortByPosition(items []models.MenuItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
}
