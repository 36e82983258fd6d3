package menu

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/chiya/internal/models"
)

// Seed inserts the default menu when the menu table is empty.
func Seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if count > 0 {
		return nil
	}

	items := DefaultItems()
	if err := db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("seed menu items: %w", err)
	}
	return nil
}

// Load reads the menu table into a Catalog.
func Load(ctx context.Context, db *gorm.DB) (*Catalog, error) {
	var items []models.MenuItem
	if err := db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	sortByPosition(items)
	return NewCatalog(items), nil
}
