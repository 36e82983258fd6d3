package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/chiya/internal/menu"
)

// MenuHandler serves the read-only menu.
type MenuHandler struct {
	catalog *menu.Catalog
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(catalog *menu.Catalog) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// ListItems returns menu items, optionally restricted to ?category=.
func (h *MenuHandler) ListItems(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.catalog.Items(c.Query("category")),
	})
}

// ListCategories returns the category tabs in menu order.
func (h *MenuHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.catalog.Categories()})
}
