package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/chiya/internal/cart"
	"github.com/example/chiya/internal/menu"
	"github.com/example/chiya/internal/utils"
)

// CartHandler exposes cart sessions to the ordering UI.
type CartHandler struct {
	carts   *cart.Registry
	catalog *menu.Catalog
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *cart.Registry, catalog *menu.Catalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

func lookupSession(carts *cart.Registry, c *fiber.Ctx) (*cart.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, cart.ErrSessionNotFound
	}
	return carts.Get(id)
}

func cartResponse(c *fiber.Ctx, session *cart.Session) error {
	return c.JSON(fiber.Map{"success": true, "data": session.Summary()})
}

// CreateCart starts an empty cart.
func (h *CartHandler) CreateCart(c *fiber.Ctx) error {
	session := h.carts.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": session.Summary()})
}

// GetCart returns the cart lines and totals.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}
	return cartResponse(c, session)
}

// DeleteCart discards the cart.
func (h *CartHandler) DeleteCart(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}
	h.carts.Delete(session.ID)
	return c.JSON(fiber.Map{"success": true})
}

type addItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// AddItem adds a menu item. Quantity defaults to 1.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, ok := h.catalog.Get(req.ItemID)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "menu item not found")
	}

	if err := session.Add(item, req.Quantity); err != nil {
		return err
	}
	return cartResponse(c, session)
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// UpdateItem sets the quantity of a cart line. Zero or less removes it.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := session.SetQuantity(c.Params("itemId"), *req.Quantity); err != nil {
		return err
	}
	return cartResponse(c, session)
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}

	if err := session.Remove(c.Params("itemId")); err != nil {
		return err
	}
	return cartResponse(c, session)
}
