package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/cart"
	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/models"
	"github.com/example/chiya/internal/ordering"
	"github.com/example/chiya/internal/utils"
)

var screenshotExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// OrderHandler manages checkout and order endpoints.
type OrderHandler struct {
	orders    *ordering.Service
	store     gateway.OrderStore
	carts     *cart.Registry
	uploadDir string
	baseURL   string
	log       logrus.FieldLogger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *ordering.Service, store gateway.OrderStore, carts *cart.Registry, uploadDir, baseURL string, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		store:     store,
		carts:     carts,
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log.WithField("component", "order_handler"),
	}
}

// Checkout places an order from the cart. Online payments send the
// screenshot as multipart field payment_screenshot.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}
	if _, updating := session.UpdatingOrder(); updating {
		return cart.ErrUpdateInProgress
	}

	var req ordering.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var shot *ordering.Screenshot
	if strings.EqualFold(strings.TrimSpace(req.PaymentMethod), models.PaymentMethodOnline) {
		shot, err = h.saveScreenshot(c)
		if err != nil {
			return err
		}
	}

	var order *models.Order
	err = session.Submit(func(updating string, items []models.CartItem) error {
		if updating != "" {
			return cart.ErrUpdateInProgress
		}
		var err error
		order, err = h.orders.PlaceOrder(c.UserContext(), req, items, shot)
		return err
	})
	if err != nil {
		h.discardScreenshot(shot)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

func (h *OrderHandler) saveScreenshot(c *fiber.Ctx) (*ordering.Screenshot, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}

	file, err := c.FormFile("payment_screenshot")
	if err != nil {
		return nil, nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !screenshotExtensions[ext] {
		return nil, fiber.NewError(fiber.StatusBadRequest, "payment screenshot must be an image")
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return nil, err
	}

	stored := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, stored)); err != nil {
		return nil, err
	}

	return &ordering.Screenshot{
		Name: filepath.Base(file.Filename),
		URL:  h.baseURL + "/uploads/" + stored,
	}, nil
}

func (h *OrderHandler) discardScreenshot(shot *ordering.Screenshot) {
	if shot == nil {
		return
	}
	path := filepath.Join(h.uploadDir, filepath.Base(shot.URL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.log.WithError(err).WithField("path", path).Warn("failed to remove unused screenshot")
	}
}

// GetOrder returns one order for the confirmation and tracking page.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.store.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns every order newest first, paginated.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	orders, total, err := h.store.ListOrders(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// BeginUpdate opens a cart seeded from an order so staff can add items to it.
// The order itself is not changed.
func (h *OrderHandler) BeginUpdate(c *fiber.Ctx) error {
	order, err := h.orders.BeginUpdate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	session := h.carts.Create()
	session.BeginUpdate(order.ID.String(), order.CartItems())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    session.Summary(),
	})
}

// SubmitUpdate merges the cart into the order it was seeded from. The cart is
// cleared only after the order write succeeds.
func (h *OrderHandler) SubmitUpdate(c *fiber.Ctx) error {
	session, err := lookupSession(h.carts, c)
	if err != nil {
		return err
	}

	var (
		order *models.Order
		merge ordering.Merge
	)
	err = session.Submit(func(orderID string, items []models.CartItem) error {
		if orderID == "" {
			return cart.ErrNoUpdateInProgress
		}
		var err error
		order, merge, err = h.orders.AddItems(c.UserContext(), orderID, items)
		return err
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order":       order,
			"added_items": merge.Added,
			"added_total": merge.AddedTotal,
			"new_total":   merge.NewTotal,
		},
	})
}
