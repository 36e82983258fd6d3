package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/cart"
	"github.com/example/chiya/internal/config"
	"github.com/example/chiya/internal/dashboard"
	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/handlers"
	"github.com/example/chiya/internal/menu"
	"github.com/example/chiya/internal/middleware"
	"github.com/example/chiya/internal/ordering"
)

// Dependencies are the shared services the HTTP layer is built on.
type Dependencies struct {
	Config   *config.Config
	Catalog  *menu.Catalog
	Carts    *cart.Registry
	Store    gateway.OrderStore
	Auth     gateway.AuthProvider
	Board    *dashboard.Board
	Orders   *ordering.Service
	Notifier handlers.PaymentNotifier
	Log      logrus.FieldLogger
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	authHandler := handlers.NewAuthHandler(deps.Auth)
	menuHandler := handlers.NewMenuHandler(deps.Catalog)
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Catalog)
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Store, deps.Carts, cfg.UploadDir, cfg.BaseURL, deps.Log)
	dashboardHandler := handlers.NewDashboardHandler(deps.Board, deps.Auth, deps.Notifier, cfg.Location(), cfg.DashboardRefresh, cfg.Currency, deps.Log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"loading": deps.Board.Loading(),
			"carts":   deps.Carts.Len(),
		})
	})
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")
	requireStaff := middleware.AuthMiddleware(deps.Auth)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", requireStaff, authHandler.Logout)
	auth.Get("/me", requireStaff, authHandler.Me)

	// Menu
	api.Get("/menu", menuHandler.ListItems)
	api.Get("/menu/categories", menuHandler.ListCategories)

	// Carts
	carts := api.Group("/carts")
	carts.Post("/", cartHandler.CreateCart)
	carts.Get("/:id", cartHandler.GetCart)
	carts.Delete("/:id", cartHandler.DeleteCart)
	carts.Post("/:id/items", cartHandler.AddItem)
	carts.Put("/:id/items/:itemId", cartHandler.UpdateItem)
	carts.Delete("/:id/items/:itemId", cartHandler.RemoveItem)
	carts.Post("/:id/checkout", orderHandler.Checkout)
	carts.Post("/:id/submit-update", requireStaff, orderHandler.SubmitUpdate)

	// Orders
	orders := api.Group("/orders")
	orders.Get("/", requireStaff, orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/update-session", requireStaff, orderHandler.BeginUpdate)

	// Staff dashboard
	board := api.Group("/dashboard", requireStaff)
	board.Get("/", dashboardHandler.GetViews)
	board.Get("/stream", dashboardHandler.Stream)
	board.Get("/export", dashboardHandler.Export)
	board.Post("/orders/:id/paid", dashboardHandler.MarkPaid)
	board.Post("/orders/:id/done", dashboardHandler.MarkDone)
}
