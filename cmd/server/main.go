package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/cart"
	"github.com/example/chiya/internal/config"
	"github.com/example/chiya/internal/dashboard"
	"github.com/example/chiya/internal/database"
	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/handlers"
	"github.com/example/chiya/internal/logger"
	"github.com/example/chiya/internal/menu"
	"github.com/example/chiya/internal/ordering"
	"github.com/example/chiya/internal/routes"
	"github.com/example/chiya/internal/services"
)

type backend struct {
	store   gateway.OrderStore
	auth    gateway.AuthProvider
	catalog *menu.Catalog
}

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
		File:   cfg.LogFile,
		Caller: cfg.LogCaller,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open backend")
	}

	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, cfg.Currency, log)
	carts := cart.NewRegistry(cfg.CartTTL, log)
	board := dashboard.NewBoard(be.store, cfg.RecencyWindow, log)
	orders := ordering.NewService(be.store, telegram, log)

	board.Start(ctx)
	go carts.Run(ctx, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      "Chiya Orders",
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    8 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: log.WriterLevel(logrus.InfoLevel),
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Register(app, routes.Dependencies{
		Config:   cfg,
		Catalog:  be.catalog,
		Carts:    carts,
		Store:    be.store,
		Auth:     be.auth,
		Board:    board,
		Orders:   orders,
		Notifier: telegram,
		Log:      log,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":   cfg.AppPort,
		"driver": cfg.StoreDriver,
		"menu":   be.catalog.Len(),
	}).Info("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.WithError(err).Fatal("fiber.Listen error")
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case "memory":
		auth := gateway.NewMemoryAuth(cfg.JWTSecret, cfg.TokenExpires)
		if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
			if _, err := auth.AddStaff(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
				return nil, err
			}
		}
		log.Warn("using in-memory order store; orders are lost on restart")
		return &backend{
			store:   gateway.NewMemoryStore(),
			auth:    auth,
			catalog: menu.NewCatalog(menu.DefaultItems()),
		}, nil

	case "postgres":
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}

		if err := menu.Seed(ctx, db); err != nil {
			return nil, fmt.Errorf("seed menu: %w", err)
		}
		catalog, err := menu.Load(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("load menu: %w", err)
		}

		auth := gateway.NewStaffAuth(db, cfg.JWTSecret, cfg.TokenExpires, log)
		if err := auth.EnsureStaff(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			return nil, fmt.Errorf("bootstrap staff: %w", err)
		}
		go purgeRevoked(ctx, auth, log)

		store := gateway.NewPostgresStore(db, log)
		go func() {
			if err := store.Listen(ctx, cfg.DatabaseURL); err != nil {
				log.WithError(err).Error("order listener stopped")
			}
		}()

		return &backend{store: store, auth: auth, catalog: catalog}, nil
	}

	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func purgeRevoked(ctx context.Context, auth *gateway.StaffAuth, log logrus.FieldLogger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := auth.PurgeRevoked(ctx, now)
			if err != nil {
				log.WithError(err).Warn("failed to purge revoked tokens")
				continue
			}
			if n > 0 {
				log.WithField("purged", n).Debug("purged expired revocations")
			}
		}
	}
}
