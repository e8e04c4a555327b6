package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"sneakstore/internal/config"
	"sneakstore/internal/http/handlers"
	applog "sneakstore/internal/log"
	"sneakstore/internal/storage"
	"sneakstore/internal/upstream"
)

func main() {
	cfg := config.Load()
	applog.Init(cfg.LogFile)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	catalog := upstream.NewClient(cfg.UpstreamURL)
	deps := handlers.NewDeps(store, catalog, catalog, catalog)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Catalog ----------
	app.Get("/api/products", deps.ProductHandler.List)
	app.Get("/api/products/:slug", deps.ProductHandler.Detail)
	app.Get("/api/catalog", deps.CatalogHandler.Query)
	app.Get("/api/catalog/filters", deps.CatalogHandler.Filters)

	// ---------- Search ----------
	// Suggestions are fired on every settled keystroke, so they get their
	// own tighter bucket, same shape as the catalog-wide limiter.
	suggestLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|suggest"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.suggest.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	app.Get("/api/search/suggestions", suggestLimiter, deps.SearchHandler.Suggestions)
	app.Get("/api/search/history", deps.SearchHandler.HistoryList)
	app.Post("/api/search/history", deps.SearchHandler.HistoryAdd)
	app.Delete("/api/search/history", deps.SearchHandler.HistoryClear)

	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws/search", deps.SearchHandler.Live())

	// ---------- Cart ----------
	app.Get("/api/cart", deps.CartHandler.View)
	app.Post("/api/cart", deps.CartHandler.AddItem)
	app.Patch("/api/cart/:id", deps.CartHandler.UpdateItem)
	app.Delete("/api/cart/:id", deps.CartHandler.RemoveItem)
	app.Delete("/api/cart", deps.CartHandler.Clear)

	// ---------- Favorites ----------
	app.Get("/api/favorites", deps.FavoritesHandler.List)
	app.Post("/api/favorites", deps.FavoritesHandler.Toggle)
	app.Delete("/api/favorites/:slug", deps.FavoritesHandler.Remove)
	app.Delete("/api/favorites", deps.FavoritesHandler.Clear)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

// openStore picks the session-blob backend. Memory is for tests and local
// hacking; sqlite survives restarts on a single box; redis shares state
// across replicas.
func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return storage.NewMemory(), nil
	case "redis":
		return storage.NewRedis(cfg.RedisAddr)
	default:
		return storage.OpenSQLite(cfg.DBDSN)
	}
}
