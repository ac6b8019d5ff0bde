package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/nagomiworks/utayomi-backend/internal/config"
	"github.com/nagomiworks/utayomi-backend/internal/handlers"
	"github.com/nagomiworks/utayomi-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	tankaHandler *handlers.TankaHandler,
	moderationHandler *handlers.ModerationHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Tanka generation and feeds (JWT required)
	protected := api.Group("", middleware.JWTProtected(cfg))
	protected.Post("/tankas", tankaHandler.Generate)
	protected.Get("/tankas", tankaHandler.Feed)
	protected.Get("/tankas/mine", tankaHandler.Mine)
	protected.Get("/tankas/liked", tankaHandler.Liked)
	protected.Post("/tankas/:id/like", tankaHandler.Like)
	protected.Delete("/tankas/:id/like", tankaHandler.Unlike)

	// Moderation, user endpoints
	protected.Post("/tankas/:id/reports", moderationHandler.ReportTanka)
	protected.Post("/blocks", moderationHandler.BlockUser)
	protected.Get("/blocks", moderationHandler.ListBlockedUsers)
	protected.Delete("/blocks/:id", moderationHandler.UnblockUser)

	// Account erasure
	protected.Delete("/account", accountHandler.Delete)

	// Admin moderation panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
}
