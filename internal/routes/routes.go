package routes

import (
	"context"
	"database/sql"
	"time"

	"travel-webapi/internal/config"
	"travel-webapi/internal/handlers"
	"travel-webapi/internal/logging"
	mw "travel-webapi/internal/middleware"
	"travel-webapi/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handlers bundles the route handlers wired up by the app.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Destination *handlers.DestinationHandler
	Category    *handlers.CategoryHandler
	Message     *handlers.MessageHandler
	User        *handlers.UserHandler
}

// SetupRoutes configures the application routes.
func SetupRoutes(
	app *fiber.App,
	cfg *config.Config,
	logger *zap.Logger,
	h Handlers,
	issuer *token.Issuer,
	denylist token.Denylist,
	db *sql.DB, // for the health check
	rdb *redis.Client, // may be nil
) {
	logger.Info("Setting up application routes...")

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		lg := logging.GetLogger()
		healthStatus := fiber.Map{"status": "healthy", "timestamp": time.Now().UTC()}
		depStatus := fiber.Map{}

		if db != nil {
			if err := db.PingContext(c.Context()); err == nil {
				depStatus["sqlite"] = "connected"
			} else {
				depStatus["sqlite"] = "disconnected"
				lg.Warn("Health check: SQLite ping failed", zap.Error(err))
			}
		} else {
			depStatus["sqlite"] = "uninitialized"
		}

		if rdb != nil {
			pingCtx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err == nil {
				depStatus["redis"] = "connected"
			} else {
				depStatus["redis"] = "disconnected"
				lg.Warn("Health check: Redis ping failed", zap.Error(err))
			}
		} else {
			depStatus["redis"] = "in-memory"
		}
		healthStatus["dependencies"] = depStatus
		return c.Status(fiber.StatusOK).JSON(healthStatus)
	})

	// Static File Server for destination images
	if cfg.UploadDir != "" {
		app.Static(cfg.UploadBaseURL, cfg.UploadDir, fiber.Static{
			Compress:  true,
			ByteRange: true,
		})
		logger.Info("Serving static files", zap.String("path", cfg.UploadBaseURL), zap.String("directory", cfg.UploadDir))
	} else {
		logger.Warn("Upload directory not configured, skipping static file route setup.")
	}

	api := app.Group("/api")

	// Public auth routes: POST /api/register, /api/login, /api/refresh
	h.Auth.SetupPublicRoutes(api)

	// The catalog endpoints ship public like the admin panel's API;
	// PROTECT_CATALOG moves them behind the bearer guard. They must be
	// registered before the guard is mounted, since the guard applies to
	// every /api route registered after it.
	if !cfg.ProtectCatalog {
		h.Destination.SetupRoutes(api)
		h.Message.SetupRoutes(api)
	}

	protected := api.Group("/", mw.Protected(issuer, denylist, cfg.AppEnv != "production"))
	h.Auth.SetupProtectedRoutes(protected)
	h.User.SetupRoutes(protected)
	h.Category.SetupRoutes(protected)
	if cfg.ProtectCatalog {
		logger.Info("Catalog endpoints are token-protected (PROTECT_CATALOG=true)")
		h.Destination.SetupRoutes(protected)
		h.Message.SetupRoutes(protected)
	}
}
