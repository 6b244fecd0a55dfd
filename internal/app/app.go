package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"travel-webapi/internal/config"
	"travel-webapi/internal/database"
	"travel-webapi/internal/handlers"
	"travel-webapi/internal/logging"
	"travel-webapi/internal/middleware"
	"travel-webapi/internal/repositories"
	"travel-webapi/internal/respond"
	"travel-webapi/internal/routes"
	"travel-webapi/internal/services"
	"travel-webapi/internal/storage"
	"travel-webapi/internal/token"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run initializes and starts the application
func Run() {
	initAppStartTime := time.Now()

	// --- 1. Load Configuration ---
	tempConfigLogger, _ := zap.NewProduction(zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	defer tempConfigLogger.Sync()

	cfg, err := config.LoadConfig(tempConfigLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- 2. Initialize Logger ---
	logger, err := logging.InitializeLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize application logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobalLogger(logger)

	// --- 3. Initialize SQLite Database ---
	db, err := database.InitSQLite(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize SQLite database", zap.Error(err))
	}

	// --- 4. Initialize Redis (token denylist store) ---
	rdb, err := database.InitRedis(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	var denylist token.Denylist
	if rdb != nil {
		denylist = token.NewRedisDenylist(rdb)
	} else {
		denylist = token.NewMemoryDenylist()
	}

	// --- 5. Initialize Components ---
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	files := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL, logger)
	exposeError := cfg.AppEnv != "production"

	userRepo := repositories.NewUserRepository(db, logger)
	destRepo := repositories.NewDestinationRepository(db, logger)
	catRepo := repositories.NewCategoryRepository(db, logger)
	msgRepo := repositories.NewMessageRepository(db, logger)

	authService := services.NewAuthService(userRepo, issuer, denylist, logger)
	destService := services.NewDestinationService(destRepo, files, logger)
	catService := services.NewCategoryService(catRepo, logger)
	msgService := services.NewMessageService(msgRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	handlerSet := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, exposeError),
		Destination: handlers.NewDestinationHandler(destService, exposeError),
		Category:    handlers.NewCategoryHandler(catService, exposeError),
		Message:     handlers.NewMessageHandler(msgService, exposeError),
		User:        handlers.NewUserHandler(userService, exposeError),
	}
	logger.Info("Application components initialized.")

	// --- 6. Initialize Fiber App ---
	appFiber := fiber.New(fiber.Config{
		AppName: "travel-webapi",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			lg := middleware.GetRequestLogger(c)
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) && e != nil {
				code = e.Code
			}
			fields := []zap.Field{
				zap.Int("status", code),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
				zap.Error(err),
			}
			if reqID := middleware.GetRequestID(c); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}
			if code == fiber.StatusNotFound {
				lg.Warn("Resource not found", fields...)
				return respond.NotFound(c, "Data not found.")
			}
			lg.Error("Unhandled error", fields...)
			return respond.Internal(c, err, exposeError)
		},
	})

	// --- 7. Register Middleware ---
	appFiber.Use(recover.New(recover.Config{
		EnableStackTrace: strings.ToLower(cfg.LogLevel) == "debug",
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			lg := middleware.GetRequestLogger(c)
			lg.Error("Panic recovered", zap.Any("panic_value", e))
		},
	}))
	logger.Info("Configuring CORS", zap.String("origins", cfg.CORSAllowOrigins), zap.String("methods", cfg.CORSAllowMethods), zap.String("headers", cfg.CORSAllowHeaders))
	appFiber.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: cfg.CORSAllowMethods,
		AllowHeaders: cfg.CORSAllowHeaders,
	}))
	appFiber.Use(middleware.RequestLogger(logger))
	appFiber.Use(fiberzap.New(fiberzap.Config{
		Logger: logger,
		Fields: []string{"status", "method", "url", "ip", "latency", "error"},
		FieldsFunc: func(c *fiber.Ctx) []zap.Field {
			fields := []zap.Field{zap.String("log_type", "access")}
			if reqID := middleware.GetRequestID(c); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}
			return fields
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || strings.HasPrefix(c.Path(), cfg.UploadBaseURL)
		},
	}))

	// --- 8. Setup Application Routes ---
	routes.SetupRoutes(appFiber, cfg, logger, handlerSet, issuer, denylist, db, rdb)

	// --- 9. Start Server & Graceful Shutdown ---
	serverCtx, cancelServerCtx := context.WithCancel(context.Background())
	defer cancelServerCtx()
	serverStopped := make(chan struct{})

	initAppDurationMs := time.Since(initAppStartTime).Milliseconds()

	go func() {
		defer close(serverStopped)
		listenAddr := ":" + cfg.Port
		logger.Info(fmt.Sprintf("Completed initialization application in %d ms.", initAppDurationMs))
		logger.Info("Starting Fiber server...",
			zap.String("address", listenAddr),
			zap.Int("pid", os.Getpid()),
			zap.String("app_env", cfg.AppEnv),
		)

		if err := appFiber.Listen(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server listener failed", zap.String("address", listenAddr), zap.Error(err))
			cancelServerCtx()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	select {
	case s := <-sig:
		logger.Info("Shutdown signal received.", zap.String("signal", s.String()))
	case <-serverCtx.Done():
		logger.Info("Server context cancelled, initiating shutdown.")
	}

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelShutdown()

	if err := appFiber.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Fiber server shutdown failed", zap.Error(err))
	} else {
		logger.Info("Fiber server gracefully stopped.")
	}
	<-serverStopped
	logger.Info("HTTP listener goroutine stopped.")

	if errSync := logger.Sync(); errSync != nil {
		errMsg := errSync.Error()
		if !strings.Contains(errMsg, "handle is invalid") && !strings.Contains(errMsg, "sync /dev/stdout") {
			fmt.Fprintf(os.Stderr, "[WARN] Error syncing logger: %v\n", errSync)
		}
	}

	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Error closing SQLite database: %v\n", err)
	} else {
		fmt.Println("[INFO] SQLite database connection closed.")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Error closing Redis client: %v\n", err)
		} else {
			fmt.Println("[INFO] Redis client closed.")
		}
	}

	fmt.Println("[INFO] Application shutdown complete.")
}
