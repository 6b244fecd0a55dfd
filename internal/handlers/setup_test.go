package handlers_test

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"travel-webapi/internal/config"
	"travel-webapi/internal/database"
	"travel-webapi/internal/handlers"
	"travel-webapi/internal/repositories"
	"travel-webapi/internal/routes"
	"travel-webapi/internal/services"
	"travel-webapi/internal/storage"
	"travel-webapi/internal/token"

	"github.com/gofiber/fiber/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testApp wires the full request path over an in-memory database.
type testApp struct {
	app      *fiber.App
	db       *sql.DB
	issuer   *token.Issuer
	denylist token.Denylist
}

func newTestApp(t *testing.T, protectCatalog bool) *testApp {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(db))

	logger := zap.NewNop()
	cfg := &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		ProtectCatalog: protectCatalog,
		UploadDir:      t.TempDir(),
		UploadBaseURL:  "/uploads",
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	denylist := token.NewMemoryDenylist()
	files := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL, logger)

	userRepo := repositories.NewUserRepository(db, logger)
	destRepo := repositories.NewDestinationRepository(db, logger)
	catRepo := repositories.NewCategoryRepository(db, logger)
	msgRepo := repositories.NewMessageRepository(db, logger)

	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(services.NewAuthService(userRepo, issuer, denylist, logger), true),
		Destination: handlers.NewDestinationHandler(services.NewDestinationService(destRepo, files, logger), true),
		Category:    handlers.NewCategoryHandler(services.NewCategoryService(catRepo, logger), true),
		Message:     handlers.NewMessageHandler(services.NewMessageService(msgRepo, logger), true),
		User:        handlers.NewUserHandler(services.NewUserService(userRepo, logger), true),
	}

	app := fiber.New()
	routes.SetupRoutes(app, cfg, logger, h, issuer, denylist, db, nil)

	return &testApp{app: app, db: db, issuer: issuer, denylist: denylist}
}

// envelope mirrors the API's uniform response wrapper for assertions.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Meta    json.RawMessage     `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (ta *testApp) do(t *testing.T, req *http.Request) (*http.Response, *envelope) {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	env := &envelope{}
	require.NoError(t, json.Unmarshal(body, env), "body: %s", body)
	return resp, env
}

// register creates a user through the API and returns the issued token.
func (ta *testApp) register(t *testing.T, name, email, pass string) string {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/register", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              pass,
		"password_confirmation": pass,
	})
	resp, env := ta.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}
