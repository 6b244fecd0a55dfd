package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"travel-webapi/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenDenylist struct{}

func (brokenDenylist) Revoke(context.Context, string, time.Duration) error {
	return errors.New("denylist store unreachable")
}

func (brokenDenylist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("denylist store unreachable")
}

func guardedApp(denylist token.Denylist, exposeError bool) (*fiber.App, *token.Issuer) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	app := fiber.New()
	app.Get("/guarded", Protected(issuer, denylist, exposeError), func(c *fiber.Ctx) error {
		userID, _ := c.Locals(UserIDKey).(int64)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app, issuer
}

func guardedRequest(t *testing.T, app *fiber.App, bearer string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/guarded", nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set(AuthorizationHeader, BearerPrefix+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp.StatusCode, decoded
}

func TestProtectedPassesValidToken(t *testing.T) {
	app, issuer := guardedApp(token.NewMemoryDenylist(), false)
	signed, _, err := issuer.Issue(42)
	require.NoError(t, err)

	status, body := guardedRequest(t, app, signed)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(42), body["user_id"])
}

func TestProtectedMissingToken(t *testing.T) {
	app, _ := guardedApp(token.NewMemoryDenylist(), false)

	status, body := guardedRequest(t, app, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Token is missing.", body["message"])
}

func TestProtectedRevokedToken(t *testing.T) {
	denylist := token.NewMemoryDenylist()
	app, issuer := guardedApp(denylist, false)
	signed, claims, err := issuer.Issue(42)
	require.NoError(t, err)
	require.NoError(t, denylist.Revoke(context.Background(), claims.ID, time.Hour))

	status, body := guardedRequest(t, app, signed)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token.", body["message"])
}

func TestProtectedDenylistFailureDetailPolicy(t *testing.T) {
	// Detail exposed outside production.
	app, issuer := guardedApp(brokenDenylist{}, true)
	signed, _, err := issuer.Issue(42)
	require.NoError(t, err)

	status, body := guardedRequest(t, app, signed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["error"], "denylist store unreachable")

	// Opaque in production.
	app, issuer = guardedApp(brokenDenylist{}, false)
	signed, _, err = issuer.Issue(42)
	require.NoError(t, err)

	status, body = guardedRequest(t, app, signed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Something went wrong.", body["message"])
	assert.NotContains(t, body, "error")
}
