package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func authData(t *testing.T, token string) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(AuthPayload{Token: token, TokenType: "Bearer", ExpiresIn: 3600})
	require.NoError(t, err)
	return data
}

func TestLoginStoresToken(t *testing.T) {
	issued := signedToken(t, time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Envelope{
			Success: true,
			Message: "User logged in successfully!",
			Data:    authData(t, issued),
		})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	c := New(server.URL, session, Options{})

	payload, err := c.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, issued, payload.Token)
	assert.Equal(t, issued, session.Token())
	assert.True(t, session.LoggedIn())
}

func TestLoginFailureSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthorized access."})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	c := New(server.URL, session, Options{})

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized access.", apiErr.Message)
	assert.Empty(t, session.Token())
}

func TestAuthenticatedRequestRejectedWithoutToken(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	var notified []string
	redirected := false
	session := NewSession(NewMemoryTokenStore())
	c := New(server.URL, session, Options{
		Notify:          func(msg string) { notified = append(notified, msg) },
		RedirectToLogin: func() { redirected = true },
	})

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, int64(0), hits.Load(), "no network call may happen without a token")
	assert.NotEmpty(t, notified)
	assert.True(t, redirected)
}

func TestAuthenticatedRequestCarriesBearerToken(t *testing.T) {
	issued := signedToken(t, time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+issued, r.Header.Get("Authorization"))
		data, _ := json.Marshal(map[string]interface{}{"user": User{ID: 1, Name: "Alice", Email: "alice@example.com"}})
		writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: "User retrieved successfully.", Data: data})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	require.NoError(t, session.SetToken(issued))
	c := New(server.URL, session, Options{})

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Invalid or expired token."})
	}))
	defer server.Close()

	var notified []string
	redirected := false
	session := NewSession(NewMemoryTokenStore())
	require.NoError(t, session.SetToken(signedToken(t, time.Hour)))

	var events []bool
	session.Subscribe(func(loggedIn bool) { events = append(events, loggedIn) })

	c := New(server.URL, session, Options{
		Notify:          func(msg string) { notified = append(notified, msg) },
		RedirectToLogin: func() { redirected = true },
	})

	_, err := c.Me(context.Background())
	require.Error(t, err)

	assert.Empty(t, session.Token())
	assert.False(t, session.LoggedIn())
	assert.Equal(t, []bool{false}, events)
	assert.True(t, redirected)
	require.NotEmpty(t, notified)
	assert.Contains(t, notified[0], "session has expired")
}

func TestEnsureFreshSessionSkipsRefreshWhenTokenIsFresh(t *testing.T) {
	var refreshes atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/refresh" {
			refreshes.Add(1)
		}
		writeEnvelope(w, http.StatusOK, Envelope{Success: true})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	require.NoError(t, session.SetToken(signedToken(t, time.Hour)))
	c := New(server.URL, session, Options{})

	assert.True(t, c.EnsureFreshSession(context.Background()))
	assert.Equal(t, int64(0), refreshes.Load())
}

func TestEnsureFreshSessionRefreshesNearExpiry(t *testing.T) {
	replacement := signedToken(t, time.Hour)
	var refreshes atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/refresh", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		refreshes.Add(1)
		writeEnvelope(w, http.StatusOK, Envelope{
			Success: true,
			Message: "Token refresh successfully!",
			Data:    authData(t, replacement),
		})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	// Five minutes left, inside the proactive refresh window.
	require.NoError(t, session.SetToken(signedToken(t, 5*time.Minute)))
	c := New(server.URL, session, Options{})

	assert.True(t, c.EnsureFreshSession(context.Background()))
	assert.Equal(t, int64(1), refreshes.Load())
	assert.Equal(t, replacement, session.Token())
}

func TestEnsureFreshSessionFailsClosedOnRefreshError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Token has expired."})
	}))
	defer server.Close()

	redirected := false
	session := NewSession(NewMemoryTokenStore())
	require.NoError(t, session.SetToken(signedToken(t, time.Minute)))
	c := New(server.URL, session, Options{
		RedirectToLogin: func() { redirected = true },
	})

	assert.False(t, c.EnsureFreshSession(context.Background()))
	assert.Empty(t, session.Token())
	assert.True(t, redirected)
}

func TestEnsureFreshSessionWithoutToken(t *testing.T) {
	redirected := false
	c := New("http://unused.invalid", NewSession(NewMemoryTokenStore()), Options{
		RedirectToLogin: func() { redirected = true },
	})

	assert.False(t, c.EnsureFreshSession(context.Background()))
	assert.True(t, redirected)
}

func TestListDestinationsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/destinations", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		data, _ := json.Marshal([]Destination{{ID: 11, Name: "Koh Rong"}})
		writeEnvelope(w, http.StatusOK, Envelope{
			Success: true,
			Message: "Data retrieved successfully.",
			Data:    data,
			Meta:    &PageMeta{Page: 2, Limit: 10, Total: 11, TotalPages: 2},
		})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	require.NoError(t, session.SetToken(signedToken(t, time.Hour)))
	c := New(server.URL, session, Options{})

	page, limit := 2, 10
	dests, meta, err := c.ListDestinations(context.Background(), &page, &limit)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, "Koh Rong", dests[0].Name)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 11, meta.Total)
}

func TestLogoutClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/logout", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: "Successfully logged out."})
	}))
	defer server.Close()

	session := NewSession(NewMemoryTokenStore())
	require.NoError(t, session.SetToken(signedToken(t, time.Hour)))
	c := New(server.URL, session, Options{})

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, session.Token())
	assert.False(t, session.LoggedIn())
}
