package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestFileTokenStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewFileTokenStore(path)
	require.NoError(t, store.SetToken("abc.def.ghi"))

	reopened := NewFileTokenStore(path)
	assert.Equal(t, "abc.def.ghi", reopened.Token())

	require.NoError(t, reopened.ClearToken())
	assert.Empty(t, NewFileTokenStore(path).Token())
}

func TestFileTokenStoreMissingFile(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "nope.json"))
	assert.Empty(t, store.Token())
	assert.NoError(t, store.ClearToken())
}

func TestSessionLoggedInTracksToken(t *testing.T) {
	session := NewSession(NewMemoryTokenStore())
	assert.False(t, session.LoggedIn())

	require.NoError(t, session.SetToken("tok"))
	assert.True(t, session.LoggedIn())
	assert.Equal(t, "tok", session.Token())

	require.NoError(t, session.Clear())
	assert.False(t, session.LoggedIn())
	assert.Empty(t, session.Token())
}

func TestSessionSubscribeNotifiesOnChange(t *testing.T) {
	session := NewSession(NewMemoryTokenStore())

	var events []bool
	unsubscribe := session.Subscribe(func(loggedIn bool) {
		events = append(events, loggedIn)
	})

	require.NoError(t, session.SetToken("tok-1"))
	require.NoError(t, session.SetToken("tok-2")) // already logged in, no event
	require.NoError(t, session.Clear())
	require.NoError(t, session.Clear()) // already logged out, no event

	assert.Equal(t, []bool{true, false}, events)

	unsubscribe()
	require.NoError(t, session.SetToken("tok-3"))
	assert.Equal(t, []bool{true, false}, events, "unsubscribed observers stay silent")
}

func TestSessionRestoresLoggedInFromStore(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.SetToken("persisted"))

	session := NewSession(store)
	assert.True(t, session.LoggedIn())
}

func TestRemainingLifetime(t *testing.T) {
	remaining := RemainingLifetime(signedToken(t, time.Hour))
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

func TestRemainingLifetimeExpiredClampsToZero(t *testing.T) {
	assert.Equal(t, time.Duration(0), RemainingLifetime(signedToken(t, -time.Hour)))
}

func TestRemainingLifetimeGarbage(t *testing.T) {
	assert.Equal(t, time.Duration(0), RemainingLifetime("not.a.token"))
}
