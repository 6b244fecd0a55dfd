// Package client is the Go consumer of the travel API. It mirrors the admin
// frontend's session handling: a persisted bearer token, proactive refresh
// shortly before expiry and a forced re-login on any 401.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshThreshold is the remaining lifetime below which EnsureFreshSession
// proactively exchanges the token.
const RefreshThreshold = 600 * time.Second

var ErrNoToken = errors.New("no session token available")

// TokenStore persists the current session token across process restarts.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
}

// FileTokenStore keeps the token in a small JSON file, the local-storage
// equivalent for a CLI or desktop consumer.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

type tokenFile struct {
	Token string `json:"token"`
}

// NewFileTokenStore creates a TokenStore backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token returns the stored token, or an empty string when none is stored.
func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return ""
	}
	return tf.Token
}

// SetToken persists the token.
func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// ClearToken removes the stored token. A missing file is not an error.
func (s *FileTokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryTokenStore is an in-process TokenStore for tests and short-lived
// consumers.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Session holds the client-side session state: the persisted token and a
// logged-in flag that interested components observe through Subscribe rather
// than a process-wide global.
type Session struct {
	store TokenStore

	mu          sync.Mutex
	loggedIn    bool
	subscribers map[int]func(bool)
	nextSubID   int
}

// NewSession creates a Session over the given store. The logged-in flag
// starts true when a token is already persisted.
func NewSession(store TokenStore) *Session {
	return &Session{
		store:       store,
		loggedIn:    store.Token() != "",
		subscribers: make(map[int]func(bool)),
	}
}

// Token returns the current token, empty when logged out.
func (s *Session) Token() string {
	return s.store.Token()
}

// SetToken persists a new token and flips the logged-in flag.
func (s *Session) SetToken(token string) error {
	if err := s.store.SetToken(token); err != nil {
		return err
	}
	s.setLoggedIn(token != "")
	return nil
}

// Clear drops the persisted token and notifies subscribers.
func (s *Session) Clear() error {
	err := s.store.ClearToken()
	s.setLoggedIn(false)
	return err
}

// LoggedIn reports the current session flag.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Subscribe registers a callback invoked on every logged-in transition.
// The returned function unsubscribes.
func (s *Session) Subscribe(fn func(loggedIn bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) setLoggedIn(v bool) {
	s.mu.Lock()
	changed := s.loggedIn != v
	s.loggedIn = v
	var fns []func(bool)
	if changed {
		fns = make([]func(bool), 0, len(s.subscribers))
		for _, fn := range s.subscribers {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// RemainingLifetime decodes the token's expiry claim and returns the time
// left, clamped to zero. The signature is not verified; only the server can
// do that, the client just schedules refreshes with it.
func RemainingLifetime(tokenString string) time.Duration {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
