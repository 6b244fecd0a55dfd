package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Envelope mirrors the API's uniform response wrapper.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Meta    *PageMeta           `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// PageMeta mirrors the pagination metadata of paginated list responses.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// User is the API's user representation.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Destination is the API's destination representation.
type Destination struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user_id"`
	CategoryID  *int64    `json:"category_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Image       *string   `json:"image"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is the API's contact message representation.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthPayload is the data payload of register/login/refresh/check-token.
type AuthPayload struct {
	User      *User  `json:"user,omitempty"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// APIError is returned for any non-2xx envelope.
type APIError struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Options configures the Client's UX callbacks. Both are optional.
type Options struct {
	// Notify surfaces a user-visible message (the frontend's toast).
	Notify func(message string)
	// RedirectToLogin is invoked whenever the session must be re-established.
	RedirectToLogin func()
}

// Client wraps the API with session handling: authenticated requests carry
// the bearer token, are rejected locally when no token is stored, and any
// 401 response clears the session and redirects to login.
type Client struct {
	public  *resty.Client // register/login/refresh, no token handling
	auth    *resty.Client // everything else
	session *Session
	opts    Options
}

// New creates a Client for the API at baseURL using the given session.
func New(baseURL string, session *Session, opts Options) *Client {
	c := &Client{
		public:  resty.New().SetBaseURL(baseURL),
		auth:    resty.New().SetBaseURL(baseURL),
		session: session,
		opts:    opts,
	}

	c.auth.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		token := session.Token()
		if token == "" {
			c.notify("You are not authenticated. Please log in.")
			c.redirect()
			return ErrNoToken // rejected before any network call
		}
		req.SetHeader("Authorization", "Bearer "+token)
		return nil
	})
	c.auth.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == 401 {
			_ = session.Clear()
			c.notify("Your session has expired. Please log in again.")
			c.redirect()
		}
		return nil
	})

	return c
}

// Session exposes the underlying session state.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) notify(message string) {
	if c.opts.Notify != nil {
		c.opts.Notify(message)
	}
}

func (c *Client) redirect() {
	if c.opts.RedirectToLogin != nil {
		c.opts.RedirectToLogin()
	}
}

// decode unwraps an envelope response, converting failures into *APIError.
func decode(resp *resty.Response, out interface{}) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal(resp.Body(), env); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if resp.IsError() || !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: env.Message, Errors: env.Errors}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env, nil
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	resp, err := c.public.R().SetContext(ctx).SetBody(input).Post("/api/register")
	if err != nil {
		return nil, err
	}
	payload := &AuthPayload{}
	if _, err := decode(resp, payload); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(payload.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	return payload, nil
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	resp, err := c.public.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/api/login")
	if err != nil {
		return nil, err
	}
	payload := &AuthPayload{}
	if _, err := decode(resp, payload); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(payload.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	return payload, nil
}

// Refresh exchanges the current token for a fresh one and stores it. The
// refresh endpoint is public, so the token travels explicitly here rather
// than through the authenticated wrapper.
func (c *Client) Refresh(ctx context.Context) (*AuthPayload, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	resp, err := c.public.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Post("/api/refresh")
	if err != nil {
		return nil, err
	}
	payload := &AuthPayload{}
	if _, err := decode(resp, payload); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(payload.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	return payload, nil
}

// EnsureFreshSession guarantees a currently-valid token exists before
// returning true. Without a token it fails closed; with less than
// RefreshThreshold remaining it synchronously refreshes, clearing the
// session and redirecting to login when that fails.
func (c *Client) EnsureFreshSession(ctx context.Context) bool {
	token := c.session.Token()
	if token == "" {
		c.notify("You are not authenticated. Please log in.")
		c.redirect()
		return false
	}

	if RemainingLifetime(token) <= RefreshThreshold {
		if _, err := c.Refresh(ctx); err != nil {
			_ = c.session.Clear()
			c.notify("Your session has expired, please log in again.")
			c.redirect()
			return false
		}
	}
	return true
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	resp, err := c.auth.R().SetContext(ctx).Get("/api/me")
	if err != nil {
		return nil, err
	}
	payload := &struct {
		User *User `json:"user"`
	}{}
	if _, err := decode(resp, payload); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// Logout invalidates the server-side session and clears the local one.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.auth.R().SetContext(ctx).Get("/api/logout")
	if err != nil {
		return err
	}
	if _, err := decode(resp, nil); err != nil {
		return err
	}
	return c.session.Clear()
}

// CheckToken probes the current token's validity and remaining lifetime.
func (c *Client) CheckToken(ctx context.Context) (*AuthPayload, error) {
	resp, err := c.auth.R().SetContext(ctx).Get("/api/check-token")
	if err != nil {
		return nil, err
	}
	payload := &AuthPayload{}
	if _, err := decode(resp, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListDestinations fetches destinations. Pass page/limit as nil for the bare
// (unpaginated) list; meta is nil in that case.
func (c *Client) ListDestinations(ctx context.Context, page, limit *int) ([]Destination, *PageMeta, error) {
	req := c.auth.R().SetContext(ctx)
	if page != nil {
		req.SetQueryParam("page", fmt.Sprint(*page))
	}
	if limit != nil {
		req.SetQueryParam("limit", fmt.Sprint(*limit))
	}
	resp, err := req.Get("/api/destinations")
	if err != nil {
		return nil, nil, err
	}
	var dests []Destination
	env, err := decode(resp, &dests)
	if err != nil {
		return nil, nil, err
	}
	return dests, env.Meta, nil
}

// GetDestination fetches one destination by id.
func (c *Client) GetDestination(ctx context.Context, id int64) (*Destination, error) {
	resp, err := c.auth.R().SetContext(ctx).Get(fmt.Sprintf("/api/destinations/%d", id))
	if err != nil {
		return nil, err
	}
	dest := &Destination{}
	if _, err := decode(resp, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// DeleteDestination removes a destination by id.
func (c *Client) DeleteDestination(ctx context.Context, id int64) error {
	resp, err := c.auth.R().SetContext(ctx).Delete(fmt.Sprintf("/api/destinations/%d", id))
	if err != nil {
		return err
	}
	_, err = decode(resp, nil)
	return err
}

// ListUsers fetches user accounts; pagination works like ListDestinations.
func (c *Client) ListUsers(ctx context.Context, page, limit *int) ([]User, *PageMeta, error) {
	req := c.auth.R().SetContext(ctx)
	if page != nil {
		req.SetQueryParam("page", fmt.Sprint(*page))
	}
	if limit != nil {
		req.SetQueryParam("limit", fmt.Sprint(*limit))
	}
	resp, err := req.Get("/api/users")
	if err != nil {
		return nil, nil, err
	}
	var users []User
	env, err := decode(resp, &users)
	if err != nil {
		return nil, nil, err
	}
	return users, env.Meta, nil
}

// DeleteUser removes a user account by id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	resp, err := c.auth.R().SetContext(ctx).Delete(fmt.Sprintf("/api/users/%d", id))
	if err != nil {
		return err
	}
	_, err = decode(resp, nil)
	return err
}

// SendMessage submits a contact message.
func (c *Client) SendMessage(ctx context.Context, name, email, message string) (*Message, error) {
	resp, err := c.auth.R().SetContext(ctx).
		SetBody(map[string]string{"name": name, "email": email, "message": message}).
		Post("/api/messages")
	if err != nil {
		return nil, err
	}
	msg := &Message{}
	if _, err := decode(resp, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
