package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-webapi/internal/models"
	"travel-webapi/internal/password"
	"travel-webapi/internal/repositories"
	"travel-webapi/internal/token"

	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrTokenMissing       = errors.New("token is missing")
	ErrNotFound           = errors.New("record not found")
)

// Session describes an issued token alongside its lifetime, as returned to
// clients on register/login/refresh/verify.
type Session struct {
	Token     string
	ExpiresIn int64 // seconds
	User      *models.User
}

// AuthService defines the interface for the session lifecycle: issuance,
// validation, refresh and invalidation.
type AuthService interface {
	Register(ctx context.Context, name, email, plain string) (*Session, error)
	Login(ctx context.Context, email, plain string) (*Session, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
	Logout(ctx context.Context, claims *token.Claims) error
	Refresh(ctx context.Context, tokenString string) (*Session, error)
	Verify(ctx context.Context, claims *token.Claims, tokenString string) (*Session, error)
}

type authServiceImpl struct {
	userRepo repositories.UserRepository
	issuer   *token.Issuer
	denylist token.Denylist
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, issuer *token.Issuer, denylist token.Denylist, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		issuer:   issuer,
		denylist: denylist,
		logger:   logger,
	}
}

// Register persists a new user with a hashed password and issues a session.
// A duplicate email yields ErrEmailExists; the plaintext is never stored or
// logged.
func (s *authServiceImpl) Register(ctx context.Context, name, email, plain string) (*Session, error) {
	s.logger.Info("Attempting to register user", zap.String("email", email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Error checking for existing email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Registration attempt failed: email already exists", zap.String("email", email))
		return nil, ErrEmailExists
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	newUser := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
	}
	if _, err := s.userRepo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to create user in database", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	signed, _, err := s.issuer.Issue(newUser.ID)
	if err != nil {
		s.logger.Error("Failed to generate token during registration", zap.Int64("userID", newUser.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User registered successfully", zap.String("email", email), zap.Int64("userID", newUser.ID))
	return &Session{Token: signed, ExpiresIn: int64(s.issuer.TTL().Seconds()), User: newUser}, nil
}

// Login validates credentials and issues a session. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *authServiceImpl) Login(ctx context.Context, email, plain string) (*Session, error) {
	s.logger.Info("Attempting to login user", zap.String("email", email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Error finding user during login", zap.String("email", email), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if user == nil {
		s.logger.Warn("Login attempt failed: user not found", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !password.Check(plain, user.PasswordHash) {
		s.logger.Warn("Login attempt failed: invalid password", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	signed, _, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate token during login", zap.Int64("userID", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.String("email", email), zap.Int64("userID", user.ID))
	return &Session{Token: signed, ExpiresIn: int64(s.issuer.TTL().Seconds()), User: user}, nil
}

// CurrentUser resolves the authenticated user's record.
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("Error fetching current user", zap.Int64("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	if user == nil {
		s.logger.Warn("Current user requested for non-existent ID", zap.Int64("userID", userID))
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Logout revokes the presented token for its remaining lifetime, so it can no
// longer authenticate.
func (s *authServiceImpl) Logout(ctx context.Context, claims *token.Claims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.denylist.Revoke(ctx, claims.ID, remaining); err != nil {
		s.logger.Error("Failed to revoke token on logout", zap.String("jti", claims.ID), zap.Error(err))
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("Token revoked on logout", zap.String("jti", claims.ID))
	return nil
}

// Refresh exchanges a still-valid token for a fresh one with a full TTL. The
// old token is revoked immediately. An empty token yields ErrTokenMissing, an
// expired one token.ErrTokenExpired.
func (s *authServiceImpl) Refresh(ctx context.Context, tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, err // token.ErrTokenExpired or token.ErrTokenInvalid
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Denylist lookup failed during refresh", zap.Error(err))
		return nil, fmt.Errorf("failed to check token state: %w", err)
	}
	if revoked {
		return nil, token.ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, token.ErrTokenInvalid
	}

	signed, _, err := s.issuer.Issue(userID)
	if err != nil {
		s.logger.Error("Failed to generate replacement token", zap.Int64("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Old token is rejected from this point on; its denylist entry expires with it.
	if err := s.denylist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Error("Failed to revoke old token on refresh", zap.String("jti", claims.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	s.logger.Info("Token refreshed", zap.Int64("userID", userID), zap.String("old_jti", claims.ID))
	return &Session{Token: signed, ExpiresIn: int64(s.issuer.TTL().Seconds())}, nil
}

// Verify is a read-only validity probe: it reports the token's actual
// remaining lifetime and the user it resolves to, without touching session
// state.
func (s *authServiceImpl) Verify(ctx context.Context, claims *token.Claims, tokenString string) (*Session, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, token.ErrTokenInvalid
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	remaining := int64(time.Until(claims.ExpiresAt.Time).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &Session{Token: tokenString, ExpiresIn: remaining, User: user}, nil
}
