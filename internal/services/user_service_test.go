package services

import (
	"context"
	"testing"

	"travel-webapi/internal/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserCreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.Create(ctx, UserInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, password.Check("secret123", stored.PasswordHash))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), zap.NewNop())

	_, err := svc.Create(ctx, UserInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, UserInput{Name: "Other", Email: "alice@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserUpdateEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), zap.NewNop())

	alice, err := svc.Create(ctx, UserInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, UserInput{Name: "Bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Taking another user's email is rejected.
	_, err = svc.Update(ctx, bob.ID, UserInput{Name: "Bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	// Keeping your own email is fine.
	updated, err := svc.Update(ctx, alice.ID, UserInput{Name: "Alice Renamed", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.Name)
}

func TestUserUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.Create(ctx, UserInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	originalHash := repo.users[user.ID].PasswordHash

	_, err = svc.Update(ctx, user.ID, UserInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, originalHash, repo.users[user.ID].PasswordHash)

	_, err = svc.Update(ctx, user.ID, UserInput{Name: "Alice", Email: "alice@example.com", Password: "newpass1"})
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, repo.users[user.ID].PasswordHash)
	assert.True(t, password.Check("newpass1", repo.users[user.ID].PasswordHash))
}

func TestUserDeleteNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), zap.NewNop())
	assert.ErrorIs(t, svc.Delete(context.Background(), 404), ErrNotFound)
}
