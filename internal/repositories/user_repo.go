package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-webapi/internal/models"

	"go.uber.org/zap"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, params ListParams) ([]models.User, *PageMeta, error)
	Create(ctx context.Context, user *models.User) (int64, error) // Returns the new user ID
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (bool, error) // false when the id did not exist
}

// sqliteUserRepository implements UserRepository over database/sql
type sqliteUserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository backed by SQLite
func NewUserRepository(db *sql.DB, logger *zap.Logger) UserRepository {
	return &sqliteUserRepository{db: db, logger: logger}
}

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves a user by email. Returns nil, nil when not found.
func (r *sqliteUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil to indicate not found cleanly
		}
		r.logger.Error("Error querying user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("error finding user by email %s: %w", email, err)
	}
	return user, nil
}

// FindByID retrieves a user by ID. Returns nil, nil when not found.
func (r *sqliteUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Error querying user by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("error finding user by ID %d: %w", id, err)
	}
	return user, nil
}

// List returns users newest first. With params.Page set the result is
// paginated and PageMeta is non-nil; otherwise a bare slice is returned.
func (r *sqliteUserRepository) List(ctx context.Context, params ListParams) ([]models.User, *PageMeta, error) {
	limit, offset, paginated := params.resolve()

	var meta *PageMeta
	if paginated {
		var total int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
			r.logger.Error("Error counting users", zap.Error(err))
			return nil, nil, fmt.Errorf("error counting users: %w", err)
		}
		meta = params.meta(limit, total)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Error listing users", zap.Error(err))
		return nil, nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, meta, nil
}

// Create inserts a new user and returns the generated ID.
func (r *sqliteUserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
        INSERT INTO users (name, email, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		r.logger.Error("Error creating user", zap.String("email", user.Email), zap.Error(err))
		return 0, fmt.Errorf("error creating user %s: %w", user.Email, err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading new user id: %w", err)
	}

	user.ID = newID
	r.logger.Info("User created successfully", zap.String("email", user.Email), zap.Int64("newID", newID))
	return newID, nil
}

// Update persists name, email and password hash for an existing user.
func (r *sqliteUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
        UPDATE users SET name = ?, email = ?, password_hash = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.ID); err != nil {
		r.logger.Error("Error updating user", zap.Int64("id", user.ID), zap.Error(err))
		return fmt.Errorf("error updating user %d: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user row. Returns false when no row matched.
func (r *sqliteUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Error deleting user", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("error deleting user %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected > 0, nil
}
