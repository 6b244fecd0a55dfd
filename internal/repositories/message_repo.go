package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-webapi/internal/models"

	"go.uber.org/zap"
)

// MessageRepository defines the interface for contact message data operations
type MessageRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Message, error)
	List(ctx context.Context, params ListParams) ([]models.Message, *PageMeta, error)
	Create(ctx context.Context, msg *models.Message) (int64, error)
	Update(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type sqliteMessageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMessageRepository creates a new MessageRepository backed by SQLite
func NewMessageRepository(db *sql.DB, logger *zap.Logger) MessageRepository {
	return &sqliteMessageRepository{db: db, logger: logger}
}

const messageColumns = `id, name, email, message, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	msg := &models.Message{}
	if err := row.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
		return nil, err
	}
	return msg, nil
}

// FindByID retrieves a message by ID. Returns nil, nil when not found.
func (r *sqliteMessageRepository) FindByID(ctx context.Context, id int64) (*models.Message, error) {
	msg, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Error querying message by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("error finding message by ID %d: %w", id, err)
	}
	return msg, nil
}

// List returns messages newest first, paginated when params.Page is set.
func (r *sqliteMessageRepository) List(ctx context.Context, params ListParams) ([]models.Message, *PageMeta, error) {
	limit, offset, paginated := params.resolve()

	var meta *PageMeta
	if paginated {
		var total int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&total); err != nil {
			r.logger.Error("Error counting messages", zap.Error(err))
			return nil, nil, fmt.Errorf("error counting messages: %w", err)
		}
		meta = params.meta(limit, total)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		r.logger.Error("Error listing messages", zap.Error(err))
		return nil, nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning message row: %w", err)
		}
		msgs = append(msgs, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return msgs, meta, nil
}

// Create inserts a new message and returns the generated ID.
func (r *sqliteMessageRepository) Create(ctx context.Context, msg *models.Message) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (name, email, message, created_at, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		msg.Name, msg.Email, msg.Message,
	)
	if err != nil {
		r.logger.Error("Error creating message", zap.String("email", msg.Email), zap.Error(err))
		return 0, fmt.Errorf("error creating message from %s: %w", msg.Email, err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading new message id: %w", err)
	}
	msg.ID = newID
	return newID, nil
}

// Update persists all mutable fields for an existing message.
func (r *sqliteMessageRepository) Update(ctx context.Context, msg *models.Message) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET name = ?, email = ?, message = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		msg.Name, msg.Email, msg.Message, msg.ID,
	)
	if err != nil {
		r.logger.Error("Error updating message", zap.Int64("id", msg.ID), zap.Error(err))
		return fmt.Errorf("error updating message %d: %w", msg.ID, err)
	}
	return nil
}

// Delete removes a message row. Returns false when no row matched.
func (r *sqliteMessageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Error deleting message", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("error deleting message %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected > 0, nil
}
