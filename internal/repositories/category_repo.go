package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-webapi/internal/models"

	"go.uber.org/zap"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context, params ListParams) ([]models.Category, *PageMeta, error)
	Create(ctx context.Context, cat *models.Category) (int64, error)
	Update(ctx context.Context, cat *models.Category) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type sqliteCategoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new CategoryRepository backed by SQLite
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) CategoryRepository {
	return &sqliteCategoryRepository{db: db, logger: logger}
}

const categoryColumns = `id, name, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	cat := &models.Category{}
	if err := row.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
		return nil, err
	}
	return cat, nil
}

// FindByID retrieves a category by ID. Returns nil, nil when not found.
func (r *sqliteCategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	cat, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Error querying category by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("error finding category by ID %d: %w", id, err)
	}
	return cat, nil
}

// List returns categories newest first, paginated when params.Page is set.
func (r *sqliteCategoryRepository) List(ctx context.Context, params ListParams) ([]models.Category, *PageMeta, error) {
	limit, offset, paginated := params.resolve()

	var meta *PageMeta
	if paginated {
		var total int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
			r.logger.Error("Error counting categories", zap.Error(err))
			return nil, nil, fmt.Errorf("error counting categories: %w", err)
		}
		meta = params.meta(limit, total)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		r.logger.Error("Error listing categories", zap.Error(err))
		return nil, nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	cats := make([]models.Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning category row: %w", err)
		}
		cats = append(cats, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return cats, meta, nil
}

// Create inserts a new category and returns the generated ID.
func (r *sqliteCategoryRepository) Create(ctx context.Context, cat *models.Category) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, created_at, updated_at) VALUES (?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		cat.Name,
	)
	if err != nil {
		r.logger.Error("Error creating category", zap.String("name", cat.Name), zap.Error(err))
		return 0, fmt.Errorf("error creating category %s: %w", cat.Name, err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading new category id: %w", err)
	}
	cat.ID = newID
	return newID, nil
}

// Update persists the name of an existing category.
func (r *sqliteCategoryRepository) Update(ctx context.Context, cat *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		cat.Name, cat.ID,
	)
	if err != nil {
		r.logger.Error("Error updating category", zap.Int64("id", cat.ID), zap.Error(err))
		return fmt.Errorf("error updating category %d: %w", cat.ID, err)
	}
	return nil
}

// Delete removes a category row. Returns false when no row matched.
func (r *sqliteCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Error deleting category", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("error deleting category %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected > 0, nil
}
