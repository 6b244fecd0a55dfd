package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-webapi/internal/models"

	"go.uber.org/zap"
)

// DestinationRepository defines the interface for destination data operations
type DestinationRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Destination, error)
	List(ctx context.Context, params ListParams) ([]models.Destination, *PageMeta, error)
	Create(ctx context.Context, dest *models.Destination) (int64, error)
	Update(ctx context.Context, dest *models.Destination) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type sqliteDestinationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDestinationRepository creates a new DestinationRepository backed by SQLite
func NewDestinationRepository(db *sql.DB, logger *zap.Logger) DestinationRepository {
	return &sqliteDestinationRepository{db: db, logger: logger}
}

// Destinations embed their category in API responses, so every read joins it.
const destinationSelect = `
SELECT d.id, d.user_id, d.category_id, d.name, d.location, d.image, d.description,
       d.created_at, d.updated_at,
       c.id, c.name, c.created_at, c.updated_at
FROM destinations d
LEFT JOIN categories c ON c.id = d.category_id`

func scanDestination(row interface{ Scan(...any) error }) (*models.Destination, error) {
	dest := &models.Destination{}
	var userID, categoryID sql.NullInt64
	var image sql.NullString
	var catID sql.NullInt64
	var catName sql.NullString
	var catCreated, catUpdated sql.NullTime

	err := row.Scan(
		&dest.ID,
		&userID,
		&categoryID,
		&dest.Name,
		&dest.Location,
		&image,
		&dest.Description,
		&dest.CreatedAt,
		&dest.UpdatedAt,
		&catID,
		&catName,
		&catCreated,
		&catUpdated,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		dest.UserID = &userID.Int64
	}
	if categoryID.Valid {
		dest.CategoryID = &categoryID.Int64
	}
	if image.Valid && image.String != "" {
		dest.Image = &image.String
	}
	if catID.Valid {
		dest.Category = &models.Category{
			ID:        catID.Int64,
			Name:      catName.String,
			CreatedAt: catCreated.Time,
			UpdatedAt: catUpdated.Time,
		}
	}
	return dest, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// FindByID retrieves a destination with its category. Returns nil, nil when not found.
func (r *sqliteDestinationRepository) FindByID(ctx context.Context, id int64) (*models.Destination, error) {
	dest, err := scanDestination(r.db.QueryRowContext(ctx, destinationSelect+` WHERE d.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Error querying destination by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("error finding destination by ID %d: %w", id, err)
	}
	return dest, nil
}

// List returns destinations newest first, paginated when params.Page is set.
func (r *sqliteDestinationRepository) List(ctx context.Context, params ListParams) ([]models.Destination, *PageMeta, error) {
	limit, offset, paginated := params.resolve()

	var meta *PageMeta
	if paginated {
		var total int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&total); err != nil {
			r.logger.Error("Error counting destinations", zap.Error(err))
			return nil, nil, fmt.Errorf("error counting destinations: %w", err)
		}
		meta = params.meta(limit, total)
	}

	rows, err := r.db.QueryContext(ctx, destinationSelect+` ORDER BY d.id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		r.logger.Error("Error listing destinations", zap.Error(err))
		return nil, nil, fmt.Errorf("error listing destinations: %w", err)
	}
	defer rows.Close()

	dests := make([]models.Destination, 0)
	for rows.Next() {
		dest, err := scanDestination(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning destination row: %w", err)
		}
		dests = append(dests, *dest)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating destination rows: %w", err)
	}
	return dests, meta, nil
}

// Create inserts a new destination and returns the generated ID.
func (r *sqliteDestinationRepository) Create(ctx context.Context, dest *models.Destination) (int64, error) {
	query := `
        INSERT INTO destinations (user_id, category_id, name, location, image, description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	result, err := r.db.ExecContext(ctx, query,
		nullableID(dest.UserID),
		nullableID(dest.CategoryID),
		dest.Name,
		dest.Location,
		nullableString(dest.Image),
		dest.Description,
	)
	if err != nil {
		r.logger.Error("Error creating destination", zap.String("name", dest.Name), zap.Error(err))
		return 0, fmt.Errorf("error creating destination %s: %w", dest.Name, err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading new destination id: %w", err)
	}

	dest.ID = newID
	r.logger.Info("Destination created successfully", zap.String("name", dest.Name), zap.Int64("newID", newID))
	return newID, nil
}

// Update persists all mutable fields for an existing destination.
func (r *sqliteDestinationRepository) Update(ctx context.Context, dest *models.Destination) error {
	query := `
        UPDATE destinations
        SET user_id = ?, category_id = ?, name = ?, location = ?, image = ?, description = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		nullableID(dest.UserID),
		nullableID(dest.CategoryID),
		dest.Name,
		dest.Location,
		nullableString(dest.Image),
		dest.Description,
		dest.ID,
	)
	if err != nil {
		r.logger.Error("Error updating destination", zap.Int64("id", dest.ID), zap.Error(err))
		return fmt.Errorf("error updating destination %d: %w", dest.ID, err)
	}
	return nil
}

// Delete removes a destination row. Returns false when no row matched.
func (r *sqliteDestinationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Error deleting destination", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("error deleting destination %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected > 0, nil
}
