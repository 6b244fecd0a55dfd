package models

import "time"

// Destination represents a row in the destinations table. UserID and
// CategoryID are nullable foreign keys; Image holds the stored file name
// relative to the upload directory, empty when no image is attached.
type Destination struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user_id"`
	CategoryID  *int64    `json:"category_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Image       *string   `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Category is resolved for API responses when CategoryID is set.
	Category *Category `json:"category,omitempty"`

	// ImageURL is the public URL for Image under the static upload route.
	// Derived, never persisted.
	ImageURL *string `json:"image_url,omitempty"`
}
