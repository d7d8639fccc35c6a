// Package bookmark is the example business module built on the generic crud
// service: bookmarks are stored through GORM and served as envelopes.
package bookmark

import (
	"time"

	"github.com/prasetyowira/starter/domain/status"
)

// Segment owns the bookmark status codes [201000, 202000).
const Segment = 201

// Bookmark status codes
var (
	NotFound     = status.Define(Segment, 1, "bookmark {0} does not exist")
	DuplicateURL = status.Define(Segment, 2, "a bookmark for {0} already exists")
)

// Bookmark is a saved link
type Bookmark struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;index" json:"title"`
	URL         string    `gorm:"not null;uniqueIndex" json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest is the body of a create call
type CreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateRequest is the body of an update call. Empty fields are left as they
// are.
type UpdateRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	URL         string `json:"url" validate:"omitempty,url"`
	Description string `json:"description" validate:"max=1000"`
}
