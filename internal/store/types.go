package store

import (
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

// Item is a wardrobe item owned by a user.
type Item struct {
	ID              int64
	UserID          string
	Name            string
	IsFavorite      bool
	Status          analyzer.Status
	StatusUpdatedAt *time.Time
	SeasonTags      []analyzer.Season
	CreatedAt       time.Time
}

// UsageEvent records one day an item was worn or used.
type UsageEvent struct {
	ID     int64
	ItemID int64
	UserID string
	UsedAt time.Time
}

// Stats summarises a user's wardrobe.
type Stats struct {
	Items       int
	Active      int
	Pending     int
	Discard     int
	Deleted     int
	Favorites   int
	UsageEvents int
	FirstUsage  *time.Time
	LastUsage   *time.Time
}
