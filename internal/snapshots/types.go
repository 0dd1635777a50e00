// Package snapshots writes a user's wardrobe to JSON files so deletions and
// bulk changes can be undone.
package snapshots

import (
	"context"
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/store"
)

// FormatVersion is written to every snapshot file.
const FormatVersion = 1

// Data is the JSON structure stored in snapshot files.
type Data struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Reason    string          `json:"reason"`
	UserID    string          `json:"user_id"`
	Items     []*ItemSnapshot `json:"items"`
}

// ItemSnapshot is one item and its usage history.
type ItemSnapshot struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	IsFavorite      bool              `json:"is_favorite"`
	Status          analyzer.Status   `json:"status"`
	StatusUpdatedAt *time.Time        `json:"status_updated_at,omitempty"`
	SeasonTags      []analyzer.Season `json:"season_tags,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UsedAt          []time.Time       `json:"used_at,omitempty"`
}

// Info describes a snapshot file.
type Info struct {
	Path      string
	CreatedAt time.Time
	Reason    string
	UserID    string
	Items     int
}

// Store is the subset of the store snapshots read and write.
type Store interface {
	ListItems(ctx context.Context, userID string, includeDeleted bool) ([]*store.Item, error)
	ListUsageEvents(ctx context.Context, userID string, itemID int64) ([]*store.UsageEvent, error)
	InsertItem(ctx context.Context, item *store.Item) error
	InsertUsageEvent(ctx context.Context, userID string, itemID int64, usedAt time.Time) (int64, error)
}

// Manager manages snapshot creation, restoration, and cleanup.
type Manager struct {
	store       Store
	snapshotDir string
	now         func() time.Time
}

// New creates a new snapshot Manager.
func New(store Store, snapshotDir string) *Manager {
	return &Manager{
		store:       store,
		snapshotDir: snapshotDir,
		now:         time.Now,
	}
}
