// Package usage records that an item was worn and returns the item to the
// active pool.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackwell-systems/closetprune/internal/lifecycle"
)

// EventStore persists usage events.
type EventStore interface {
	InsertUsageEvent(ctx context.Context, userID string, itemID int64, usedAt time.Time) (int64, error)
}

// Reactivator returns a pending or discarded item to active.
type Reactivator interface {
	CheckReactivate(ctx context.Context, userID string, itemID int64) error
	Reactivate(ctx context.Context, userID string, itemID int64, now time.Time) (lifecycle.Outcome, error)
}

// Event is a recorded usage.
type Event struct {
	ID          int64
	ItemID      int64
	UsedAt      time.Time
	Reactivated bool
}

// Recorder records usage events and reactivates the used item.
type Recorder struct {
	events  EventStore
	machine Reactivator
	logger  zerolog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(events EventStore, machine Reactivator, logger zerolog.Logger) *Recorder {
	return &Recorder{events: events, machine: machine, logger: logger}
}

// Record stores a usage of itemID at usedAt and then reactivates the item
// as of now. A deleted or unknown item is rejected before anything is
// written, and the item keeps its status if the usage cannot be stored.
func (r *Recorder) Record(ctx context.Context, userID string, itemID int64, usedAt, now time.Time) (*Event, error) {
	if usedAt.After(now) {
		return nil, &lifecycle.ValidationError{Field: "used_at", Message: "used_at cannot be in the future"}
	}

	if err := r.machine.CheckReactivate(ctx, userID, itemID); err != nil {
		return nil, err
	}

	id, err := r.events.InsertUsageEvent(ctx, userID, itemID, usedAt)
	if err != nil {
		return nil, &lifecycle.UpstreamError{Op: "insert usage event", Err: fmt.Errorf("item %d: %w", itemID, err)}
	}

	outcome, err := r.machine.Reactivate(ctx, userID, itemID, now)
	if err != nil {
		r.logger.Error().Err(err).
			Int64("item_id", itemID).
			Int64("usage_id", id).
			Msg("usage recorded but item not reactivated")
		return nil, err
	}

	if outcome.Changed {
		r.logger.Info().
			Int64("item_id", itemID).
			Str("from", string(outcome.From)).
			Msg("item reactivated by new usage")
	}

	return &Event{ID: id, ItemID: itemID, UsedAt: usedAt, Reactivated: outcome.Changed}, nil
}
