package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
	"github.com/blackwell-systems/closetprune/internal/store"
)

var now = time.Date(2024, time.May, 10, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*store.Store, *Recorder) {
	t.Helper()
	s, err := store.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.CreateSchema())
	t.Cleanup(func() { s.Close() })

	return s, NewRecorder(s, lifecycle.NewMachine(s), zerolog.Nop())
}

func addItem(t *testing.T, s *store.Store, status analyzer.Status) int64 {
	t.Helper()
	item := &store.Item{UserID: "u1", Name: "cardigan", Status: status, CreatedAt: now.AddDate(-1, 0, 0)}
	require.NoError(t, s.InsertItem(context.Background(), item))
	return item.ID
}

func TestRecord_ReactivatesPendingAndDiscarded(t *testing.T) {
	for _, status := range []analyzer.Status{analyzer.StatusPending, analyzer.StatusDiscard} {
		t.Run(string(status), func(t *testing.T) {
			s, rec := setup(t)
			id := addItem(t, s, status)

			ev, err := rec.Record(context.Background(), "u1", id, now.AddDate(0, 0, -1), now)
			require.NoError(t, err)
			assert.True(t, ev.Reactivated)
			assert.Positive(t, ev.ID)

			item, err := s.GetItem(context.Background(), "u1", id)
			require.NoError(t, err)
			assert.Equal(t, analyzer.StatusActive, item.Status)
			require.NotNil(t, item.StatusUpdatedAt)
			assert.True(t, item.StatusUpdatedAt.Equal(now))
		})
	}
}

func TestRecord_ActiveItemUnchanged(t *testing.T) {
	s, rec := setup(t)
	id := addItem(t, s, analyzer.StatusActive)

	ev, err := rec.Record(context.Background(), "u1", id, now, now)
	require.NoError(t, err)
	assert.False(t, ev.Reactivated)

	events, err := s.ListUsageEvents(context.Background(), "u1", id)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRecord_DeletedItemRejected(t *testing.T) {
	s, rec := setup(t)
	id := addItem(t, s, analyzer.StatusActive)
	require.NoError(t, s.DeleteItem(context.Background(), "u1", id, now))

	_, err := rec.Record(context.Background(), "u1", id, now, now)
	var te *lifecycle.TransitionError
	require.True(t, errors.As(err, &te), "got %v", err)

	events, err := s.ListUsageEvents(context.Background(), "u1", id)
	require.NoError(t, err)
	assert.Empty(t, events)
}

type failingEvents struct{}

func (failingEvents) InsertUsageEvent(context.Context, string, int64, time.Time) (int64, error) {
	return 0, errors.New("disk full")
}

func TestRecord_FailedInsertKeepsStatus(t *testing.T) {
	for _, status := range []analyzer.Status{analyzer.StatusPending, analyzer.StatusDiscard} {
		t.Run(string(status), func(t *testing.T) {
			s, _ := setup(t)
			id := addItem(t, s, status)
			rec := NewRecorder(failingEvents{}, lifecycle.NewMachine(s), zerolog.Nop())

			_, err := rec.Record(context.Background(), "u1", id, now, now)
			var ue *lifecycle.UpstreamError
			require.True(t, errors.As(err, &ue), "got %v", err)

			item, err := s.GetItem(context.Background(), "u1", id)
			require.NoError(t, err)
			assert.Equal(t, status, item.Status)
			assert.Nil(t, item.StatusUpdatedAt)
		})
	}
}

func TestRecord_UnknownItem(t *testing.T) {
	_, rec := setup(t)
	_, err := rec.Record(context.Background(), "u1", 999, now, now)
	assert.ErrorIs(t, err, lifecycle.ErrItemNotFound)
}

func TestRecord_FutureUsage(t *testing.T) {
	s, rec := setup(t)
	id := addItem(t, s, analyzer.StatusActive)

	_, err := rec.Record(context.Background(), "u1", id, now.Add(48*time.Hour), now)
	var ve *lifecycle.ValidationError
	assert.True(t, errors.As(err, &ve))
}
