package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
)

var refNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertItem(t *testing.T, s *Store, userID, name string, createdDaysAgo int, tags ...analyzer.Season) int64 {
	t.Helper()
	item := &Item{
		UserID:     userID,
		Name:       name,
		SeasonTags: tags,
		CreatedAt:  refNow.AddDate(0, 0, -createdDaysAgo),
	}
	if err := s.InsertItem(context.Background(), item); err != nil {
		t.Fatalf("failed to insert item: %v", err)
	}
	return item.ID
}

// TestListItems_NoSchema_ReturnsErrNotInitialized verifies that querying a
// fresh DB without CreateSchema returns ErrNotInitialized.
func TestListItems_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	_, err = s.ListItems(context.Background(), "u1", false)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListItems() error = %v; want ErrNotInitialized", err)
	}

	_, err = s.GetItem(context.Background(), "u1", 1)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetItem() error = %v; want ErrNotInitialized", err)
	}

	if err := s.Ping(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Ping() error = %v; want ErrNotInitialized", err)
	}
}

func TestErrNotInitialized_ErrorMessage(t *testing.T) {
	if !strings.Contains(ErrNotInitialized.Error(), "closetprune") {
		t.Errorf("ErrNotInitialized message %q should name the command to run", ErrNotInitialized.Error())
	}
}

func TestInsertAndGetItem(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := insertItem(t, s, "u1", "linen shirt", 10, analyzer.SeasonSummer, analyzer.SeasonSpring)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	item, err := s.GetItem(ctx, "u1", id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Name != "linen shirt" || item.Status != analyzer.StatusActive || item.IsFavorite {
		t.Errorf("unexpected item: %+v", item)
	}
	if len(item.SeasonTags) != 2 || item.SeasonTags[0] != analyzer.SeasonSummer {
		t.Errorf("unexpected season tags: %v", item.SeasonTags)
	}
	if !item.CreatedAt.Equal(refNow.AddDate(0, 0, -10)) {
		t.Errorf("unexpected created_at: %v", item.CreatedAt)
	}
	if item.StatusUpdatedAt != nil {
		t.Error("new item should have no status timestamp")
	}

	if _, err := s.GetItem(ctx, "someone-else", id); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for another user, got %v", err)
	}
}

func TestInsertItem_Validation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		item Item
	}{
		{"missing name", Item{UserID: "u1", CreatedAt: refNow}},
		{"missing created_at", Item{UserID: "u1", Name: "x"}},
		{"bad season", Item{UserID: "u1", Name: "x", CreatedAt: refNow, SeasonTags: []analyzer.Season{"monsoon"}}},
		{"bad status", Item{UserID: "u1", Name: "x", CreatedAt: refNow, Status: "lost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.InsertItem(ctx, &tt.item); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUpdateItem(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := insertItem(t, s, "u1", "coat", 100)

	pending := analyzer.StatusPending
	if err := s.UpdateItem(ctx, "u1", id, lifecycle.Patch{Status: &pending, StatusUpdatedAt: &refNow}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	fav := true
	if err := s.UpdateItem(ctx, "u1", id, lifecycle.Patch{IsFavorite: &fav}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	state, err := s.GetItemState(ctx, "u1", id)
	if err != nil {
		t.Fatalf("GetItemState failed: %v", err)
	}
	if state.Status != analyzer.StatusPending || !state.IsFavorite || !state.StatusUpdatedAt.Equal(refNow) {
		t.Errorf("unexpected state: %+v", state)
	}

	if err := s.UpdateItem(ctx, "u2", id, lifecycle.Patch{IsFavorite: &fav}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for another user, got %v", err)
	}
	if err := s.UpdateItem(ctx, "u1", id, lifecycle.Patch{}); err != nil {
		t.Errorf("empty patch should be a no-op, got %v", err)
	}
}

func TestDeleteItem_SoftDeletes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	keep := insertItem(t, s, "u1", "scarf", 100)
	gone := insertItem(t, s, "u1", "hat", 100)

	if err := s.DeleteItem(ctx, "u1", gone, refNow); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	items, err := s.ListItems(ctx, "u1", false)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != keep {
		t.Errorf("expected only item %d, got %d items", keep, len(items))
	}

	all, err := s.ListItems(ctx, "u1", true)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(all) != 2 || all[1].Status != analyzer.StatusDeleted {
		t.Errorf("expected deleted item to be kept with status deleted, got %+v", all)
	}
}

func TestInsertUsageEvent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := insertItem(t, s, "u1", "jeans", 200)

	for _, daysAgo := range []int{30, 5} {
		if _, err := s.InsertUsageEvent(ctx, "u1", id, refNow.AddDate(0, 0, -daysAgo)); err != nil {
			t.Fatalf("InsertUsageEvent failed: %v", err)
		}
	}

	if _, err := s.InsertUsageEvent(ctx, "u2", id, refNow); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for another user's item, got %v", err)
	}

	events, err := s.ListUsageEvents(ctx, "u1", id)
	if err != nil {
		t.Fatalf("ListUsageEvents failed: %v", err)
	}
	if len(events) != 2 || !events[0].UsedAt.Equal(refNow.AddDate(0, 0, -5)) {
		t.Errorf("expected newest event first, got %+v", events)
	}
}

func TestGetStats(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := insertItem(t, s, "u1", "a", 100)
	b := insertItem(t, s, "u1", "b", 100)
	insertItem(t, s, "u1", "c", 100)
	insertItem(t, s, "u2", "other", 100)

	discard := analyzer.StatusDiscard
	fav := true
	if err := s.UpdateItem(ctx, "u1", a, lifecycle.Patch{Status: &discard, StatusUpdatedAt: &refNow}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateItem(ctx, "u1", b, lifecycle.Patch{IsFavorite: &fav}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertUsageEvent(ctx, "u1", b, refNow.AddDate(0, 0, -3)); err != nil {
		t.Fatal(err)
	}

	st, err := s.GetStats(ctx, "u1")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if st.Items != 3 || st.Active != 2 || st.Discard != 1 || st.Favorites != 1 || st.UsageEvents != 1 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.FirstUsage == nil || st.LastUsage == nil {
		t.Error("expected usage range to be set")
	}

	empty, err := s.GetStats(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if empty.Items != 0 || empty.FirstUsage != nil {
		t.Errorf("expected empty stats, got %+v", empty)
	}
}
