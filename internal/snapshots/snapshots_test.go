package snapshots

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/store"
)

var refNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newManager(t *testing.T, s Store) *Manager {
	t.Helper()
	m := New(s, filepath.Join(t.TempDir(), "snapshots"))
	m.now = func() time.Time { return refNow }
	return m
}

func seedWardrobe(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()

	updated := refNow.AddDate(0, 0, -3)
	items := []*store.Item{
		{UserID: "u1", Name: "rain jacket", SeasonTags: []analyzer.Season{analyzer.SeasonSpring, analyzer.SeasonAutumn}, CreatedAt: refNow.AddDate(-1, 0, 0)},
		{UserID: "u1", Name: "old boots", Status: analyzer.StatusDiscard, StatusUpdatedAt: &updated, CreatedAt: refNow.AddDate(-2, 0, 0)},
		{UserID: "u1", Name: "gift scarf", IsFavorite: true, CreatedAt: refNow.AddDate(0, -6, 0)},
		{UserID: "u2", Name: "not mine", CreatedAt: refNow.AddDate(-1, 0, 0)},
	}
	for _, item := range items {
		if err := s.InsertItem(ctx, item); err != nil {
			t.Fatalf("InsertItem failed: %v", err)
		}
	}
	for _, days := range []int{40, 10} {
		if _, err := s.InsertUsageEvent(ctx, "u1", items[0].ID, refNow.AddDate(0, 0, -days)); err != nil {
			t.Fatalf("InsertUsageEvent failed: %v", err)
		}
	}
	if err := s.DeleteItem(ctx, "u1", items[2].ID, refNow); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
}

func TestCreate(t *testing.T) {
	s := setupTestStore(t)
	seedWardrobe(t, s)
	m := newManager(t, s)

	info, err := m.Create(context.Background(), "u1", "before cleanup")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if info.Items != 3 {
		t.Errorf("expected 3 items including the deleted one, got %d", info.Items)
	}
	if filepath.Base(info.Path) != "2024-03-01-093000.json" {
		t.Errorf("unexpected snapshot file name: %s", info.Path)
	}

	data, err := Load(info.Path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data.Reason != "before cleanup" || data.UserID != "u1" || data.Version != FormatVersion {
		t.Errorf("unexpected snapshot header: %+v", data)
	}
	if len(data.Items[0].UsedAt) != 2 {
		t.Errorf("expected usage history in snapshot, got %v", data.Items[0].UsedAt)
	}
	if data.Items[1].Status != analyzer.StatusDiscard || data.Items[1].StatusUpdatedAt == nil {
		t.Errorf("expected discard status to be kept, got %+v", data.Items[1])
	}
}

func TestCreate_SameSecondGetsUniqueName(t *testing.T) {
	s := setupTestStore(t)
	m := newManager(t, s)

	first, err := m.Create(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := m.Create(context.Background(), "u1", "b")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Path == second.Path {
		t.Errorf("snapshots created in the same second share a path: %s", first.Path)
	}
}

func TestRestore(t *testing.T) {
	src := setupTestStore(t)
	seedWardrobe(t, src)
	m := newManager(t, src)

	info, err := m.Create(context.Background(), "u1", "backup")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dst := setupTestStore(t)
	report, err := New(dst, "").Restore(context.Background(), info.Path, "u9")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if report.Items != 3 || report.UsageEvents != 2 {
		t.Errorf("unexpected restore report: %+v", report)
	}

	items, err := dst.ListItems(context.Background(), "u9", true)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 restored items, got %d", len(items))
	}

	byName := make(map[string]*store.Item)
	for _, item := range items {
		byName[item.Name] = item
	}
	if got := byName["old boots"]; got == nil || got.Status != analyzer.StatusDiscard {
		t.Errorf("expected old boots restored as discard, got %+v", got)
	}
	if got := byName["gift scarf"]; got == nil || got.Status != analyzer.StatusDeleted || !got.IsFavorite {
		t.Errorf("expected gift scarf restored as deleted favorite, got %+v", got)
	}
	if got := byName["rain jacket"]; got == nil || len(got.SeasonTags) != 2 {
		t.Errorf("expected season tags to be restored, got %+v", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version": 99, "items": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(future); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestListAndCleanup(t *testing.T) {
	s := setupTestStore(t)
	m := newManager(t, s)

	if infos, err := m.List(); err != nil || len(infos) != 0 {
		t.Fatalf("expected no snapshots before the directory exists, got %v, %v", infos, err)
	}

	m.now = func() time.Time { return refNow.AddDate(0, 0, -120) }
	old, err := m.Create(context.Background(), "u1", "old")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	m.now = func() time.Time { return refNow }
	if _, err := m.Create(context.Background(), "u1", "new"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(m.snapshotDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 || infos[0].Reason != "new" {
		t.Fatalf("expected 2 snapshots newest first, got %+v", infos)
	}

	removed, err := m.Cleanup(90 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 snapshot removed, got %d", removed)
	}
	if _, err := os.Stat(old.Path); !os.IsNotExist(err) {
		t.Error("old snapshot file should be gone")
	}
}
