package snapshots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Create writes a snapshot of every item userID owns, deleted ones
// included, and returns its description.
func (m *Manager) Create(ctx context.Context, userID, reason string) (Info, error) {
	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		return Info{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	items, err := m.store.ListItems(ctx, userID, true)
	if err != nil {
		return Info{}, fmt.Errorf("failed to list items: %w", err)
	}

	createdAt := m.now()
	data := &Data{
		Version:   FormatVersion,
		CreatedAt: createdAt,
		Reason:    reason,
		UserID:    userID,
		Items:     make([]*ItemSnapshot, 0, len(items)),
	}

	for _, item := range items {
		events, err := m.store.ListUsageEvents(ctx, userID, item.ID)
		if err != nil {
			return Info{}, fmt.Errorf("failed to read usage of item %d: %w", item.ID, err)
		}
		snap := &ItemSnapshot{
			ID:              item.ID,
			Name:            item.Name,
			IsFavorite:      item.IsFavorite,
			Status:          item.Status,
			StatusUpdatedAt: item.StatusUpdatedAt,
			SeasonTags:      item.SeasonTags,
			CreatedAt:       item.CreatedAt,
		}
		for _, ev := range events {
			snap.UsedAt = append(snap.UsedAt, ev.UsedAt)
		}
		data.Items = append(data.Items, snap)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("failed to marshal snapshot data: %w", err)
	}

	path, err := m.newPath(createdAt)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return Info{}, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return Info{Path: path, CreatedAt: createdAt, Reason: reason, UserID: userID, Items: len(data.Items)}, nil
}

// newPath returns an unused file name of the form YYYY-MM-DD-HHMMSS.json.
func (m *Manager) newPath(t time.Time) (string, error) {
	base := t.Format("2006-01-02-150405")
	for i := 0; i < 100; i++ {
		name := base + ".json"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.json", base, i)
		}
		path := filepath.Join(m.snapshotDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("too many snapshots created at %s", base)
}

// List returns the snapshots in the snapshot directory, newest first.
// Unreadable files are skipped.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.snapshotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(m.snapshotDir, e.Name())
		data, err := Load(path)
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Path:      path,
			CreatedAt: data.CreatedAt,
			Reason:    data.Reason,
			UserID:    data.UserID,
			Items:     len(data.Items),
		})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// Cleanup removes snapshots older than maxAge and returns how many were
// removed.
func (m *Manager) Cleanup(maxAge time.Duration) (int, error) {
	infos, err := m.List()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for _, info := range infos {
		if !info.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to delete snapshot file %s: %w", info.Path, err)
		}
		removed++
	}
	return removed, nil
}
