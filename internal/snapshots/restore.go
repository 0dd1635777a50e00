package snapshots

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/closetprune/internal/store"
)

// RestoreReport counts what Restore wrote.
type RestoreReport struct {
	Items       int
	UsageEvents int
}

// Restore recreates every item in the snapshot at path for userID, with
// its status, favorite flag and usage history. Items get new ids; the
// snapshot's ids are not reused.
func (m *Manager) Restore(ctx context.Context, path, userID string) (RestoreReport, error) {
	data, err := Load(path)
	if err != nil {
		return RestoreReport{}, err
	}

	var report RestoreReport
	for _, snap := range data.Items {
		item := &store.Item{
			UserID:          userID,
			Name:            snap.Name,
			IsFavorite:      snap.IsFavorite,
			Status:          snap.Status,
			StatusUpdatedAt: snap.StatusUpdatedAt,
			SeasonTags:      snap.SeasonTags,
			CreatedAt:       snap.CreatedAt,
		}
		if err := m.store.InsertItem(ctx, item); err != nil {
			return report, fmt.Errorf("failed to restore %q: %w", snap.Name, err)
		}
		report.Items++

		for _, usedAt := range snap.UsedAt {
			if _, err := m.store.InsertUsageEvent(ctx, userID, item.ID, usedAt); err != nil {
				return report, fmt.Errorf("failed to restore usage of %q: %w", snap.Name, err)
			}
			report.UsageEvents++
		}
	}
	return report, nil
}

// Load reads and parses a snapshot file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	if data.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", data.Version)
	}
	return &data, nil
}
