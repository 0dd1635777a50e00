package analyzer

import (
	"testing"
	"time"
)

func TestCheckEligibility(t *testing.T) {
	cfg := DefaultConfig()
	now := winterNow

	tests := []struct {
		name   string
		mutate func(r *ItemUsageSummary)
		want   Exclusion
		ok     bool
	}{
		{"active and old enough", func(r *ItemUsageSummary) {}, NotExcluded, true},
		{"discard", func(r *ItemUsageSummary) { r.Status = StatusDiscard }, ExcludedTerminalStatus, false},
		{"deleted", func(r *ItemUsageSummary) { r.Status = StatusDeleted }, ExcludedTerminalStatus, false},
		{"pending 10 days ago", func(r *ItemUsageSummary) {
			r.Status = StatusPending
			r.StatusUpdatedAt = timePtr(now.AddDate(0, 0, -10))
		}, ExcludedCooldown, false},
		{"pending 40 days ago", func(r *ItemUsageSummary) {
			r.Status = StatusPending
			r.StatusUpdatedAt = timePtr(now.AddDate(0, 0, -40))
		}, NotExcluded, true},
		{"pending exactly at cooldown", func(r *ItemUsageSummary) {
			r.Status = StatusPending
			r.StatusUpdatedAt = timePtr(now.Add(-cfg.Cooldown()))
		}, NotExcluded, true},
		{"pending without timestamp", func(r *ItemUsageSummary) {
			r.Status = StatusPending
		}, NotExcluded, true},
		{"favorite", func(r *ItemUsageSummary) { r.IsFavorite = true }, ExcludedFavorite, false},
		{"too new", func(r *ItemUsageSummary) { r.DaysSinceCreated = 20 }, ExcludedTooNew, false},
		{"tenure boundary", func(r *ItemUsageSummary) { r.DaysSinceCreated = 30 }, NotExcluded, true},
		// Rule order: terminal status wins over favorite and tenure
		{"discarded favorite too new", func(r *ItemUsageSummary) {
			r.Status = StatusDiscard
			r.IsFavorite = true
			r.DaysSinceCreated = 1
		}, ExcludedTerminalStatus, false},
		{"favorite too new", func(r *ItemUsageSummary) {
			r.IsFavorite = true
			r.DaysSinceCreated = 1
		}, ExcludedFavorite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := neverUsedRow(1, 400)
			tt.mutate(&row)

			got, ok := CheckEligibility(row, now, cfg)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CheckEligibility() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCheckEligibility_StricterTenure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinimumTenureDays = 90

	if _, ok := CheckEligibility(neverUsedRow(1, 60), winterNow, cfg); ok {
		t.Error("expected 60-day-old item to be excluded with a 90 day minimum tenure")
	}
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	cfg := DefaultConfig()
	fav := neverUsedRow(2, 400)
	fav.IsFavorite = true

	rows := []ItemUsageSummary{neverUsedRow(3, 400), fav, neverUsedRow(1, 400), neverUsedRow(4, 5)}
	got := Filter(rows, winterNow, cfg)

	if len(got) != 2 {
		t.Fatalf("expected 2 eligible rows, got %d", len(got))
	}
	if got[0].ItemID != 3 || got[1].ItemID != 1 {
		t.Errorf("expected order [3 1], got [%d %d]", got[0].ItemID, got[1].ItemID)
	}
	if len(rows) != 4 || !rows[1].IsFavorite {
		t.Error("Filter modified its input")
	}
}

func TestFilter_CooldownElapses(t *testing.T) {
	cfg := DefaultConfig()
	row := neverUsedRow(1, 400)
	row.Status = StatusPending
	row.StatusUpdatedAt = timePtr(winterNow)

	for _, days := range []int{0, 10, 29} {
		now := winterNow.AddDate(0, 0, days)
		if got := Filter([]ItemUsageSummary{row}, now, cfg); len(got) != 0 {
			t.Errorf("day %d: expected row to be in cooldown", days)
		}
	}
	for _, days := range []int{30, 31, 365} {
		now := winterNow.AddDate(0, 0, days)
		if got := Filter([]ItemUsageSummary{row}, now, cfg); len(got) != 1 {
			t.Errorf("day %d: expected row to be eligible again", days)
		}
	}
}

func TestFilter_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	rows := []ItemUsageSummary{neverUsedRow(1, 400), neverUsedRow(2, 10)}
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	first := Filter(rows, now, cfg)
	second := Filter(rows, now, cfg)
	if len(first) != len(second) || first[0].ItemID != second[0].ItemID {
		t.Error("Filter returned different results for identical input")
	}
}
