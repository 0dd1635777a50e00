package analyzer

import (
	"context"
	"errors"
	"time"
)

// winterNow is a fixed reference time in January.
var winterNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

// neverUsedRow returns an active, never-used, untagged row of the given age.
func neverUsedRow(id int64, daysSinceCreated int) ItemUsageSummary {
	return ItemUsageSummary{
		ItemID:           id,
		Name:             "item",
		Status:           StatusActive,
		DaysSinceCreated: daysSinceCreated,
	}
}

// usedRow returns an active row last used daysSinceLastUse days before now.
func usedRow(id int64, daysSinceCreated, daysSinceLastUse int, rate float64, now time.Time) ItemUsageSummary {
	return ItemUsageSummary{
		ItemID:           id,
		Name:             "item",
		Status:           StatusActive,
		UsageCount:       1,
		LastUsedDate:     timePtr(now.AddDate(0, 0, -daysSinceLastUse)),
		DaysSinceCreated: daysSinceCreated,
		DaysSinceLastUse: intPtr(daysSinceLastUse),
		MonthlyUsageRate: rate,
	}
}

type fakeProvider struct {
	rows       []ItemUsageSummary
	err        error
	gotMinDays int
	calls      int
}

func (f *fakeProvider) ListUsageSummaries(ctx context.Context, userID string, minTenureDays int, now time.Time) ([]ItemUsageSummary, error) {
	f.calls++
	f.gotMinDays = minTenureDays
	if f.err != nil {
		return nil, f.err
	}
	var out []ItemUsageSummary
	for _, r := range f.rows {
		if r.DaysSinceCreated >= minTenureDays {
			out = append(out, r)
		}
	}
	return out, nil
}

var errProvider = errors.New("connection refused")

type countingObserver struct {
	excluded map[Exclusion]int
	emitted  map[Tier]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{excluded: map[Exclusion]int{}, emitted: map[Tier]int{}}
}

func (o *countingObserver) Excluded(reason Exclusion) { o.excluded[reason]++ }
func (o *countingObserver) Emitted(tier Tier)         { o.emitted[tier]++ }

func sumPoints(entries []ScoreEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Point
	}
	return total
}
