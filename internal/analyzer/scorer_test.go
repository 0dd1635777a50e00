package analyzer

import (
	"testing"
	"time"
)

func TestScore_NeverUsedOldItem(t *testing.T) {
	cfg := DefaultConfig()
	row := neverUsedRow(1, 400)

	score, breakdown := Score(row, winterNow, cfg)

	// 3 (tenure) + 4 (never used) + 3 (frequency)
	if score != 10 {
		t.Errorf("expected score 10, got %d", score)
	}
	want := []ScoreEntry{
		{Reason: "registered over a year ago", Point: 3},
		{Reason: "never used", Point: 4},
		{Reason: "almost never used (under 0.2 times a month)", Point: 3},
	}
	if len(breakdown) != len(want) {
		t.Fatalf("expected %d breakdown entries, got %d: %+v", len(want), len(breakdown), breakdown)
	}
	for i := range want {
		if breakdown[i] != want[i] {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, breakdown[i], want[i])
		}
	}
}

func TestScore_OutOfSeasonDeduction(t *testing.T) {
	cfg := DefaultConfig()
	// 3 (tenure) + 3 (200 days unused) + 3 (rate 0.1) = 9 before the season factor
	row := usedRow(1, 400, 200, 0.1, winterNow)
	row.SeasonTags = []Season{SeasonSummer}

	score, breakdown := Score(row, winterNow, cfg)
	if score != 7 {
		t.Fatalf("expected score 7, got %d", score)
	}
	last := breakdown[len(breakdown)-1]
	if last.Point != -2 || last.Reason != cfg.Season.Reason {
		t.Errorf("expected trailing season deduction, got %+v", last)
	}

	tier, _, ok := Classify(score, cfg)
	if !ok || tier != TierReview {
		t.Errorf("expected review tier, got %q (ok=%v)", tier, ok)
	}
}

func TestScore_SeasonFactor(t *testing.T) {
	cfg := DefaultConfig()
	summer := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		tags []Season
		now  time.Time
		want bool
	}{
		{"untagged", nil, winterNow, false},
		{"in season", []Season{SeasonWinter}, winterNow, false},
		{"one of several", []Season{SeasonAutumn, SeasonWinter}, winterNow, false},
		{"out of season", []Season{SeasonSummer}, winterNow, true},
		{"summer item in summer", []Season{SeasonSummer}, summer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := neverUsedRow(1, 400)
			row.SeasonTags = tt.tags
			_, got := seasonFactor(row, SeasonOf(tt.now), cfg)
			if got != tt.want {
				t.Errorf("seasonFactor applied = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_LadderBuckets(t *testing.T) {
	cfg := DefaultConfig()

	tenure := []struct{ days, want int }{
		{0, 0}, {89, 0}, {90, 1}, {179, 1}, {180, 2}, {364, 2}, {365, 3}, {2000, 3},
	}
	for _, tt := range tenure {
		entry, ok := tenureFactor(neverUsedRow(1, tt.days), cfg)
		if ok != (tt.want != 0) || entry.Point != tt.want {
			t.Errorf("tenure(%d) = %d, want %d", tt.days, entry.Point, tt.want)
		}
	}

	recency := []struct{ days, want int }{
		{0, 0}, {89, 0}, {90, 1}, {180, 3}, {364, 3}, {365, 5}, {1000, 5},
	}
	for _, tt := range recency {
		entry, _ := recencyFactor(usedRow(1, 2000, tt.days, 1, winterNow), cfg)
		if entry.Point != tt.want {
			t.Errorf("recency(%d) = %d, want %d", tt.days, entry.Point, tt.want)
		}
	}

	frequency := []struct {
		rate float64
		want int
	}{
		{0, 3}, {0.19, 3}, {0.2, 2}, {0.49, 2}, {0.5, 1}, {0.99, 1}, {1, 0}, {12, 0},
	}
	for _, tt := range frequency {
		row := neverUsedRow(1, 400)
		row.MonthlyUsageRate = tt.rate
		entry, _ := frequencyFactor(row, cfg)
		if entry.Point != tt.want {
			t.Errorf("frequency(%g) = %d, want %d", tt.rate, entry.Point, tt.want)
		}
	}
}

func TestScore_LadderOrderIndependent(t *testing.T) {
	cfg := DefaultConfig()
	reversed := DefaultConfig()
	reversed.Tenure = []Rung{cfg.Tenure[2], cfg.Tenure[0], cfg.Tenure[1]}
	reversed.Frequency = []RateRung{cfg.Frequency[2], cfg.Frequency[1], cfg.Frequency[0]}

	row := usedRow(1, 200, 100, 0.3, winterNow)
	a, _ := Score(row, winterNow, cfg)
	b, _ := Score(row, winterNow, reversed)
	if a != b {
		t.Errorf("rung order changed the score: %d vs %d", a, b)
	}
}

func TestScore_SumOfBreakdown(t *testing.T) {
	cfg := DefaultConfig()
	seasons := [][]Season{nil, {SeasonSummer}, {SeasonWinter, SeasonSpring}}

	for _, created := range []int{30, 95, 200, 400} {
		for _, last := range []int{-1, 0, 100, 200, 400} {
			for _, rate := range []float64{0, 0.3, 0.7, 3} {
				for _, tags := range seasons {
					row := neverUsedRow(1, created)
					if last >= 0 {
						row = usedRow(1, created, last, rate, winterNow)
					}
					row.SeasonTags = tags

					score, breakdown := Score(row, winterNow, cfg)
					if score != sumPoints(breakdown) {
						t.Fatalf("score %d != sum of breakdown %d for %+v", score, sumPoints(breakdown), row)
					}
				}
			}
		}
	}
}

func TestScore_MonotonicRecency(t *testing.T) {
	cfg := DefaultConfig()
	prev := -1 << 31
	for days := 0; days <= 800; days++ {
		score, _ := Score(usedRow(1, 900, days, 0.3, winterNow), winterNow, cfg)
		if score < prev {
			t.Fatalf("score decreased from %d to %d at %d days since last use", prev, score, days)
		}
		prev = score
	}
}

func TestScore_NotClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Season.Deduction = 10

	row := usedRow(1, 40, 1, 5, winterNow)
	row.SeasonTags = []Season{SeasonSummer}

	score, _ := Score(row, winterNow, cfg)
	if score != -10 {
		t.Errorf("expected unclamped score -10, got %d", score)
	}
}

func TestSeasonOf(t *testing.T) {
	want := map[time.Month]Season{
		time.December: SeasonWinter, time.January: SeasonWinter, time.February: SeasonWinter,
		time.March: SeasonSpring, time.April: SeasonSpring, time.May: SeasonSpring,
		time.June: SeasonSummer, time.July: SeasonSummer, time.August: SeasonSummer,
		time.September: SeasonAutumn, time.October: SeasonAutumn, time.November: SeasonAutumn,
	}
	for month, season := range want {
		if got := SeasonOf(time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC)); got != season {
			t.Errorf("SeasonOf(%s) = %s, want %s", month, got, season)
		}
	}
}
