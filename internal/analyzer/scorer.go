package analyzer

import "time"

// Score computes the declutter score of an eligible row and the ordered
// breakdown of the contributions that produced it. The breakdown is always
// in factor order: tenure, recency, frequency, season. The score is the sum
// of the breakdown points and is not clamped.
func Score(row ItemUsageSummary, now time.Time, cfg Config) (int, []ScoreEntry) {
	factors := []func() (ScoreEntry, bool){
		func() (ScoreEntry, bool) { return tenureFactor(row, cfg) },
		func() (ScoreEntry, bool) { return recencyFactor(row, cfg) },
		func() (ScoreEntry, bool) { return frequencyFactor(row, cfg) },
		func() (ScoreEntry, bool) { return seasonFactor(row, SeasonOf(now), cfg) },
	}

	total := 0
	breakdown := make([]ScoreEntry, 0, len(factors))
	for _, factor := range factors {
		entry, ok := factor()
		if !ok {
			continue
		}
		total += entry.Point
		breakdown = append(breakdown, entry)
	}
	return total, breakdown
}

// tenureFactor scores how long ago the item was registered.
func tenureFactor(row ItemUsageSummary, cfg Config) (ScoreEntry, bool) {
	return matchAtLeast(cfg.Tenure, row.DaysSinceCreated)
}

// recencyFactor scores how long ago the item was last used. A never-used
// item gets the flat never-used contribution instead of the ladder.
func recencyFactor(row ItemUsageSummary, cfg Config) (ScoreEntry, bool) {
	if row.LastUsedDate == nil || row.DaysSinceLastUse == nil {
		if cfg.NeverUsed.Points == 0 {
			return ScoreEntry{}, false
		}
		return ScoreEntry{Reason: cfg.NeverUsed.Reason, Point: cfg.NeverUsed.Points}, true
	}
	return matchAtLeast(cfg.Recency, *row.DaysSinceLastUse)
}

// frequencyFactor scores the average monthly usage rate.
func frequencyFactor(row ItemUsageSummary, cfg Config) (ScoreEntry, bool) {
	return matchBelow(cfg.Frequency, row.MonthlyUsageRate)
}

// seasonFactor deducts points from seasonal items outside their season.
// Untagged items are not evaluated.
func seasonFactor(row ItemUsageSummary, current Season, cfg Config) (ScoreEntry, bool) {
	if len(row.SeasonTags) == 0 || hasSeason(row.SeasonTags, current) {
		return ScoreEntry{}, false
	}
	if cfg.Season.Deduction == 0 {
		return ScoreEntry{}, false
	}
	return ScoreEntry{Reason: cfg.Season.Reason, Point: -cfg.Season.Deduction}, true
}

// matchAtLeast returns the rung with the highest Min that value reaches.
func matchAtLeast(rungs []Rung, value int) (ScoreEntry, bool) {
	best := -1
	for i, r := range rungs {
		if value >= r.Min && (best < 0 || r.Min > rungs[best].Min) {
			best = i
		}
	}
	if best < 0 || rungs[best].Points == 0 {
		return ScoreEntry{}, false
	}
	return ScoreEntry{Reason: rungs[best].Reason, Point: rungs[best].Points}, true
}

// matchBelow returns the rung with the lowest Below that value is under.
func matchBelow(rungs []RateRung, value float64) (ScoreEntry, bool) {
	best := -1
	for i, r := range rungs {
		if value < r.Below && (best < 0 || r.Below < rungs[best].Below) {
			best = i
		}
	}
	if best < 0 || rungs[best].Points == 0 {
		return ScoreEntry{}, false
	}
	return ScoreEntry{Reason: rungs[best].Reason, Point: rungs[best].Points}, true
}
