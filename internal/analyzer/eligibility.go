package analyzer

import "time"

// Exclusion names the eligibility rule that removed a row from scoring.
type Exclusion string

const (
	NotExcluded            Exclusion = ""
	ExcludedTerminalStatus Exclusion = "terminal_status"
	ExcludedCooldown       Exclusion = "cooldown"
	ExcludedFavorite       Exclusion = "favorite"
	ExcludedTooNew         Exclusion = "too_new"
)

// Describe returns a human-readable sentence for the exclusion.
func (e Exclusion) Describe() string {
	switch e {
	case ExcludedTerminalStatus:
		return "already marked for discard or deleted"
	case ExcludedCooldown:
		return "kept for now; still inside the pending cooldown"
	case ExcludedFavorite:
		return "marked as favorite"
	case ExcludedTooNew:
		return "registered too recently"
	default:
		return "eligible"
	}
}

// CheckEligibility applies the eligibility rules in order and reports the
// first one that excludes the row. ok is true when the row may be scored.
//
// A pending row without a status timestamp is treated as past its cooldown.
func CheckEligibility(row ItemUsageSummary, now time.Time, cfg Config) (Exclusion, bool) {
	// 1. Terminal statuses never resurface
	if row.Status == StatusDiscard || row.Status == StatusDeleted {
		return ExcludedTerminalStatus, false
	}

	// 2. Deferred decisions wait out the cooldown
	if row.Status == StatusPending && row.StatusUpdatedAt != nil {
		if now.Sub(*row.StatusUpdatedAt) < cfg.Cooldown() {
			return ExcludedCooldown, false
		}
	}

	// 3. Favorites are protected regardless of score
	if row.IsFavorite {
		return ExcludedFavorite, false
	}

	// 4. New items are never flagged
	if row.DaysSinceCreated < cfg.MinimumTenureDays {
		return ExcludedTooNew, false
	}

	return NotExcluded, true
}

// Filter returns the subset of rows eligible for scoring, preserving input
// order. The input slice is not modified.
func Filter(rows []ItemUsageSummary, now time.Time, cfg Config) []ItemUsageSummary {
	eligible := make([]ItemUsageSummary, 0, len(rows))
	for _, row := range rows {
		if _, ok := CheckEligibility(row, now, cfg); ok {
			eligible = append(eligible, row)
		}
	}
	return eligible
}
