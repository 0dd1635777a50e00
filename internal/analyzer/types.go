package analyzer

import "time"

// Status is the lifecycle status of a wardrobe item.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusDiscard Status = "discard"
	StatusDeleted Status = "deleted"
)

// IsValid reports whether s is a known lifecycle status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusDiscard, StatusDeleted:
		return true
	}
	return false
}

// Tier is the recommendation strength attached to a candidate.
type Tier string

const (
	TierNone   Tier = "none"
	TierReview Tier = "review"
	TierStrong Tier = "strong"
)

// ItemUsageSummary is one pre-aggregated usage row for an item owned by a user.
// Rows are produced fresh per request by the SummaryProvider.
type ItemUsageSummary struct {
	ItemID           int64
	Name             string
	IsFavorite       bool
	Status           Status
	StatusUpdatedAt  *time.Time // nil if the status never transitioned
	SeasonTags       []Season
	UsageCount       int
	LastUsedDate     *time.Time // nil = never used
	DaysSinceCreated int
	DaysSinceLastUse *int // nil iff LastUsedDate is nil
	MonthlyUsageRate float64
}

// ScoreEntry is one (reason, point) contribution to a declutter score.
// Point is negative for deductions.
type ScoreEntry struct {
	Reason string `json:"reason"`
	Point  int    `json:"point"`
}

// Stats is the usage snapshot reported alongside a result.
type Stats struct {
	UsageCount       int
	LastUsedDate     *time.Time
	DaysSinceCreated int
	DaysSinceLastUse *int
	MonthlyUsageRate float64
}

// Result is a declutter candidate. Results are never persisted.
type Result struct {
	ItemID    int64
	Name      string
	Score     int
	Tier      Tier
	TierLabel string
	Breakdown []ScoreEntry
	Stats     Stats
}

// Explanation describes how a single item was treated by the engine,
// including items that were excluded or scored below the review threshold.
type Explanation struct {
	Item      ItemUsageSummary
	Season    Season
	Excluded  bool
	Exclusion Exclusion
	Score     int
	Breakdown []ScoreEntry
	Tier      Tier
	TierLabel string
}

func statsOf(row ItemUsageSummary) Stats {
	return Stats{
		UsageCount:       row.UsageCount,
		LastUsedDate:     row.LastUsedDate,
		DaysSinceCreated: row.DaysSinceCreated,
		DaysSinceLastUse: row.DaysSinceLastUse,
		MonthlyUsageRate: row.MonthlyUsageRate,
	}
}
