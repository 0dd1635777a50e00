package api

import (
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

const dateLayout = "2006-01-02"

type scoreEntry struct {
	Reason string `json:"reason"`
	Point  int    `json:"point"`
}

type statsResponse struct {
	UsageCount       int     `json:"usage_count"`
	LastUsedDate     *string `json:"last_used_date"`
	DaysSinceCreated int     `json:"days_since_created"`
	DaysSinceLastUse *int    `json:"days_since_last_use"`
	MonthlyUsageRate float64 `json:"monthly_usage_rate"`
}

type candidateResponse struct {
	ItemID         int64         `json:"item_id"`
	Name           string        `json:"name"`
	DeclutterScore int           `json:"declutter_score"`
	Tier           analyzer.Tier `json:"tier"`
	TierLabel      string        `json:"tier_label"`
	ScoreBreakdown []scoreEntry  `json:"score_breakdown"`
	Stats          statsResponse `json:"stats"`
}

type explainResponse struct {
	ItemID          int64              `json:"item_id"`
	Name            string             `json:"name"`
	Status          analyzer.Status    `json:"status"`
	IsFavorite      bool               `json:"is_favorite"`
	CurrentSeason   analyzer.Season    `json:"current_season"`
	SeasonTags      []analyzer.Season  `json:"season_tag"`
	Eligible        bool               `json:"eligible"`
	Exclusion       analyzer.Exclusion `json:"exclusion,omitempty"`
	ExclusionReason string             `json:"exclusion_reason,omitempty"`
	DeclutterScore  int                `json:"declutter_score"`
	Tier            analyzer.Tier      `json:"tier"`
	TierLabel       string             `json:"tier_label"`
	ScoreBreakdown  []scoreEntry       `json:"score_breakdown"`
	Stats           statsResponse      `json:"stats"`
}

type actionRequest struct {
	ItemID int64  `json:"item_id"`
	Action string `json:"action"`
}

type usageRequest struct {
	ItemID int64  `json:"item_id" validate:"required,gt=0"`
	UsedAt string `json:"used_at" validate:"omitempty,datetime=2006-01-02"`
}

type usageResponse struct {
	Status      string `json:"status"`
	HistoryID   int64  `json:"history_id"`
	ItemID      int64  `json:"item_id"`
	UsedAt      string `json:"used_at"`
	Reactivated bool   `json:"reactivated"`
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func toScoreEntries(entries []analyzer.ScoreEntry) []scoreEntry {
	out := make([]scoreEntry, len(entries))
	for i, e := range entries {
		out[i] = scoreEntry{Reason: e.Reason, Point: e.Point}
	}
	return out
}

func toStats(s analyzer.Stats, loc *time.Location) statsResponse {
	resp := statsResponse{
		UsageCount:       s.UsageCount,
		DaysSinceCreated: s.DaysSinceCreated,
		DaysSinceLastUse: s.DaysSinceLastUse,
		MonthlyUsageRate: s.MonthlyUsageRate,
	}
	if s.LastUsedDate != nil {
		d := s.LastUsedDate.In(loc).Format(dateLayout)
		resp.LastUsedDate = &d
	}
	return resp
}

func toCandidate(r analyzer.Result, loc *time.Location) candidateResponse {
	return candidateResponse{
		ItemID:         r.ItemID,
		Name:           r.Name,
		DeclutterScore: r.Score,
		Tier:           r.Tier,
		TierLabel:      r.TierLabel,
		ScoreBreakdown: toScoreEntries(r.Breakdown),
		Stats:          toStats(r.Stats, loc),
	}
}

func toExplain(e *analyzer.Explanation, loc *time.Location) explainResponse {
	item := e.Item
	tags := item.SeasonTags
	if tags == nil {
		tags = []analyzer.Season{}
	}

	resp := explainResponse{
		ItemID:         item.ItemID,
		Name:           item.Name,
		Status:         item.Status,
		IsFavorite:     item.IsFavorite,
		CurrentSeason:  e.Season,
		SeasonTags:     tags,
		Eligible:       !e.Excluded,
		DeclutterScore: e.Score,
		Tier:           e.Tier,
		TierLabel:      e.TierLabel,
		ScoreBreakdown: toScoreEntries(e.Breakdown),
		Stats: toStats(analyzer.Stats{
			UsageCount:       item.UsageCount,
			LastUsedDate:     item.LastUsedDate,
			DaysSinceCreated: item.DaysSinceCreated,
			DaysSinceLastUse: item.DaysSinceLastUse,
			MonthlyUsageRate: item.MonthlyUsageRate,
		}, loc),
	}
	if e.Excluded {
		resp.Exclusion = e.Exclusion
		resp.ExclusionReason = e.Exclusion.Describe()
	}
	return resp
}
