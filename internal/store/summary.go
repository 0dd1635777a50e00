package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

// ListUsageSummaries returns one aggregated usage row per item owned by the
// user, ordered by item id. Day counts are calendar days in now's location.
// Items younger than minTenureDays are omitted.
//
// MonthlyUsageRate is usage_count divided by the item's age in 30-day
// months, with ages under one month counted as one month.
func (s *Store) ListUsageSummaries(ctx context.Context, userID string, minTenureDays int, now time.Time) ([]analyzer.ItemUsageSummary, error) {
	query := `
		SELECT i.item_id, i.name, i.is_favorite, i.status, i.status_updated_at,
		       i.season_tag, i.created_at, COUNT(u.history_id), MAX(u.used_at)
		FROM items i
		LEFT JOIN usage_history u ON u.item_id = i.item_id
		WHERE i.user_id = ?
		GROUP BY i.item_id
		ORDER BY i.item_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapErr("failed to query usage summaries", err)
	}
	defer rows.Close()

	var summaries []analyzer.ItemUsageSummary
	for rows.Next() {
		var row analyzer.ItemUsageSummary
		var status, tagsJSON, createdAt string
		var statusUpdatedAt, lastUsed sql.NullString

		err := rows.Scan(
			&row.ItemID,
			&row.Name,
			&row.IsFavorite,
			&status,
			&statusUpdatedAt,
			&tagsJSON,
			&createdAt,
			&row.UsageCount,
			&lastUsed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage summary: %w", err)
		}

		row.Status = analyzer.Status(status)
		if err := json.Unmarshal([]byte(tagsJSON), &row.SeasonTags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal season tags for item %d: %w", row.ItemID, err)
		}

		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for item %d: %w", row.ItemID, err)
		}
		row.DaysSinceCreated = daysBetween(created, now)
		if row.DaysSinceCreated < minTenureDays {
			continue
		}

		if row.StatusUpdatedAt, err = parseNullTime(statusUpdatedAt); err != nil {
			return nil, err
		}
		if row.LastUsedDate, err = parseNullTime(lastUsed); err != nil {
			return nil, err
		}
		if row.LastUsedDate != nil {
			days := daysBetween(*row.LastUsedDate, now)
			row.DaysSinceLastUse = &days
		}

		row.MonthlyUsageRate = monthlyRate(row.UsageCount, row.DaysSinceCreated)
		summaries = append(summaries, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage summaries: %w", err)
	}

	return summaries, nil
}

// daysBetween returns the number of calendar days from from to now in
// now's location, never negative.
func daysBetween(from, now time.Time) int {
	fy, fm, fd := from.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func monthlyRate(count, daysSinceCreated int) float64 {
	months := math.Max(float64(daysSinceCreated)/30, 1)
	return float64(count) / months
}
