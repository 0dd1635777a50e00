// Package output renders closetprune data for the terminal.
//
// Tables use plain box-drawing rules and ANSI colours when stdout is a
// terminal and NO_COLOR is unset. Progress indicators are safe for
// concurrent use.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/store"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderCandidateTable renders declutter candidates in the order given.
func RenderCandidateTable(results []analyzer.Result, now time.Time) string {
	if len(results) == 0 {
		return "No declutter candidates. Nothing in your wardrobe looks forgotten.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-6s %-24s %-6s %-6s %-16s %-16s %s\n",
		"ID", "Item", "Score", "Uses", "Last Used", "Registered", "Tier"))
	sb.WriteString(strings.Repeat("─", 92))
	sb.WriteString("\n")

	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%-6d %s %-6d %-6d %-16s %-16s %s\n",
			r.ItemID,
			pad(truncate(r.Name, 24), 24),
			r.Score,
			r.Stats.UsageCount,
			formatLastUsed(r.Stats.LastUsedDate, now),
			formatDaysAgo(r.Stats.DaysSinceCreated),
			colorize(tierColor(r.Tier), formatTierLabel(r.Tier, r.TierLabel))))
	}

	return sb.String()
}

// RenderCandidateDetails renders every candidate with its score breakdown.
func RenderCandidateDetails(results []analyzer.Result, now time.Time) string {
	if len(results) == 0 {
		return "No declutter candidates.\n"
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("Item:  %s (#%d)\n", r.Name, r.ItemID))
		sb.WriteString(fmt.Sprintf("Score: %s (%s)\n",
			colorize(tierColor(r.Tier), fmt.Sprintf("%d", r.Score)), r.TierLabel))
		sb.WriteString(fmt.Sprintf("Usage: %s, last used %s, %.2f times a month\n",
			pluralize(r.Stats.UsageCount, "use"),
			formatLastUsed(r.Stats.LastUsedDate, now),
			r.Stats.MonthlyUsageRate))
		sb.WriteString("\nBreakdown:\n")
		writeBreakdown(&sb, r.Breakdown)
		sb.WriteString(strings.Repeat("─", 72))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderExplanation renders how a single item was treated by the engine.
func RenderExplanation(exp *analyzer.Explanation, now time.Time) string {
	item := exp.Item
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Item:        %s (#%d)\n", item.Name, item.ItemID))
	sb.WriteString(fmt.Sprintf("Status:      %s", item.Status))
	if item.StatusUpdatedAt != nil {
		sb.WriteString(fmt.Sprintf(" (since %s)", formatRelativeTime(*item.StatusUpdatedAt, now)))
	}
	sb.WriteString("\n")
	if item.IsFavorite {
		sb.WriteString("Favorite:    yes\n")
	}
	sb.WriteString(fmt.Sprintf("Seasons:     %s (now: %s)\n", formatSeasons(item.SeasonTags), exp.Season))
	sb.WriteString(fmt.Sprintf("Registered:  %s\n", formatDaysAgo(item.DaysSinceCreated)))
	sb.WriteString(fmt.Sprintf("Usage:       %s, last used %s (%s)\n",
		pluralize(item.UsageCount, "use"),
		formatLastUsed(item.LastUsedDate, now),
		analyzer.Frequency(item)))

	sb.WriteString("\n")
	if exp.Excluded {
		sb.WriteString(fmt.Sprintf("Not a candidate: %s.\n", exp.Exclusion.Describe()))
		return sb.String()
	}

	sb.WriteString("Breakdown:\n")
	writeBreakdown(&sb, exp.Breakdown)
	sb.WriteString(fmt.Sprintf("  %+3d  total\n", exp.Score))
	sb.WriteString("\n")

	if exp.Tier == analyzer.TierNone {
		sb.WriteString("Below the review threshold, not listed as a candidate.\n")
	} else {
		sb.WriteString(fmt.Sprintf("Tier: %s\n", colorize(tierColor(exp.Tier), exp.TierLabel)))
	}
	return sb.String()
}

func writeBreakdown(sb *strings.Builder, entries []analyzer.ScoreEntry) {
	if len(entries) == 0 {
		sb.WriteString("  (no factors matched)\n")
		return
	}
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("  %+3d  %s\n", e.Point, e.Reason))
	}
}

// RenderItemTable renders a user's items.
func RenderItemTable(items []*store.Item, now time.Time) string {
	if len(items) == 0 {
		return "No items found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-6s %-24s %-9s %-4s %-10s %s\n",
		"ID", "Item", "Status", "Fav", "Seasons", "Registered"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, item := range items {
		fav := ""
		if item.IsFavorite {
			fav = "★"
		}
		sb.WriteString(fmt.Sprintf("%-6d %s %-9s %s %s %s\n",
			item.ID,
			pad(truncate(item.Name, 24), 24),
			colorize(statusColor(item.Status), pad(string(item.Status), 9)),
			pad(fav, 4),
			pad(formatSeasons(item.SeasonTags), 10),
			formatRelativeTime(item.CreatedAt, now)))
	}

	return sb.String()
}

// RenderUsageHistory renders an item's usage events, newest first.
func RenderUsageHistory(events []*store.UsageEvent, now time.Time) string {
	if len(events) == 0 {
		return "No usage recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-8s %-12s %s\n", "ID", "Date", "When"))
	sb.WriteString(strings.Repeat("─", 40))
	sb.WriteString("\n")
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("%-8d %-12s %s\n",
			ev.ID,
			ev.UsedAt.In(now.Location()).Format("2006-01-02"),
			formatRelativeTime(ev.UsedAt, now)))
	}
	return sb.String()
}

// RenderTierSummary renders a one-line tier breakdown.
// Format: "STRONG: 3 items · REVIEW: 5 items"
func RenderTierSummary(sum analyzer.Summary) string {
	return fmt.Sprintf("%s: %s · %s: %s",
		colorize(colorRed, "STRONG"), pluralize(sum.Strong, "item"),
		colorize(colorYellow, "REVIEW"), pluralize(sum.Review, "item"))
}

// RenderStats renders the wardrobe overview printed by `closetprune stats`.
func RenderStats(st *store.Stats, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Items:        %s (%d favorite)\n", humanize.Comma(int64(st.Items)), st.Favorites))
	sb.WriteString(fmt.Sprintf("  active      %d\n", st.Active))
	sb.WriteString(fmt.Sprintf("  pending     %d\n", st.Pending))
	sb.WriteString(fmt.Sprintf("  discard     %d\n", st.Discard))
	sb.WriteString(fmt.Sprintf("  deleted     %d\n", st.Deleted))
	sb.WriteString(fmt.Sprintf("Usage events: %s\n", humanize.Comma(int64(st.UsageEvents))))
	if st.FirstUsage != nil && st.LastUsage != nil {
		sb.WriteString(fmt.Sprintf("Tracking:     %s to %s\n",
			formatRelativeTime(*st.FirstUsage, now), formatRelativeTime(*st.LastUsage, now)))
	}
	return sb.String()
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if d := now.Sub(t); d >= 0 && d < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func formatLastUsed(t *time.Time, now time.Time) string {
	if t == nil {
		return "never"
	}
	return formatRelativeTime(*t, now)
}

func formatDaysAgo(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

func formatSeasons(tags []analyzer.Season) string {
	if len(tags) == 0 {
		return "—"
	}
	parts := make([]string, len(tags))
	for i, s := range tags {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

// formatTierLabel returns the display label for a tier in the table.
func formatTierLabel(tier analyzer.Tier, label string) string {
	switch tier {
	case analyzer.TierStrong:
		return "✗ " + label
	case analyzer.TierReview:
		return "~ " + label
	default:
		return label
	}
}

func tierColor(tier analyzer.Tier) string {
	switch tier {
	case analyzer.TierStrong:
		return colorRed
	case analyzer.TierReview:
		return colorYellow
	default:
		return colorGray
	}
}

func statusColor(status analyzer.Status) string {
	switch status {
	case analyzer.StatusActive:
		return colorGreen
	case analyzer.StatusPending:
		return colorYellow
	case analyzer.StatusDiscard:
		return colorRed
	default:
		return colorGray
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// truncate shortens s to maxWidth terminal columns, adding "..." if truncated.
func truncate(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "...")
}

// pad right-pads s to width terminal columns. Wide characters in item
// names count as two columns.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
