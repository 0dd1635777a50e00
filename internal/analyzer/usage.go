package analyzer

// Frequency classifies a usage row for display: "never", "weekly",
// "monthly" or "rarely".
func Frequency(row ItemUsageSummary) string {
	if row.LastUsedDate == nil || row.UsageCount == 0 {
		return "never"
	}

	// Weekly: roughly once a week or more
	if row.MonthlyUsageRate >= 4 {
		return "weekly"
	}

	// Monthly: at least once a month
	if row.MonthlyUsageRate >= 1 {
		return "monthly"
	}

	return "rarely"
}
