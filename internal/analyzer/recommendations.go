package analyzer

// Summary aggregates a candidate list for status displays.
type Summary struct {
	Total  int
	Strong int
	Review int
	// Top holds the names of the strong candidates, highest score first.
	Top []string
}

// Summarize counts results per tier. results are expected in the order
// returned by Candidates.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), Top: []string{}}
	for _, r := range results {
		switch r.Tier {
		case TierStrong:
			s.Strong++
			s.Top = append(s.Top, r.Name)
		case TierReview:
			s.Review++
		}
	}
	return s
}

// FilterByTier returns the results at the given tier. TierNone returns all
// results.
func FilterByTier(results []Result, tier Tier) []Result {
	if tier == TierNone || tier == "" {
		return results
	}
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Tier == tier {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
