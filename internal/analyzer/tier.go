package analyzer

// Classify maps a score to the highest tier whose threshold it reaches.
// ok is false when the score is below the review threshold; such items are
// not reported.
func Classify(score int, cfg Config) (Tier, string, bool) {
	switch {
	case score >= cfg.Tiers.Strong.Threshold:
		return TierStrong, cfg.Tiers.Strong.Label, true
	case score >= cfg.Tiers.Review.Threshold:
		return TierReview, cfg.Tiers.Review.Label, true
	default:
		return TierNone, "", false
	}
}
