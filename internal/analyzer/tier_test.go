package analyzer

import "testing"

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		score int
		tier  Tier
		label string
		ok    bool
	}{
		{-3, TierNone, "", false},
		{6, TierNone, "", false},
		{7, TierReview, "candidate for review", true},
		{8, TierReview, "candidate for review", true},
		{9, TierStrong, "strong candidate", true},
		{15, TierStrong, "strong candidate", true},
	}

	for _, tt := range tests {
		tier, label, ok := Classify(tt.score, cfg)
		if tier != tt.tier || label != tt.label || ok != tt.ok {
			t.Errorf("Classify(%d) = (%q, %q, %v), want (%q, %q, %v)",
				tt.score, tier, label, ok, tt.tier, tt.label, tt.ok)
		}
	}
}

func TestClassify_Monotonic(t *testing.T) {
	cfg := DefaultConfig()
	for score := -20; score <= 30; score++ {
		tier, _, _ := Classify(score, cfg)
		if tier == TierStrong && !(score >= cfg.Tiers.Strong.Threshold && cfg.Tiers.Strong.Threshold >= cfg.Tiers.Review.Threshold) {
			t.Errorf("score %d classified strong below thresholds", score)
		}
		if tier == TierReview && score >= cfg.Tiers.Strong.Threshold {
			t.Errorf("score %d reported as review instead of strong", score)
		}
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers.Strong = TierRule{Threshold: 12, Label: "discard soon"}
	cfg.Tiers.Review = TierRule{Threshold: 5, Label: "think about it"}

	if tier, label, _ := Classify(10, cfg); tier != TierReview || label != "think about it" {
		t.Errorf("expected custom review tier, got %q %q", tier, label)
	}
	if tier, label, _ := Classify(12, cfg); tier != TierStrong || label != "discard soon" {
		t.Errorf("expected custom strong tier, got %q %q", tier, label)
	}
}
