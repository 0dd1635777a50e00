package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Rung is one bucket of an "at least" ladder: it matches when the measured
// value is >= Min.
type Rung struct {
	Min    int    `koanf:"min" yaml:"min"`
	Points int    `koanf:"points" yaml:"points"`
	Reason string `koanf:"reason" yaml:"reason"`
}

// RateRung is one bucket of a "below" ladder: it matches when the measured
// rate is < Below.
type RateRung struct {
	Below  float64 `koanf:"below" yaml:"below"`
	Points int     `koanf:"points" yaml:"points"`
	Reason string  `koanf:"reason" yaml:"reason"`
}

// Flat is a rule with a fixed contribution.
type Flat struct {
	Points int    `koanf:"points" yaml:"points"`
	Reason string `koanf:"reason" yaml:"reason"`
}

// SeasonRule is the out-of-season deduction. Deduction is a positive amount
// subtracted from the score.
type SeasonRule struct {
	Deduction int    `koanf:"deduction" yaml:"deduction"`
	Reason    string `koanf:"reason" yaml:"reason"`
}

// TierRule is an inclusive lower bound on the score and the label shown for it.
type TierRule struct {
	Threshold int    `koanf:"threshold" yaml:"threshold"`
	Label     string `koanf:"label" yaml:"label"`
}

// TierConfig holds the two tier thresholds. Strong must be above Review.
type TierConfig struct {
	Strong TierRule `koanf:"strong" yaml:"strong"`
	Review TierRule `koanf:"review" yaml:"review"`
}

// Config holds every tunable of the eligibility filter, scorer and tier
// classifier. The zero value is not usable; start from DefaultConfig.
type Config struct {
	MinimumTenureDays   int        `koanf:"minimum_tenure_days" yaml:"minimum_tenure_days"`
	PendingCooldownDays int        `koanf:"pending_cooldown_days" yaml:"pending_cooldown_days"`
	Tenure              []Rung     `koanf:"tenure" yaml:"tenure"`
	NeverUsed           Flat       `koanf:"never_used" yaml:"never_used"`
	Recency             []Rung     `koanf:"recency" yaml:"recency"`
	Frequency           []RateRung `koanf:"frequency" yaml:"frequency"`
	Season              SeasonRule `koanf:"season" yaml:"season"`
	Tiers               TierConfig `koanf:"tiers" yaml:"tiers"`
}

// DefaultConfig returns the default declutter rules.
//
//   - Tenure (days since created): >=365 +3, >=180 +2, >=90 +1
//   - Recency: never used +4; days since last use >=365 +5, >=180 +3, >=90 +1
//   - Frequency (uses per month): <0.2 +3, <0.5 +2, <1 +1
//   - Season: -2 when the current season is not tagged
//   - Tiers: >=9 strong, >=7 review
func DefaultConfig() Config {
	return Config{
		MinimumTenureDays:   30,
		PendingCooldownDays: 30,
		Tenure: []Rung{
			{Min: 365, Points: 3, Reason: "registered over a year ago"},
			{Min: 180, Points: 2, Reason: "registered over six months ago"},
			{Min: 90, Points: 1, Reason: "registered over three months ago"},
		},
		NeverUsed: Flat{Points: 4, Reason: "never used"},
		Recency: []Rung{
			{Min: 365, Points: 5, Reason: "not used for over a year"},
			{Min: 180, Points: 3, Reason: "not used for over six months"},
			{Min: 90, Points: 1, Reason: "not used for over three months"},
		},
		Frequency: []RateRung{
			{Below: 0.2, Points: 3, Reason: "almost never used (under 0.2 times a month)"},
			{Below: 0.5, Points: 2, Reason: "rarely used (under 0.5 times a month)"},
			{Below: 1, Points: 1, Reason: "used less than once a month"},
		},
		Season: SeasonRule{Deduction: 2, Reason: "out of season, judgment deferred"},
		Tiers: TierConfig{
			Strong: TierRule{Threshold: 9, Label: "strong candidate"},
			Review: TierRule{Threshold: 7, Label: "candidate for review"},
		},
	}
}

// Cooldown returns the pending cooldown window as a duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.PendingCooldownDays) * 24 * time.Hour
}

// Validate checks that the rules are internally consistent. All problems
// are reported, joined into one error.
func (c Config) Validate() error {
	var errs []error

	if c.MinimumTenureDays < 0 {
		errs = append(errs, fmt.Errorf("minimum_tenure_days must be >= 0, got %d", c.MinimumTenureDays))
	}
	if c.PendingCooldownDays < 0 {
		errs = append(errs, fmt.Errorf("pending_cooldown_days must be >= 0, got %d", c.PendingCooldownDays))
	}

	errs = append(errs, validateRungs("tenure", c.Tenure)...)
	errs = append(errs, validateRungs("recency", c.Recency)...)

	for i, r := range c.Frequency {
		if r.Below <= 0 {
			errs = append(errs, fmt.Errorf("frequency[%d].below must be > 0, got %g", i, r.Below))
		}
		if r.Points < 0 {
			errs = append(errs, fmt.Errorf("frequency[%d].points must be >= 0, got %d", i, r.Points))
		}
		if r.Reason == "" {
			errs = append(errs, fmt.Errorf("frequency[%d].reason is required", i))
		}
	}
	errs = append(errs, validateRateMonotonic(c.Frequency)...)

	if c.NeverUsed.Points < 0 {
		errs = append(errs, fmt.Errorf("never_used.points must be >= 0, got %d", c.NeverUsed.Points))
	}
	if c.NeverUsed.Reason == "" {
		errs = append(errs, errors.New("never_used.reason is required"))
	}
	if c.Season.Deduction < 0 {
		errs = append(errs, fmt.Errorf("season.deduction must be >= 0, got %d", c.Season.Deduction))
	}
	if c.Season.Reason == "" {
		errs = append(errs, errors.New("season.reason is required"))
	}

	if c.Tiers.Strong.Threshold <= c.Tiers.Review.Threshold {
		errs = append(errs, fmt.Errorf("tiers.strong.threshold (%d) must be greater than tiers.review.threshold (%d)",
			c.Tiers.Strong.Threshold, c.Tiers.Review.Threshold))
	}
	if c.Tiers.Strong.Label == "" || c.Tiers.Review.Label == "" {
		errs = append(errs, errors.New("tier labels are required"))
	}

	return errors.Join(errs...)
}

func validateRungs(name string, rungs []Rung) []error {
	var errs []error
	for i, r := range rungs {
		if r.Min < 0 {
			errs = append(errs, fmt.Errorf("%s[%d].min must be >= 0, got %d", name, i, r.Min))
		}
		if r.Points < 0 {
			errs = append(errs, fmt.Errorf("%s[%d].points must be >= 0, got %d", name, i, r.Points))
		}
		if r.Reason == "" {
			errs = append(errs, fmt.Errorf("%s[%d].reason is required", name, i))
		}
	}
	return append(errs, validateMonotonic(name, rungs)...)
}

// validateMonotonic requires points to grow (or stay) as Min grows, so a
// larger day count never scores less.
func validateMonotonic(name string, rungs []Rung) []error {
	order := make([]int, len(rungs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rungs[order[a]].Min < rungs[order[b]].Min })

	var errs []error
	for k := 1; k < len(order); k++ {
		lo, hi := rungs[order[k-1]], rungs[order[k]]
		if hi.Points < lo.Points {
			errs = append(errs, fmt.Errorf("%s[%d].points (%d) must be >= %s[%d].points (%d) since its min is larger",
				name, order[k], hi.Points, name, order[k-1], lo.Points))
		}
	}
	return errs
}

// validateRateMonotonic requires points to shrink (or stay) as Below grows,
// so a higher usage rate never scores more.
func validateRateMonotonic(rungs []RateRung) []error {
	order := make([]int, len(rungs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rungs[order[a]].Below < rungs[order[b]].Below })

	var errs []error
	for k := 1; k < len(order); k++ {
		lo, hi := rungs[order[k-1]], rungs[order[k]]
		if hi.Points > lo.Points {
			errs = append(errs, fmt.Errorf("frequency[%d].points (%d) must be <= frequency[%d].points (%d) since its bound is larger",
				order[k], hi.Points, order[k-1], lo.Points))
		}
	}
	return errs
}
