package analyzer

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"
)

// SummaryProvider supplies one pre-aggregated usage row per item owned by
// a user. Rows with DaysSinceCreated below minTenureDays may be omitted.
type SummaryProvider interface {
	ListUsageSummaries(ctx context.Context, userID string, minTenureDays int, now time.Time) ([]ItemUsageSummary, error)
}

// Observer is notified of every eligibility and tier decision made while
// computing candidates. It must be safe for concurrent use.
type Observer interface {
	Excluded(reason Exclusion)
	Emitted(tier Tier)
}

type nopObserver struct{}

type observerBox struct{ Observer }

func (nopObserver) Excluded(Exclusion) {}
func (nopObserver) Emitted(Tier)       {}

// Analyzer computes declutter candidates for a user from the rows returned
// by its provider.
type Analyzer struct {
	provider SummaryProvider
	observer atomic.Pointer[observerBox]
	cfg      atomic.Pointer[Config]
}

// New creates a new Analyzer reading from provider with the given rules.
func New(provider SummaryProvider, cfg Config) *Analyzer {
	a := &Analyzer{provider: provider}
	a.observer.Store(&observerBox{nopObserver{}})
	a.cfg.Store(&cfg)
	return a
}

// SetObserver installs o as the decision observer. A nil o disables
// observation. It may be called while Candidates runs; calls already in
// flight keep the observer they started with.
func (a *Analyzer) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	a.observer.Store(&observerBox{o})
}

// Config returns the rules currently in effect.
func (a *Analyzer) Config() Config {
	return *a.cfg.Load()
}

// SetConfig replaces the rules used by subsequent calls. Calls already in
// flight keep the rules they started with.
func (a *Analyzer) SetConfig(cfg Config) {
	a.cfg.Store(&cfg)
}

// Candidates returns the declutter candidates for userID as of now, sorted
// by score descending then item id ascending. If the provider fails no
// results are returned.
func (a *Analyzer) Candidates(ctx context.Context, userID string, now time.Time) ([]Result, error) {
	cfg := a.Config()
	observer := a.observer.Load()

	rows, err := a.provider.ListUsageSummaries(ctx, userID, cfg.MinimumTenureDays, now)
	if err != nil {
		return nil, &UpstreamError{Op: "list usage summaries", Err: err}
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		if reason, ok := CheckEligibility(row, now, cfg); !ok {
			observer.Excluded(reason)
			continue
		}

		score, breakdown := Score(row, now, cfg)
		tier, label, ok := Classify(score, cfg)
		if !ok {
			continue
		}
		observer.Emitted(tier)

		results = append(results, Result{
			ItemID:    row.ItemID,
			Name:      row.Name,
			Score:     score,
			Tier:      tier,
			TierLabel: label,
			Breakdown: breakdown,
			Stats:     statsOf(row),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ItemID < results[j].ItemID
	})

	return results, nil
}

// Explain reports how a single item is treated as of now: the rule that
// excludes it, or its score, breakdown and tier. Items scoring below the
// review threshold are explained with TierNone.
func (a *Analyzer) Explain(ctx context.Context, userID string, itemID int64, now time.Time) (*Explanation, error) {
	cfg := a.Config()

	rows, err := a.provider.ListUsageSummaries(ctx, userID, 0, now)
	if err != nil {
		return nil, &UpstreamError{Op: "list usage summaries", Err: err}
	}

	var row *ItemUsageSummary
	for i := range rows {
		if rows[i].ItemID == itemID {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
	}

	exp := &Explanation{
		Item:   *row,
		Season: SeasonOf(now),
		Tier:   TierNone,
	}

	if reason, ok := CheckEligibility(*row, now, cfg); !ok {
		exp.Excluded = true
		exp.Exclusion = reason
		return exp, nil
	}

	exp.Score, exp.Breakdown = Score(*row, now, cfg)
	if tier, label, ok := Classify(exp.Score, cfg); ok {
		exp.Tier = tier
		exp.TierLabel = label
	}

	return exp, nil
}
