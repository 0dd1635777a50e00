// Package seed fills a database with a plausible demo wardrobe so the
// declutter engine has something to rank.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/store"
)

// Store is the subset of the store the generator writes through.
type Store interface {
	InsertItem(ctx context.Context, item *store.Item) error
	InsertUsageEvent(ctx context.Context, userID string, itemID int64, usedAt time.Time) (int64, error)
}

// Options control what Generate produces.
type Options struct {
	UserID string
	Items  int
	// Seed makes the output reproducible. Zero picks a random seed.
	Seed int64
	Now  time.Time
	// MaxAgeDays bounds how long ago items were registered. Defaults to 730.
	MaxAgeDays int
}

// Report counts what Generate wrote.
type Report struct {
	Items       int
	UsageEvents int
	Favorites   int
	Pending     int
}

var garments = []string{
	"T-shirt", "shirt", "blouse", "sweater", "cardigan", "hoodie", "jacket",
	"coat", "parka", "jeans", "chinos", "skirt", "dress", "shorts", "scarf",
	"beanie", "sneakers", "boots", "sandals", "belt",
}

var materials = []string{"cotton", "linen", "wool", "denim", "silk", "fleece", "leather", "knit"}

var seasons = []analyzer.Season{
	analyzer.SeasonSpring, analyzer.SeasonSummer, analyzer.SeasonAutumn, analyzer.SeasonWinter,
}

// usage profiles, in uses per month
var profiles = []struct {
	weight int
	min    float64
	max    float64
}{
	{weight: 25, min: 0, max: 0}, // never worn
	{weight: 30, min: 0.05, max: 0.5},
	{weight: 30, min: 0.5, max: 2},
	{weight: 15, min: 2, max: 8},
}

// Generate writes opts.Items items with usage histories for opts.UserID.
// progress, if non-nil, is called once per item written.
func Generate(ctx context.Context, st Store, opts Options, progress func()) (Report, error) {
	if opts.UserID == "" {
		return Report{}, errors.New("user id is required")
	}
	if opts.Items <= 0 {
		return Report{}, fmt.Errorf("item count must be positive, got %d", opts.Items)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = 730
	}

	f := gofakeit.New(opts.Seed)
	var report Report

	for i := 0; i < opts.Items; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		item := newItem(f, opts)
		if err := st.InsertItem(ctx, item); err != nil {
			return report, fmt.Errorf("failed to insert item %d: %w", i+1, err)
		}
		report.Items++
		if item.IsFavorite {
			report.Favorites++
		}
		if item.Status == analyzer.StatusPending {
			report.Pending++
		}

		for _, usedAt := range usageDates(f, item.CreatedAt, opts.Now) {
			if _, err := st.InsertUsageEvent(ctx, opts.UserID, item.ID, usedAt); err != nil {
				return report, fmt.Errorf("failed to insert usage for item %d: %w", item.ID, err)
			}
			report.UsageEvents++
		}

		if progress != nil {
			progress()
		}
	}

	return report, nil
}

func newItem(f *gofakeit.Faker, opts Options) *store.Item {
	created := opts.Now.AddDate(0, 0, -f.Number(0, opts.MaxAgeDays))

	item := &store.Item{
		UserID:     opts.UserID,
		Name:       fmt.Sprintf("%s %s %s", f.Color(), f.RandomString(materials), f.RandomString(garments)),
		IsFavorite: f.Number(1, 100) <= 10,
		SeasonTags: seasonTags(f),
		CreatedAt:  created,
	}

	if f.Number(1, 100) <= 5 {
		changed := opts.Now.AddDate(0, 0, -f.Number(0, 60))
		if changed.Before(created) {
			changed = created
		}
		item.Status = analyzer.StatusPending
		item.StatusUpdatedAt = &changed
	}
	return item
}

// seasonTags leaves about a third of items untagged and gives the rest one
// or two seasons.
func seasonTags(f *gofakeit.Faker) []analyzer.Season {
	if f.Number(1, 3) == 1 {
		return nil
	}
	first := f.Number(0, len(seasons)-1)
	tags := []analyzer.Season{seasons[first]}
	if f.Bool() {
		tags = append(tags, seasons[(first+1)%len(seasons)])
	}
	return tags
}

// usageDates draws a usage history between created and now from a random
// usage profile. Dates are not sorted.
func usageDates(f *gofakeit.Faker, created, now time.Time) []time.Time {
	total := 0
	for _, p := range profiles {
		total += p.weight
	}
	pick := f.Number(1, total)
	profile := profiles[len(profiles)-1]
	for _, p := range profiles {
		if pick <= p.weight {
			profile = p
			break
		}
		pick -= p.weight
	}
	if profile.max == 0 {
		return nil
	}

	months := now.Sub(created).Hours() / 24 / 30
	if months <= 0 {
		return nil
	}
	n := int(f.Float64Range(profile.min, profile.max) * months)

	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, f.DateRange(created, now))
	}
	return dates
}
