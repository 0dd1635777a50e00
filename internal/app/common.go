package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
	"github.com/blackwell-systems/closetprune/internal/logging"
	"github.com/blackwell-systems/closetprune/internal/store"
	"github.com/blackwell-systems/closetprune/internal/usage"
)

// getStore opens the configured database, creating it and its schema if
// needed.
func getStore() (*store.Store, error) {
	path := cfg.Database.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newAnalyzer(st *store.Store) *analyzer.Analyzer {
	return analyzer.New(st, cfg.Declutter)
}

func newRecorder(st *store.Store) *usage.Recorder {
	return usage.NewRecorder(st, lifecycle.NewMachine(st), logging.Logger())
}

// parseItemID parses an item id argument.
func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q: must be a positive integer", arg)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD date in loc. An empty value returns def.
func parseDate(value string, loc *time.Location, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", value)
	}
	return t, nil
}

var seasonAliases = map[string]analyzer.Season{
	"spring": analyzer.SeasonSpring,
	"summer": analyzer.SeasonSummer,
	"autumn": analyzer.SeasonAutumn,
	"fall":   analyzer.SeasonAutumn,
	"winter": analyzer.SeasonWinter,
}

// parseSeasons accepts season labels or their English names.
func parseSeasons(values []string) ([]analyzer.Season, error) {
	var seasons []analyzer.Season
	seen := make(map[analyzer.Season]bool)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		s := analyzer.Season(v)
		if alias, ok := seasonAliases[strings.ToLower(v)]; ok {
			s = alias
		}
		if !s.IsValid() {
			return nil, fmt.Errorf("invalid season %q: use spring, summer, autumn, winter or 春, 夏, 秋, 冬", v)
		}
		if !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}
	return seasons, nil
}

// describeError turns engine errors into messages for the terminal.
func describeError(itemID int64, err error) error {
	var (
		ve *lifecycle.ValidationError
		te *lifecycle.TransitionError
	)
	switch {
	case errors.Is(err, analyzer.ErrItemNotFound):
		return fmt.Errorf("item %d not found\nRun 'closetprune items list' to see your items", itemID)
	case errors.As(err, &ve):
		return errors.New(ve.Message)
	case errors.As(err, &te):
		return fmt.Errorf("item %d is %s: %q is not allowed", itemID, te.From, te.Action)
	}
	return err
}
