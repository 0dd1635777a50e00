package analyzer

import "time"

// Season is a season label as stored in an item's season tags.
type Season string

const (
	SeasonSpring Season = "春"
	SeasonSummer Season = "夏"
	SeasonAutumn Season = "秋"
	SeasonWinter Season = "冬"
)

// IsValid reports whether s is one of the four season labels.
func (s Season) IsValid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter:
		return true
	}
	return false
}

// SeasonOf returns the season of the calendar month of t, in t's location.
// Dec–Feb is winter, Mar–May spring, Jun–Aug summer, Sep–Nov autumn.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

func hasSeason(tags []Season, s Season) bool {
	for _, tag := range tags {
		if tag == s {
			return true
		}
	}
	return false
}
