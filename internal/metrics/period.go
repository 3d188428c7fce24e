package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period selects the trade window for metric calculation.
type Period string

// Supported periods.
const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ErrUnknownPeriod is returned by ParsePeriod for unsupported values.
var ErrUnknownPeriod = errors.New("unknown period")

// Periods lists every supported period in report order.
func Periods() []Period {
	return []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodAll}
}

// ParsePeriod parses a period name. Empty input means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Window returns the inclusive lower bound of the period relative to now.
// today starts at local midnight of now; week and month are rolling 7 and 30 days.
// PeriodAll returns the zero time, meaning no lower bound.
func Window(p Period, now time.Time) time.Time {
	switch p {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}
