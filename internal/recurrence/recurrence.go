// Package recurrence expands a declarative recurrence rule into the concrete
// occurrence times of an event. It is pure: no storage, no clocks.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wellkit/session-service/internal/models"
)

// ErrInvalidPattern is returned when a rule cannot produce instances
// (empty weekday set, interval below one day, malformed time of day).
var ErrInvalidPattern = errors.New("invalid recurrence pattern")

const (
	// DefaultHorizonDays bounds expansion of open-ended rules (no end date).
	DefaultHorizonDays = 180
	// MaxInstances is a hard cap on the number of generated occurrences.
	MaxInstances = 366
)

// Rule is the tagged recurrence variant attached to an event.
type Rule struct {
	Kind         models.RecurrenceKind
	Weekdays     []time.Weekday // weekly only
	IntervalDays int            // interval only
}

// FromEvent builds a Rule from the persisted event fields.
func FromEvent(e *models.Event) (Rule, error) {
	rule := Rule{Kind: e.Recurrence, IntervalDays: e.IntervalDays}
	if e.Recurrence == models.RecurrenceWeekly {
		days, err := ParseWeekdays(e.Weekdays)
		if err != nil {
			return Rule{}, err
		}
		rule.Weekdays = days
	}
	return rule, nil
}

// ParseWeekdays parses a comma-separated weekday list ("1,3,5") into
// time.Weekday values. Values outside 0..6 fail with ErrInvalidPattern.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty weekday set", ErrInvalidPattern)
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("%w: weekday %q out of range 0..6", ErrInvalidPattern, part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

// Expand returns the ordered, deduplicated occurrence times for rule within
// [startDate, endDate]. A nil endDate is bounded by DefaultHorizonDays past
// startDate; generation never exceeds MaxInstances occurrences. An endDate
// before startDate yields an empty sequence, not an error.
func Expand(rule Rule, timeOfDay string, startDate time.Time, endDate *time.Time) ([]time.Time, error) {
	clock, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: time of day %q", ErrInvalidPattern, timeOfDay)
	}

	end := startDate.AddDate(0, 0, DefaultHorizonDays)
	if endDate != nil {
		end = *endDate
	}
	if end.Before(startDate) {
		return nil, nil
	}

	switch rule.Kind {
	case models.RecurrenceSingle:
		return []time.Time{at(startDate, clock)}, nil

	case models.RecurrenceWeekly:
		if len(rule.Weekdays) == 0 {
			return nil, fmt.Errorf("%w: weekly rule requires at least one weekday", ErrInvalidPattern)
		}
		wanted := make(map[time.Weekday]bool, len(rule.Weekdays))
		for _, d := range rule.Weekdays {
			wanted[d] = true
		}
		var out []time.Time
		for day := startDate; !day.After(end) && len(out) < MaxInstances; day = day.AddDate(0, 0, 1) {
			if wanted[day.Weekday()] {
				out = append(out, at(day, clock))
			}
		}
		return out, nil

	case models.RecurrenceInterval:
		if rule.IntervalDays < 1 {
			return nil, fmt.Errorf("%w: interval must be at least one day", ErrInvalidPattern)
		}
		var out []time.Time
		for day := startDate; !day.After(end) && len(out) < MaxInstances; day = day.AddDate(0, 0, rule.IntervalDays) {
			out = append(out, at(day, clock))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unknown rule kind %q", ErrInvalidPattern, rule.Kind)
	}
}

// at anchors the clock time onto the given calendar day.
func at(day time.Time, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
