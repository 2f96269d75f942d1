package timefilter

import (
	"fmt"
	"strings"
	"time"
)

// GenericDenial is reported when neither the weekday nor the time-of-day
// dimension explains a rejection.
const GenericDenial = "time filter does not allow access"

// Explain describes why f rejects t. The weekday dimension is inspected
// first, then time ranges; any other failing dimension yields GenericDenial.
// Explain does not check whether f actually rejects t.
func (f TimeFilter) Explain(t time.Time) string {
	if f.DaysOfWeek != nil && !f.DaysOfWeek.admits(t.Weekday()) {
		label := "allowed days"
		if f.DaysOfWeek.Exclude {
			label = "excluded days"
		}
		return fmt.Sprintf("access not allowed on %s (%s: %s)",
			WeekdayName(t.Weekday()), label, joinWeekdays(f.DaysOfWeek.Values))
	}

	minute := MinuteOfDay(t)
	if f.TimeRanges != nil && !f.TimeRanges.admits(minute) {
		label := "allowed hours"
		if f.TimeRanges.Exclude {
			label = "excluded hours"
		}
		return fmt.Sprintf("access not allowed at %s (%s: %s)",
			formatMinute(minute), label, joinRanges(f.TimeRanges.Values))
	}

	return GenericDenial
}

// WeekdayName returns the upper-case English name of d, e.g. MONDAY.
func WeekdayName(d time.Weekday) string {
	return strings.ToUpper(d.String())
}

func joinWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = WeekdayName(d)
	}
	return strings.Join(names, ", ")
}

func joinRanges(ranges []MinuteRange) string {
	if len(ranges) == 0 {
		return "none"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
