// Package timefilter implements the temporal rule attached to a profile's
// resource group: five calendar and time-of-day constraints, each with its
// own include/exclude polarity, ANDed together.
//
// Every constraint has three states. A nil constraint is absent and never
// rejects. A constraint with no values is present-empty: with Exclude=false
// it rejects every timestamp, with Exclude=true it accepts every timestamp.
// Callers that mean "no restriction" must leave the constraint nil.
package timefilter

import (
	"fmt"
	"slices"
	"time"
)

// Set is a membership constraint over one calendar dimension.
type Set[T comparable] struct {
	Values  []T
	Exclude bool
}

// admits reports whether v passes the constraint after polarity.
func (s *Set[T]) admits(v T) bool {
	if s == nil {
		return true
	}
	return slices.Contains(s.Values, v) != s.Exclude
}

// MinuteRange is an inclusive range of minutes of the day, 0..1439.
type MinuteRange struct {
	Start int
	End   int
}

// NewMinuteRange validates start and end, given as minutes of the day.
func NewMinuteRange(start, end int) (MinuteRange, error) {
	if start < 0 || start >= minutesPerDay {
		return MinuteRange{}, fmt.Errorf("range start %d out of bounds", start)
	}
	if end < 0 || end >= minutesPerDay {
		return MinuteRange{}, fmt.Errorf("range end %d out of bounds", end)
	}
	return MinuteRange{Start: start, End: end}, nil
}

// Contains reports whether minute lies in [Start, End].
func (r MinuteRange) Contains(minute int) bool {
	return r.Start <= minute && minute <= r.End
}

func (r MinuteRange) String() string {
	return formatMinute(r.Start) + "-" + formatMinute(r.End)
}

// Ranges is the time-of-day constraint. Ranges are OR'd and never merged.
type Ranges struct {
	Values  []MinuteRange
	Exclude bool
}

func (r *Ranges) admits(minute int) bool {
	if r == nil {
		return true
	}
	hit := false
	for _, rg := range r.Values {
		if rg.Contains(minute) {
			hit = true
			break
		}
	}
	return hit != r.Exclude
}

// TimeFilter is the temporal predicate of a profile rule. The zero value
// matches every timestamp.
type TimeFilter struct {
	Years       *Set[int]
	Months      *Set[time.Month]
	DaysOfMonth *Set[int]
	DaysOfWeek  *Set[time.Weekday]
	TimeRanges  *Ranges
}

// Matches evaluates the filter at t. Calendar fields are read in t's own
// location; normalise t before calling if a site timezone applies.
func (f TimeFilter) Matches(t time.Time) bool {
	return f.Years.admits(t.Year()) &&
		f.Months.admits(t.Month()) &&
		f.DaysOfMonth.admits(t.Day()) &&
		f.DaysOfWeek.admits(t.Weekday()) &&
		f.TimeRanges.admits(MinuteOfDay(t))
}

// Unconstrained reports whether every dimension is absent.
func (f TimeFilter) Unconstrained() bool {
	return f.Years == nil && f.Months == nil && f.DaysOfMonth == nil &&
		f.DaysOfWeek == nil && f.TimeRanges == nil
}

const minutesPerDay = 24 * 60

// MinuteOfDay returns t's wall-clock minute of the day in t's location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (s *Set[T]) clone() *Set[T] {
	if s == nil {
		return nil
	}
	return &Set[T]{Values: slices.Clone(s.Values), Exclude: s.Exclude}
}

func (r *Ranges) clone() *Ranges {
	if r == nil {
		return nil
	}
	return &Ranges{Values: slices.Clone(r.Values), Exclude: r.Exclude}
}

// Clone returns a copy of f that shares no constraint with it. Absent
// constraints stay nil and present-empty ones stay present.
func (f TimeFilter) Clone() TimeFilter {
	return TimeFilter{
		Years:       f.Years.clone(),
		Months:      f.Months.clone(),
		DaysOfMonth: f.DaysOfMonth.clone(),
		DaysOfWeek:  f.DaysOfWeek.clone(),
		TimeRanges:  f.TimeRanges.clone(),
	}
}
