package timefilter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dimension is the textual form of one constraint as it appears in policy
// documents and in the profile_rules.filter column.
type Dimension struct {
	Values  []string `json:"values" yaml:"values"`
	Exclude bool     `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Spec is the authoring form of a TimeFilter. A nil dimension is absent; a
// dimension with an empty values list is present-empty.
//
//	days_of_week: {values: [MONDAY, TUESDAY]}
//	time_ranges:  {values: ["08:00-12:00", "14:00-18:00"]}
type Spec struct {
	Years       *Dimension `json:"years,omitempty" yaml:"years,omitempty"`
	Months      *Dimension `json:"months,omitempty" yaml:"months,omitempty"`
	DaysOfMonth *Dimension `json:"days_of_month,omitempty" yaml:"days_of_month,omitempty"`
	DaysOfWeek  *Dimension `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty"`
	TimeRanges  *Dimension `json:"time_ranges,omitempty" yaml:"time_ranges,omitempty"`
}

// Compile parses every dimension of s. All parse failures are reported
// together.
func (s Spec) Compile() (TimeFilter, error) {
	var (
		f    TimeFilter
		errs []error
		err  error
	)

	if f.Years, err = compileSet(s.Years, parseYear); err != nil {
		errs = append(errs, fmt.Errorf("years: %w", err))
	}
	if f.Months, err = compileSet(s.Months, ParseMonth); err != nil {
		errs = append(errs, fmt.Errorf("months: %w", err))
	}
	if f.DaysOfMonth, err = compileSet(s.DaysOfMonth, parseDayOfMonth); err != nil {
		errs = append(errs, fmt.Errorf("days_of_month: %w", err))
	}
	if f.DaysOfWeek, err = compileSet(s.DaysOfWeek, ParseWeekday); err != nil {
		errs = append(errs, fmt.Errorf("days_of_week: %w", err))
	}
	if s.TimeRanges != nil {
		rs, err := compileSet(s.TimeRanges, ParseRange)
		if err != nil {
			errs = append(errs, fmt.Errorf("time_ranges: %w", err))
		} else {
			f.TimeRanges = &Ranges{Values: rs.Values, Exclude: rs.Exclude}
		}
	}

	if len(errs) > 0 {
		return TimeFilter{}, errors.Join(errs...)
	}
	return f, nil
}

// Spec returns the authoring form of f.
func (f TimeFilter) Spec() Spec {
	var s Spec
	s.Years = specOf(f.Years, strconv.Itoa)
	s.Months = specOf(f.Months, func(m time.Month) string { return strings.ToUpper(m.String()) })
	s.DaysOfMonth = specOf(f.DaysOfMonth, strconv.Itoa)
	s.DaysOfWeek = specOf(f.DaysOfWeek, WeekdayName)
	if f.TimeRanges != nil {
		s.TimeRanges = specOf(&Set[MinuteRange]{Values: f.TimeRanges.Values, Exclude: f.TimeRanges.Exclude},
			MinuteRange.String)
	}
	return s
}

// MustCompile is Compile for fixtures; it panics on error.
func (s Spec) MustCompile() TimeFilter {
	f, err := s.Compile()
	if err != nil {
		panic(err)
	}
	return f
}

func compileSet[T comparable](d *Dimension, parse func(string) (T, error)) (*Set[T], error) {
	if d == nil {
		return nil, nil
	}
	out := &Set[T]{Values: make([]T, 0, len(d.Values)), Exclude: d.Exclude}
	for _, raw := range d.Values {
		v, err := parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, v)
	}
	return out, nil
}

func specOf[T comparable](s *Set[T], format func(T) string) *Dimension {
	if s == nil {
		return nil
	}
	d := &Dimension{Values: make([]string, 0, len(s.Values)), Exclude: s.Exclude}
	for _, v := range s.Values {
		d.Values = append(d.Values, format(v))
	}
	return d
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}

func parseDayOfMonth(s string) (int, error) {
	d, err := strconv.Atoi(s)
	if err != nil || d < 1 || d > 31 {
		return 0, fmt.Errorf("invalid day of month %q", s)
	}
	return d, nil
}

// ParseMonth accepts full or three-letter English month names in any case,
// or a number 1..12.
func ParseMonth(s string) (time.Month, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid month %q", s)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day of week %q", s)
}

// ParseRange parses "HH:MM-HH:MM". The start must not be after the end.
func ParseRange(s string) (MinuteRange, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return MinuteRange{}, fmt.Errorf("invalid time range %q", s)
	}
	a, err := parseClock(strings.TrimSpace(start))
	if err != nil {
		return MinuteRange{}, fmt.Errorf("invalid time range %q: %w", s, err)
	}
	b, err := parseClock(strings.TrimSpace(end))
	if err != nil {
		return MinuteRange{}, fmt.Errorf("invalid time range %q: %w", s, err)
	}
	// Ranges do not wrap midnight; an inverted one could never match.
	if a > b {
		return MinuteRange{}, fmt.Errorf("invalid time range %q: start is after end (split ranges that cross midnight)", s)
	}
	return NewMinuteRange(a, b)
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
