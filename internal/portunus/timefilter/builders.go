package timefilter

import "time"

// Weekdays returns an include constraint over days. Called with no
// arguments it returns a present-empty constraint.
func Weekdays(days ...time.Weekday) *Set[time.Weekday] {
	return &Set[time.Weekday]{Values: append([]time.Weekday{}, days...)}
}

// ExcludeWeekdays returns an exclude constraint over days.
func ExcludeWeekdays(days ...time.Weekday) *Set[time.Weekday] {
	return &Set[time.Weekday]{Values: append([]time.Weekday{}, days...), Exclude: true}
}

// WorkWeek is Monday through Friday.
func WorkWeek() *Set[time.Weekday] {
	return Weekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// Between returns an include constraint with one range per pair of
// "HH:MM" arguments. It panics on malformed input.
func Between(bounds ...string) *Ranges {
	if len(bounds)%2 != 0 {
		panic("timefilter: Between needs start/end pairs")
	}
	r := &Ranges{Values: make([]MinuteRange, 0, len(bounds)/2)}
	for i := 0; i < len(bounds); i += 2 {
		r.Values = append(r.Values, MustRange(bounds[i]+"-"+bounds[i+1]))
	}
	return r
}

// MustRange is ParseRange for fixtures; it panics on error.
func MustRange(s string) MinuteRange {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}
