package timefilter_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

// at returns a timestamp in the week of Monday 2026-10-19.
func at(day time.Weekday, hhmm string) time.Time {
	clock, err := time.Parse("15:04", hhmm)
	Expect(err).NotTo(HaveOccurred())
	offset := (int(day) + 6) % 7 // Monday=0 .. Sunday=6
	return time.Date(2026, time.October, 19+offset, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

var allDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var _ = Describe("TimeFilter", func() {
	It("anchors the fixture week on a Monday", func() {
		Expect(at(time.Monday, "00:00").Weekday()).To(Equal(time.Monday))
		Expect(at(time.Sunday, "00:00").Weekday()).To(Equal(time.Sunday))
	})

	Describe("zero value", func() {
		It("matches every timestamp", func() {
			var f timefilter.TimeFilter
			Expect(f.Unconstrained()).To(BeTrue())
			for _, d := range allDays {
				Expect(f.Matches(at(d, "03:17"))).To(BeTrue())
			}
		})
	})

	Describe("polarity inversion", func() {
		It("includes only the listed weekday", func() {
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.Weekdays(time.Monday)}
			for _, d := range allDays {
				Expect(f.Matches(at(d, "10:00"))).To(Equal(d == time.Monday), d.String())
			}
		})

		It("excludes only the listed weekday", func() {
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.ExcludeWeekdays(time.Monday)}
			for _, d := range allDays {
				Expect(f.Matches(at(d, "10:00"))).To(Equal(d != time.Monday), d.String())
			}
		})
	})

	Describe("empty set is not absent", func() {
		It("rejects everything when the weekday set is present but empty", func() {
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.Weekdays()}
			for _, d := range allDays {
				Expect(f.Matches(at(d, "12:00"))).To(BeFalse())
			}
		})

		It("accepts everything when the weekday set is present, empty and excluded", func() {
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.ExcludeWeekdays()}
			for _, d := range allDays {
				Expect(f.Matches(at(d, "12:00"))).To(BeTrue())
			}
		})

		It("rejects everything when the time range list is present but empty", func() {
			f := timefilter.TimeFilter{TimeRanges: &timefilter.Ranges{}}
			Expect(f.Matches(at(time.Wednesday, "12:00"))).To(BeFalse())
		})

		It("rejects everything for an empty years set", func() {
			f := timefilter.TimeFilter{Years: &timefilter.Set[int]{}}
			Expect(f.Matches(at(time.Wednesday, "12:00"))).To(BeFalse())
		})
	})

	Describe("time ranges", func() {
		f := timefilter.TimeFilter{TimeRanges: timefilter.Between("08:00", "12:00", "14:00", "18:00")}

		It("ORs disjoint ranges", func() {
			Expect(f.Matches(at(time.Tuesday, "10:00"))).To(BeTrue())
			Expect(f.Matches(at(time.Tuesday, "15:00"))).To(BeTrue())
			Expect(f.Matches(at(time.Tuesday, "13:00"))).To(BeFalse())
		})

		It("is inclusive on both ends", func() {
			Expect(f.Matches(at(time.Tuesday, "08:00"))).To(BeTrue())
			Expect(f.Matches(at(time.Tuesday, "12:00"))).To(BeTrue())
			Expect(f.Matches(at(time.Tuesday, "07:59"))).To(BeFalse())
			Expect(f.Matches(at(time.Tuesday, "12:01"))).To(BeFalse())
		})

		It("ignores seconds within the boundary minute", func() {
			ts := at(time.Tuesday, "12:00").Add(59 * time.Second)
			Expect(f.Matches(ts)).To(BeTrue())
		})

		It("accepts overlapping and unordered ranges", func() {
			g := timefilter.TimeFilter{TimeRanges: timefilter.Between("14:00", "18:00", "09:00", "15:00")}
			Expect(g.Matches(at(time.Friday, "14:30"))).To(BeTrue())
			Expect(g.Matches(at(time.Friday, "09:00"))).To(BeTrue())
			Expect(g.Matches(at(time.Friday, "18:01"))).To(BeFalse())
		})

		It("inverts with exclude", func() {
			g := timefilter.TimeFilter{TimeRanges: &timefilter.Ranges{
				Values:  []timefilter.MinuteRange{timefilter.MustRange("12:00-13:00")},
				Exclude: true,
			}}
			Expect(g.Matches(at(time.Friday, "12:30"))).To(BeFalse())
			Expect(g.Matches(at(time.Friday, "13:01"))).To(BeTrue())
		})
	})

	Describe("calendar dimensions", func() {
		It("ANDs all present dimensions", func() {
			f := timefilter.TimeFilter{
				Years:       &timefilter.Set[int]{Values: []int{2026}},
				Months:      &timefilter.Set[time.Month]{Values: []time.Month{time.October}},
				DaysOfMonth: &timefilter.Set[int]{Values: []int{25}, Exclude: true},
				DaysOfWeek:  timefilter.ExcludeWeekdays(time.Saturday),
			}
			Expect(f.Matches(at(time.Monday, "09:00"))).To(BeTrue())
			Expect(f.Matches(at(time.Saturday, "09:00"))).To(BeFalse())
			Expect(f.Matches(at(time.Sunday, "09:00"))).To(BeFalse(), "the 25th is excluded")
			Expect(f.Matches(at(time.Monday, "09:00").AddDate(1, 0, 0))).To(BeFalse())
		})

		It("reads calendar fields in the timestamp's location", func() {
			tokyo := time.FixedZone("JST", 9*60*60)
			// Sunday 20:00 UTC is Monday 05:00 in Tokyo.
			ts := at(time.Sunday, "20:00")
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.Weekdays(time.Monday)}
			Expect(f.Matches(ts)).To(BeFalse())
			Expect(f.Matches(ts.In(tokyo))).To(BeTrue())
		})
	})

	Describe("Explain", func() {
		office := timefilter.TimeFilter{
			DaysOfWeek: timefilter.WorkWeek(),
			TimeRanges: timefilter.Between("08:00", "12:00", "14:00", "18:00"),
		}

		It("reports the weekday before the time of day", func() {
			Expect(office.Explain(at(time.Saturday, "13:00"))).To(Equal(
				"access not allowed on SATURDAY (allowed days: MONDAY, TUESDAY, WEDNESDAY, THURSDAY, FRIDAY)"))
		})

		It("reports the offending time and the allowed ranges", func() {
			Expect(office.Explain(at(time.Wednesday, "13:00"))).To(Equal(
				"access not allowed at 13:00 (allowed hours: 08:00-12:00, 14:00-18:00)"))
		})

		It("labels excluded sets", func() {
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.ExcludeWeekdays(time.Sunday)}
			Expect(f.Explain(at(time.Sunday, "10:00"))).To(Equal(
				"access not allowed on SUNDAY (excluded days: SUNDAY)"))
		})

		It("reports an empty set as none", func() {
			f := timefilter.TimeFilter{DaysOfWeek: timefilter.Weekdays()}
			Expect(f.Explain(at(time.Monday, "10:00"))).To(Equal(
				"access not allowed on MONDAY (allowed days: none)"))
		})

		It("falls back to the generic message for other dimensions", func() {
			f := timefilter.TimeFilter{Months: &timefilter.Set[time.Month]{Values: []time.Month{time.January}}}
			Expect(f.Explain(at(time.Monday, "10:00"))).To(Equal(timefilter.GenericDenial))
		})
	})

	Describe("Spec", func() {
		It("compiles textual values", func() {
			spec := timefilter.Spec{
				Years:      &timefilter.Dimension{Values: []string{"2026"}},
				Months:     &timefilter.Dimension{Values: []string{"oct", "NOVEMBER", "12"}},
				DaysOfWeek: &timefilter.Dimension{Values: []string{"mon", "Friday"}, Exclude: true},
				TimeRanges: &timefilter.Dimension{Values: []string{"8:00-12:00"}},
			}
			f, err := spec.Compile()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Months.Values).To(Equal([]time.Month{time.October, time.November, time.December}))
			Expect(f.DaysOfWeek.Values).To(Equal([]time.Weekday{time.Monday, time.Friday}))
			Expect(f.DaysOfWeek.Exclude).To(BeTrue())
			Expect(f.TimeRanges.Values).To(Equal([]timefilter.MinuteRange{{Start: 480, End: 720}}))
			Expect(f.DaysOfMonth).To(BeNil())
		})

		It("reports every malformed dimension", func() {
			_, err := timefilter.Spec{
				Months:     &timefilter.Dimension{Values: []string{"Smarch"}},
				TimeRanges: &timefilter.Dimension{Values: []string{"25:00-26:00"}},
			}.Compile()
			Expect(err).To(MatchError(ContainSubstring("months")))
			Expect(err).To(MatchError(ContainSubstring("time_ranges")))
		})

		It("rejects a range that crosses midnight", func() {
			_, err := timefilter.Spec{
				TimeRanges: &timefilter.Dimension{Values: []string{"08:00-12:00", "22:00-06:00"}},
			}.Compile()
			Expect(err).To(MatchError(ContainSubstring(`"22:00-06:00"`)))
			Expect(err).To(MatchError(ContainSubstring("start is after end")))

			_, err = timefilter.ParseRange("12:00-12:00")
			Expect(err).NotTo(HaveOccurred())
		})

		It("clones without sharing constraint values", func() {
			orig := timefilter.TimeFilter{
				DaysOfWeek: timefilter.Weekdays(time.Monday),
				TimeRanges: timefilter.Between("08:00", "12:00"),
				Months:     &timefilter.Set[time.Month]{},
			}
			cp := orig.Clone()
			orig.DaysOfWeek.Values[0] = time.Sunday
			orig.TimeRanges.Values[0] = timefilter.MustRange("13:00-14:00")

			Expect(cp.DaysOfWeek.Values).To(Equal([]time.Weekday{time.Monday}))
			Expect(cp.TimeRanges.Values).To(Equal([]timefilter.MinuteRange{{Start: 480, End: 720}}))
			Expect(cp.Months).NotTo(BeNil())
			Expect(cp.Years).To(BeNil())
		})

		It("preserves present-empty through JSON", func() {
			in := timefilter.TimeFilter{DaysOfWeek: timefilter.Weekdays()}
			raw, err := json.Marshal(in.Spec())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal(`{"days_of_week":{"values":[]}}`))

			var spec timefilter.Spec
			Expect(json.Unmarshal(raw, &spec)).To(Succeed())
			out, err := spec.Compile()
			Expect(err).NotTo(HaveOccurred())
			Expect(out.DaysOfWeek).NotTo(BeNil())
			Expect(out.DaysOfWeek.Values).To(BeEmpty())
			Expect(out.TimeRanges).To(BeNil())
		})

		It("distinguishes absent from empty in YAML", func() {
			doc := "days_of_week: {}\ntime_ranges:\n"
			var spec timefilter.Spec
			Expect(yaml.Unmarshal([]byte(doc), &spec)).To(Succeed())
			f, err := spec.Compile()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.DaysOfWeek).NotTo(BeNil())
			Expect(f.TimeRanges).To(BeNil())
			Expect(f.Matches(at(time.Monday, "10:00"))).To(BeFalse())
		})
	})
})
