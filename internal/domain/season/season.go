package season

import "time"

// FilterOverall is the lifetime leaderboard view with no date bounds.
const FilterOverall = "overall"

// Filter is one named slice of a season. Bounds are UTC and half-open on
// neither side; a zero bound means unbounded.
type Filter struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Season is an ordered set of filters for one year of play. Keeping the
// table as data rather than scattered key checks lets next season ship as
// a new value instead of a code edit.
type Season struct {
	Key     string
	Label   string
	Filters []Filter
}

// Contains reports whether t falls inside the filter's bounds.
func (f Filter) Contains(t time.Time) bool {
	if !f.Start.IsZero() && t.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && t.After(f.End) {
		return false
	}
	return true
}

// Bounded reports whether the filter restricts by date at all.
func (f Filter) Bounded() bool {
	return !f.Start.IsZero() || !f.End.IsZero()
}

// Lookup returns the filter with the given key.
func (s Season) Lookup(key string) (Filter, bool) {
	for _, f := range s.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter{}, false
}

func mustParse(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic("season: parse bound: " + err.Error())
	}
	return t
}

func weekFilter(key, label, start, end string) Filter {
	return Filter{Key: key, Label: label, Start: mustParse(start), End: mustParse(end)}
}

// Current returns the season table the service runs with.
func Current() Season {
	return season2025
}

// Football 2025: weeks roll Tuesday 07:00 UTC (03:00 EDT). The end bounds
// are inclusive to the second, matching how game dates are compared.
var season2025 = Season{
	Key:   "2025",
	Label: "2025 Football",
	Filters: []Filter{
		{Key: FilterOverall, Label: "Overall"},
		weekFilter("cfb_week_0", "CFB Week 0", "2025-08-19T07:00:00Z", "2025-08-26T06:59:59Z"),
		weekFilter("cfb_week_1", "CFB Week 1", "2025-08-26T07:00:00Z", "2025-09-02T06:59:59Z"),
		weekFilter("cfb_week_2_nfl_week_1", "CFB Week 2, NFL Week 1", "2025-09-02T07:00:00Z", "2025-09-09T06:59:59Z"),
		weekFilter("cfb_week_3_nfl_week_2", "CFB Week 3, NFL Week 2", "2025-09-09T07:00:00Z", "2025-09-16T06:59:59Z"),
		weekFilter("cfb_week_4_nfl_week_3", "CFB Week 4, NFL Week 3", "2025-09-16T07:00:00Z", "2025-09-23T06:59:59Z"),
		weekFilter("cfb_week_5_nfl_week_4", "CFB Week 5, NFL Week 4", "2025-09-23T07:00:00Z", "2025-09-30T06:59:59Z"),
		weekFilter("cfb_week_6_nfl_week_5", "CFB Week 6, NFL Week 5", "2025-09-30T07:00:00Z", "2025-10-07T06:59:59Z"),
		weekFilter("cfb_week_7_nfl_week_6", "CFB Week 7, NFL Week 6", "2025-10-07T07:00:00Z", "2025-10-14T06:59:59Z"),
		weekFilter("cfb_week_8_nfl_week_7", "CFB Week 8, NFL Week 7", "2025-10-14T07:00:00Z", "2025-10-21T06:59:59Z"),
		weekFilter("cfb_week_9_nfl_week_8", "CFB Week 9, NFL Week 8", "2025-10-21T07:00:00Z", "2025-10-28T06:59:59Z"),
		weekFilter("cfb_week_10_nfl_week_9", "CFB Week 10, NFL Week 9", "2025-10-28T07:00:00Z", "2025-11-04T06:59:59Z"),
		weekFilter("cfb_week_11_nfl_week_10", "CFB Week 11, NFL Week 10", "2025-11-04T07:00:00Z", "2025-11-11T06:59:59Z"),
		weekFilter("cfb_week_12_nfl_week_11", "CFB Week 12, NFL Week 11", "2025-11-11T07:00:00Z", "2025-11-18T06:59:59Z"),
		weekFilter("cfb_week_13_nfl_week_12", "CFB Week 13, NFL Week 12", "2025-11-18T07:00:00Z", "2025-11-25T06:59:59Z"),
		weekFilter("cfb_week_14_nfl_week_13", "CFB Week 14, NFL Week 13", "2025-11-25T07:00:00Z", "2025-12-02T06:59:59Z"),
		weekFilter("nfl_week_14", "NFL Week 14", "2025-12-02T07:00:00Z", "2025-12-09T06:59:59Z"),
		weekFilter("nfl_week_15", "NFL Week 15", "2025-12-09T07:00:00Z", "2025-12-16T06:59:59Z"),
		weekFilter("nfl_week_16", "NFL Week 16", "2025-12-16T07:00:00Z", "2025-12-23T06:59:59Z"),
		weekFilter("nfl_week_17", "NFL Week 17", "2025-12-23T07:00:00Z", "2025-12-30T06:59:59Z"),
		weekFilter("nfl_week_18", "NFL Week 18", "2025-12-30T07:00:00Z", "2026-01-06T06:59:59Z"),
	},
}
