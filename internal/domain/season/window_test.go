package season

import (
	"testing"
	"time"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		at        string
		wantStart string
	}{
		{
			name:      "saturday afternoon game",
			at:        "2025-09-06T20:00:00Z",
			wantStart: "2025-09-02T07:00:00Z",
		},
		{
			name:      "sunday nfl slate",
			at:        "2025-09-07T17:00:00Z",
			wantStart: "2025-09-02T07:00:00Z",
		},
		{
			name:      "monday night spills past midnight",
			at:        "2025-09-09T03:30:00Z",
			wantStart: "2025-09-02T07:00:00Z",
		},
		{
			name:      "tuesday before three am eastern stays in prior week",
			at:        "2025-09-09T06:59:00Z",
			wantStart: "2025-09-02T07:00:00Z",
		},
		{
			name:      "tuesday at three am eastern starts new week",
			at:        "2025-09-09T07:00:00Z",
			wantStart: "2025-09-09T07:00:00Z",
		},
		{
			name:      "est after daylight saving ends",
			at:        "2025-12-10T01:00:00Z",
			wantStart: "2025-12-09T08:00:00Z",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			at, err := time.Parse(time.RFC3339, tc.at)
			if err != nil {
				t.Fatalf("parse at: %v", err)
			}
			wantStart, err := time.Parse(time.RFC3339, tc.wantStart)
			if err != nil {
				t.Fatalf("parse want: %v", err)
			}

			start, end := Window(at)
			if !start.Equal(wantStart) {
				t.Fatalf("start = %v, want %v", start.UTC(), wantStart)
			}
			if got := end.Sub(start); got != 7*24*time.Hour && got != 7*24*time.Hour+time.Hour && got != 7*24*time.Hour-time.Hour {
				t.Fatalf("window span = %v", got)
			}
		})
	}
}

func TestSameWindow(t *testing.T) {
	saturday := time.Date(2025, 9, 6, 20, 0, 0, 0, time.UTC)
	mondayNight := time.Date(2025, 9, 9, 3, 30, 0, 0, time.UTC)
	nextSaturday := time.Date(2025, 9, 13, 20, 0, 0, 0, time.UTC)

	if !SameWindow(saturday, mondayNight) {
		t.Fatal("saturday and monday night should share a week")
	}
	if SameWindow(saturday, nextSaturday) {
		t.Fatal("consecutive saturdays should not share a week")
	}
}

func TestSeasonLookup(t *testing.T) {
	s := Current()

	overall, ok := s.Lookup(FilterOverall)
	if !ok {
		t.Fatal("overall filter missing")
	}
	if overall.Bounded() {
		t.Fatal("overall filter should be unbounded")
	}

	week, ok := s.Lookup("cfb_week_2_nfl_week_1")
	if !ok {
		t.Fatal("combined week filter missing")
	}
	inside := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 9, 14, 17, 0, 0, 0, time.UTC)
	if !week.Contains(inside) {
		t.Fatalf("%v should be inside %s", inside, week.Key)
	}
	if week.Contains(outside) {
		t.Fatalf("%v should be outside %s", outside, week.Key)
	}

	if _, ok := s.Lookup("nope"); ok {
		t.Fatal("unknown filter should not resolve")
	}
}
