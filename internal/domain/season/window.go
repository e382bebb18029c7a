package season

import "time"

// Pick weeks roll over Tuesday 03:00 US Eastern, after the Monday night
// games have finished.
const (
	rolloverWeekday = time.Tuesday
	rolloverHour    = 3
)

var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("season: load America/New_York: " + err.Error())
	}
	eastern = loc
}

// Window returns the half-open pick week [start, end) containing t. A
// Tuesday before 03:00 Eastern still belongs to the previous week.
func Window(t time.Time) (time.Time, time.Time) {
	local := t.In(eastern)
	days := (int(local.Weekday()) - int(rolloverWeekday) + 7) % 7
	if days == 0 && local.Hour() < rolloverHour {
		days = 7
	}
	start := time.Date(local.Year(), local.Month(), local.Day(), rolloverHour, 0, 0, 0, eastern)
	start = start.AddDate(0, 0, -days)
	return start, start.AddDate(0, 0, 7)
}

// SameWindow reports whether two instants fall in the same pick week.
func SameWindow(a, b time.Time) bool {
	startA, _ := Window(a)
	startB, _ := Window(b)
	return startA.Equal(startB)
}
