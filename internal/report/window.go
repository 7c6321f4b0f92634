package report

import "time"

// Window is the half-open interval [Start, End) a report covers. It is
// computed fresh at the start of every run and passed down the call chain,
// never cached on a long-lived object, so a run that straddles midnight still
// labels and queries one consistent day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window is well-formed.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// PreviousDayRange returns the window covering the calendar day before now in
// loc: Start is midnight of yesterday, End is midnight of now's date. The
// span is one calendar day, which on DST transition days is not 24 hours.
func PreviousDayRange(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Window{
		Start: end.AddDate(0, 0, -1),
		End:   end,
	}
}
