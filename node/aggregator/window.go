package aggregator

import "time"

// Window is the closed time interval records must fall into.
type Window struct {
	Start time.Time
	End   time.Time
}

// AnchoredWindow returns the window of the given length that ends at
// anchorHour:00 UTC on the day of now. Runs fired at any time of the day
// therefore cover the same slot.
func AnchoredWindow(now time.Time, length time.Duration, anchorHour int) Window {
	utc := now.UTC()
	end := time.Date(utc.Year(), utc.Month(), utc.Day(), anchorHour, 0, 0, 0, time.UTC)
	return Window{
		Start: end.Add(-length),
		End:   end,
	}
}

func (w Window) contains(ts int64) bool {
	return ts >= w.Start.Unix() && ts <= w.End.Unix()
}
