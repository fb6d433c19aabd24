// Package window derives the year-month range a collection run covers.
package window

import (
	"fmt"
	"time"
)

// Window is an inclusive range of calendar months in YYYYMM form.
type Window struct {
	Start string
	End   string
}

// Calc returns the window of monthsBack consecutive months ending at the
// month of now. monthsBack = 1 yields Start == End.
func Calc(now time.Time, monthsBack int) (Window, error) {
	if monthsBack < 1 {
		return Window{}, fmt.Errorf("months back must be at least 1, got %d", monthsBack)
	}
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, -(monthsBack - 1), 0)
	return Window{
		Start: start.Format("200601"),
		End:   end.Format("200601"),
	}, nil
}

// Months lists every month in the window in ascending order.
func (w Window) Months() []string {
	start, err := time.Parse("200601", w.Start)
	if err != nil {
		return nil
	}
	end, err := time.Parse("200601", w.End)
	if err != nil {
		return nil
	}
	var out []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format("200601"))
	}
	return out
}

// String renders the window as "YYYYMM~YYYYMM".
func (w Window) String() string {
	return w.Start + "~" + w.End
}
