package progress

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
)

var periodDays = map[constants.Period]int{
	constants.PeriodWeek:    7,
	constants.PeriodMonth:   30,
	constants.PeriodQuarter: 90,
}

// Window is a resolved trailing date range. Days is the rate denominator;
// the range [Start, End] is inclusive, so it spans Days+1 calendar days.
type Window struct {
	Period constants.Period
	Days   int
	Start  civil.Date
	End    civil.Date
}

// ResolvePeriod maps a symbolic period onto a fixed-length window ending today.
// Windows are fixed day counts, not calendar months or ISO weeks.
func ResolvePeriod(period constants.Period, today civil.Date) (Window, error) {
	p := constants.Period(strings.ToLower(strings.TrimSpace(string(period))))
	if p == "" {
		p = constants.DefaultPeriod
	}
	n, ok := periodDays[p]
	if !ok {
		return Window{}, apperrors.Invalid("period", "must be one of week, month, quarter")
	}
	return Window{
		Period: p,
		Days:   n,
		Start:  today.AddDays(-n),
		End:    today,
	}, nil
}

// Contains reports whether d falls inside the window
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Dates returns every calendar day of the window in ascending order
func (w Window) Dates() []civil.Date {
	n := w.End.DaysSince(w.Start) + 1
	if n <= 0 {
		return nil
	}
	dates := make([]civil.Date, 0, n)
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
