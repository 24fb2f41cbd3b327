package progress

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/julianstephens/habitlit/internal/utils"
)

// Clock supplies the current instant and the user's current calendar date.
// The engine never reads the wall clock directly.
type Clock interface {
	Now() time.Time
	Today() civil.Date
}

// SystemClock resolves "today" in a configured IANA timezone
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock for the given timezone ("" or "Local" for the system zone)
func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Today() civil.Date {
	return civil.DateOf(c.Now())
}

// FixedClock always reports the same day. Used by tests and replayed reports.
type FixedClock struct {
	Date civil.Date
}

func (c FixedClock) Now() time.Time {
	return c.Date.In(time.UTC).Add(12 * time.Hour)
}

func (c FixedClock) Today() civil.Date {
	return c.Date
}
