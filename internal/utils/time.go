package utils

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date, rejecting
// impossible dates such as 2024-02-30.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("invalid date %q: not a calendar date", s)
	}
	return d, nil
}

// DateFromDB converts a value scanned from a DATE or TEXT column into a calendar date.
// Postgres returns DATE columns as time.Time at midnight UTC; SQLite returns the stored text.
func DateFromDB(v interface{}) (civil.Date, error) {
	switch val := v.(type) {
	case time.Time:
		return civil.Date{Year: val.Year(), Month: val.Month(), Day: val.Day()}, nil
	case string:
		return ParseDate(val)
	case []byte:
		return ParseDate(string(val))
	default:
		return civil.Date{}, fmt.Errorf("unsupported date value of type %T", v)
	}
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
