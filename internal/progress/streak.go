package progress

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// CurrentStreak returns the number of consecutive days ending at the most recent
// entry, provided that entry is today or yesterday. dates must be distinct and
// ascending, which the entry log guarantees.
func CurrentStreak(dates []civil.Date, today civil.Date) int {
	mustBeStrictlyAscending(dates)
	if len(dates) == 0 {
		return 0
	}

	last := dates[len(dates)-1]
	if last != today && last != today.AddDays(-1) {
		return 0
	}

	streak := 1
	expected := last.AddDays(-1)
	for i := len(dates) - 2; i >= 0; i-- {
		if dates[i] != expected {
			break
		}
		streak++
		expected = expected.AddDays(-1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in dates.
func LongestStreak(dates []civil.Date) int {
	mustBeStrictlyAscending(dates)
	if len(dates) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysSince(dates[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Streaks computes both streaks in one call.
func Streaks(dates []civil.Date, today civil.Date) (current, longest int) {
	return CurrentStreak(dates, today), LongestStreak(dates)
}

// mustBeStrictlyAscending panics on duplicate or out-of-order dates. Such input
// means the (habit, date) uniqueness of the entry log was broken upstream.
func mustBeStrictlyAscending(dates []civil.Date) {
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			panic(fmt.Sprintf("progress: entry dates not strictly ascending at index %d (%s after %s)", i, dates[i], dates[i-1]))
		}
	}
}
