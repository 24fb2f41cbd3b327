package progress

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func days(ss ...string) []civil.Date {
	out := make([]civil.Date, 0, len(ss))
	for _, s := range ss {
		out = append(out, day(s))
	}
	return out
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []civil.Date
		today       civil.Date
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "no entries",
			dates:       nil,
			today:       day("2024-01-10"),
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "three days ending today",
			dates:       days("2024-01-08", "2024-01-09", "2024-01-10"),
			today:       day("2024-01-10"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "single entry two days ago",
			dates:       days("2024-01-08"),
			today:       day("2024-01-10"),
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "gap then shorter current run",
			dates:       days("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-06", "2024-01-07"),
			today:       day("2024-01-07"),
			wantCurrent: 2,
			wantLongest: 3,
		},
		{
			name:        "last entry yesterday keeps streak alive",
			dates:       days("2024-01-08", "2024-01-09"),
			today:       day("2024-01-10"),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "run across month and leap day",
			dates:       days("2024-02-28", "2024-02-29", "2024-03-01"),
			today:       day("2024-03-01"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "run across year boundary",
			dates:       days("2023-12-30", "2023-12-31", "2024-01-01"),
			today:       day("2024-01-02"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "dst weekend is just two calendar days",
			dates:       days("2024-03-09", "2024-03-10", "2024-03-11"),
			today:       day("2024-03-11"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "entry in the future breaks current",
			dates:       days("2024-01-10", "2024-01-12"),
			today:       day("2024-01-10"),
			wantCurrent: 0,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Streaks(tt.dates, tt.today)
			if current != tt.wantCurrent {
				t.Errorf("current streak = %d, want %d", current, tt.wantCurrent)
			}
			if longest != tt.wantLongest {
				t.Errorf("longest streak = %d, want %d", longest, tt.wantLongest)
			}
		})
	}
}

func TestLongestNeverBelowCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := day("2024-01-01")

	for i := 0; i < 500; i++ {
		set := map[civil.Date]bool{}
		n := rng.Intn(40)
		for j := 0; j < n; j++ {
			set[base.AddDays(rng.Intn(60))] = true
		}
		dates := make([]civil.Date, 0, len(set))
		for d := range set {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })

		today := base.AddDays(rng.Intn(62))
		current, longest := Streaks(dates, today)
		if longest < current {
			t.Fatalf("longest %d < current %d for dates %v today %v", longest, current, dates, today)
		}
	}
}

func TestStreaksPanicOnDuplicateDates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate dates")
		}
	}()
	LongestStreak(days("2024-01-01", "2024-01-01"))
}

func TestStreaksPanicOnUnorderedDates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for descending dates")
		}
	}()
	CurrentStreak(days("2024-01-02", "2024-01-01"), day("2024-01-02"))
}

func TestFixedClock(t *testing.T) {
	c := FixedClock{Date: day("2024-01-10")}
	if c.Today() != day("2024-01-10") {
		t.Errorf("Today() = %v", c.Today())
	}
	if civil.DateOf(c.Now()) != c.Date {
		t.Errorf("Now() %v is not on %v", c.Now(), c.Date)
	}
	if c.Now().Location() != time.UTC {
		t.Errorf("Now() should be UTC")
	}
}
