package dateutil

import (
	"fmt"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey returns the calendar-day bucket of t in UTC. All streak and daily
// progress bookkeeping is keyed by this value.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

func Today() string {
	return DayKey(time.Now())
}

func Yesterday() string {
	return DayKey(time.Now().AddDate(0, 0, -1))
}

// WeekPeriod and MonthPeriod produce the leaderboard bucket names.
func WeekPeriod(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("week/%d/%d", week, year)
}

func MonthPeriod(t time.Time) string {
	return fmt.Sprintf("month/%d/%d", t.Month(), t.Year())
}
