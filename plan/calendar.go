package plan

import (
	"iter"
	"time"
)

// This file holds the pure calendar math behind dated section modes:
// day, ISO-week, and month range iteration. All sequences are finite,
// restartable, and inclusive of both endpoints.

// days yields every day from start to end.
func days(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := truncateDay(start); !d.After(truncateDay(end)); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// weeks yields the Monday of every distinct ISO week touched by the range.
func weeks(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		last := time.Time{}

		for d := range days(start, end) {
			monday := weekStart(d)
			if monday.Equal(last) {
				continue
			}

			last = monday

			if !yield(monday) {
				return
			}
		}
	}
}

// months yields the first day of every calendar month touched by the range.
func months(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		stop := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

		for m := first; !m.After(stop); m = m.AddDate(0, 1, 0) {
			if !yield(m) {
				return
			}
		}
	}
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	// time.Weekday counts Sunday as 0; ISO weeks start on Monday.
	offset := (int(t.Weekday()) + 6) % 7

	return truncateDay(t).AddDate(0, 0, -offset)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// truncateDay strips the time-of-day component in UTC.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// count drains a day sequence, returning its length. Used by the page
// estimator, which needs sizes without materializing contexts.
func count(seq iter.Seq[time.Time]) int {
	n := 0
	for range seq {
		n++
	}

	return n
}
