// Package timeseries aggregates classified sequence records into smoothed,
// probability-normalized weekly frequency matrices.
package timeseries

import "time"

// dateLayouts are the accepted collection-date forms, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses an ISO-8601 collection date. The second return is false
// for unparseable input; such records are dropped from aggregation and the
// drop is counted, never silently lost.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// WeekStart truncates a timestamp to the Monday anchoring its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(day.Weekday())
	// time.Weekday puts Sunday at 0; shift so Monday is the anchor.
	offset := (weekday + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeklyIndex returns the contiguous Monday-anchored weeks from start to end
// inclusive. Weeks with no data are part of the index so gaps become
// explicit zero rows downstream.
func WeeklyIndex(start, end time.Time) []time.Time {
	start = WeekStart(start)
	end = WeekStart(end)
	if end.Before(start) {
		return nil
	}

	var index []time.Time
	for week := start; !week.After(end); week = week.AddDate(0, 0, 7) {
		index = append(index, week)
	}
	return index
}

// WeekRange reports the earliest and latest week over bucketed records.
// ok is false for an empty set.
func WeekRange(records []Bucketed) (start, end time.Time, ok bool) {
	for _, rec := range records {
		week := rec.Week
		if !ok {
			start, end, ok = week, week, true
			continue
		}
		if week.Before(start) {
			start = week
		}
		if week.After(end) {
			end = week
		}
	}
	return start, end, ok
}
