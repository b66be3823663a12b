package model

import "time"

// Wire formats for calendar days and times of day. All values are naive
// local time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDay parses a YYYY-MM-DD string as local midnight.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Midnight truncates t to the start of its calendar day in local time.
func Midnight(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Combine joins a day with an HH:MM time of day.
func Combine(day time.Time, hhmm string) (time.Time, error) {
	tod, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	d := Midnight(day)
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local), nil
}
