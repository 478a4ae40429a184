package course

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MinutesPerDay is the length of a day in minutes.
	MinutesPerDay = 24 * 60
	// MinutesPerWeek is the length of the schedule period in minutes.
	MinutesPerWeek = 7 * MinutesPerDay
)

// Weekdays lists the canonical day names, Monday first.
var Weekdays = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayIndex maps a day name (case-insensitive) to 0 for Monday through 6 for Sunday.
func WeekdayIndex(day string) (int, error) {
	d := strings.ToLower(strings.TrimSpace(day))
	for i, name := range Weekdays {
		if name == d {
			return i, nil
		}
	}
	return -1, &InvalidIdentifierError{Kind: "weekday", Value: day}
}

// WeekdayOf returns the Monday-based weekday index of t.
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// MinuteOfDay returns the number of minutes elapsed since midnight of t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// MinuteOfWeek returns the number of minutes elapsed since Monday 00:00 of t's week.
func MinuteOfWeek(t time.Time) int {
	return WeekdayOf(t)*MinutesPerDay + MinuteOfDay(t)
}

// FormatHHMM renders minutes since midnight as a right-aligned "H:MM".
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%2d:%02d", minutes/60, minutes%60)
}
