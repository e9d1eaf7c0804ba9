// Package timeutil provides timezone utilities for the campus timezone
// (IST, UTC+5:30). Placement deadlines, drive schedules, and report dates
// are all communicated in campus time regardless of where the servers run.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// CampusTZ is the campus timezone (IST, UTC+5:30, no DST).
var CampusTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in campus timezone.
func Now() time.Time {
	return time.Now().In(CampusTZ)
}

// ToCampus converts a time to campus timezone.
func ToCampus(t time.Time) time.Time {
	return t.In(CampusTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in campus timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, CampusTZ)
}

// DateTime creates a time in campus timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, CampusTZ)
}

// StartOfDay returns the start of the day (00:00:00) in campus timezone.
func StartOfDay(t time.Time) time.Time {
	c := ToCampus(t)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, CampusTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in campus timezone.
func EndOfDay(t time.Time) time.Time {
	c := ToCampus(t)
	return time.Date(c.Year(), c.Month(), c.Day(), 23, 59, 59, 999999999, CampusTZ)
}

// IsToday checks if the given time is today in campus timezone.
func IsToday(t time.Time) bool {
	now := Now()
	c := ToCampus(t)
	return c.Year() == now.Year() &&
		c.Month() == now.Month() &&
		c.Day() == now.Day()
}

// IsSameDay checks if two times are on the same campus-time day.
func IsSameDay(t1, t2 time.Time) bool {
	c1, c2 := ToCampus(t1), ToCampus(t2)
	return c1.Year() == c2.Year() && c1.YearDay() == c2.YearDay()
}

// DaysUntil calculates whole days from now until the given time.
// Negative when the time has passed.
func DaysUntil(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	return int(then.Sub(now).Hours() / 24)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
)

// FormatCampus formats a time in campus timezone with the given layout.
func FormatCampus(t time.Time, layout string) string {
	return ToCampus(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in campus timezone.
func FormatDateStr(t time.Time) string {
	return FormatCampus(t, FormatDate)
}

// FormatDateTimeStr formats a time as datetime string in campus timezone.
func FormatDateTimeStr(t time.Time) string {
	return FormatCampus(t, FormatDateTime)
}

// FormatDeadline renders a deadline the way listings show it, relative
// when close, absolute otherwise.
func FormatDeadline(deadline time.Time) string {
	now := Now()
	d := ToCampus(deadline)

	if d.Before(now) {
		return "closed"
	}

	remaining := d.Sub(now)
	switch {
	case remaining < time.Hour:
		return fmt.Sprintf("closes in %d min", int(remaining.Minutes()))
	case remaining < 24*time.Hour:
		return fmt.Sprintf("closes in %d h", int(remaining.Hours()))
	case remaining < 7*24*time.Hour:
		return fmt.Sprintf("closes in %d days", int(remaining.Hours()/24))
	default:
		return "closes " + d.Format(FormatHumanDate)
	}
}

// ParseCampus parses a time string in campus timezone.
func ParseCampus(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, CampusTZ)
}

// ParseDate parses a date string (YYYY-MM-DD) in campus timezone.
func ParseDate(value string) (time.Time, error) {
	return ParseCampus(FormatDate, value)
}
