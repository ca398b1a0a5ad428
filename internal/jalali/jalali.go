// Package jalali converts between the Gregorian and the Solar Hijri
// (Jalali/Persian) calendars and parses the date and clock strings the
// mobile client stores on records.
package jalali

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Supported Jalali year range.
const (
	MinYear = 1
	MaxYear = 3177
)

// MonthNames are the Persian month names, Farvardin first.
var MonthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

// WeekdayNames are the one-letter column headers of a Persian calendar,
// Saturday first.
var WeekdayNames = [7]string{"ش", "ی", "د", "س", "چ", "پ", "ج"}

// Date is a day in the Jalali calendar.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String renders the date the way the client's picker writes it: 1403/5/1.
func (d Date) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Year, d.Month, d.Day)
}

// Padded renders the date with two-digit month and day: 1403/05/01.
func (d Date) Padded() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Valid reports whether the date exists in the calendar.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= MonthLength(d.Year, d.Month)
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 0, 0, 0, 0, loc).Time()
}

// Weekday returns the Go weekday of the date.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// WeekdayOffset returns the column of the date in a Saturday-first week
// (Saturday = 0, Friday = 6).
func (d Date) WeekdayOffset() int {
	return int(ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC).Weekday())
}

// FromTime converts the calendar day of t (in t's location) to Jalali.
func FromTime(t time.Time) Date {
	pt := ptime.New(t)
	return Date{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()}
}

// IsLeap reports whether jy is a Jalali leap year.
func IsLeap(jy int) bool {
	return ptime.Date(jy, ptime.Esfand, 1, 12, 0, 0, 0, time.UTC).IsLeap()
}

// MonthLength returns the number of days in month jm of year jy.
func MonthLength(jy, jm int) int {
	switch {
	case jm <= 6:
		return 31
	case jm <= 11:
		return 30
	case IsLeap(jy):
		return 30
	default:
		return 29
	}
}

// Month describes one month grid for a date picker.
type Month struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Name        string `json:"name"`
	Days        int    `json:"days"`
	StartOffset int    `json:"startOffset"`
}

// MonthGrid returns the layout of month jm of year jy.
func MonthGrid(jy, jm int) (Month, error) {
	first := Date{Year: jy, Month: jm, Day: 1}
	if !first.Valid() {
		return Month{}, fmt.Errorf("invalid jalali month %d/%d", jy, jm)
	}
	return Month{
		Year:        jy,
		Month:       jm,
		Name:        MonthNames[jm-1],
		Days:        MonthLength(jy, jm),
		StartOffset: first.WeekdayOffset(),
	}, nil
}

// ParseDate parses Y/M/D (or Y-M-D) with Latin, Persian or Arabic-Indic
// digits and optional zero padding.
func ParseDate(s string) (Date, error) {
	normalized := NormalizeDigits(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "/")
	parts := strings.Split(normalized, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid jalali date %q", s)
	}

	values := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Date{}, fmt.Errorf("invalid jalali date %q: %w", s, err)
		}
		values[i] = n
	}

	d := Date{Year: values[0], Month: values[1], Day: values[2]}
	if !d.Valid() {
		return Date{}, fmt.Errorf("invalid jalali date %q", s)
	}
	return d, nil
}

// Clock is a wall-clock time truncated to the minute.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ClockOf truncates t to the minute.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock parses H:MM or HH:MM in any supported digit set.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(NormalizeDigits(strings.TrimSpace(s)), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid time %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Stamp renders t as "1403/5/10 12:30" in t's location.
func Stamp(t time.Time) string {
	return FromTime(t).String() + " " + ClockOf(t).String()
}
