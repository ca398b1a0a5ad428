package services

import "time"

// Clock returns the current time in the office time zone.
type Clock func() time.Time

// OfficeClock is the wall clock in loc.
func OfficeClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}
