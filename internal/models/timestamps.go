package models

import "time"

// Touch stamps a write. CreatedAt is only set the first time.
func Touch(createdAt, updatedAt *time.Time, now time.Time) {
	now = now.UTC()
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}

// Naive drops the zone offset of t and keeps its wall clock, expressed in UTC.
// 10:00+03:30 becomes 10:00Z, not 06:30Z.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
