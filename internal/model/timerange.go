package model

import "time"

// TimeRange is the half-open interval [Start, Start+Duration).
// Duration is in minutes and must be positive.
type TimeRange struct {
	Start    time.Time `json:"start"`
	Duration int       `json:"duration"`
}

func NewTimeRange(start time.Time, durationMinutes int) TimeRange {
	return TimeRange{Start: start, Duration: durationMinutes}
}

// End returns the exclusive upper bound of the range.
func (r TimeRange) End() time.Time {
	return r.Start.Add(time.Duration(r.Duration) * time.Minute)
}

// Overlaps reports whether the two half-open ranges intersect.
// Ranges that merely touch at an endpoint do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End()) && other.Start.Before(r.End())
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End())
}
