package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// Domain-specific time types
type (
	// EvaluatedAt is the clock reading a freshness computation is anchored
	// to. Scores are deterministic given the same EvaluatedAt.
	EvaluatedAt Timestamp
	// SnapshotDate is the calendar day a reliability snapshot belongs to.
	SnapshotDate Timestamp
)

// Constructors for domain time types
func NewEvaluatedAt(t time.Time) EvaluatedAt { return EvaluatedAt(NewTimestamp(t)) }

func NewSnapshotDate(t time.Time) SnapshotDate {
	return SnapshotDate(NewTimestamp(t.Truncate(24 * time.Hour)))
}

// Time conversions
func (t EvaluatedAt) Time() time.Time { return Timestamp(t).Time() }

func (t SnapshotDate) Time() time.Time { return Timestamp(t).Time() }

// DateString renders a snapshot date as YYYY-MM-DD, the form stored and
// queried in the snapshots table.
func (t SnapshotDate) DateString() string {
	return t.Time().Format("2006-01-02")
}
