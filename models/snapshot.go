package models

import (
	"time"

	"github.com/google/uuid"

	"relimeter/domain/reliability"
)

// ReliabilitySnapshot is one precomputed journal standing for a
// (therapeutic area, use case) pair on a snapshot day. Rows are written by
// the nightly worker and served read-only by the ranking endpoints.
type ReliabilitySnapshot struct {
	ID              uuid.UUID               `json:"id" db:"id"`
	JournalKey      string                  `json:"journal_key" db:"journal_key"`
	JournalName     string                  `json:"journal_name" db:"journal_name"`
	TherapeuticArea string                  `json:"therapeutic_area" db:"therapeutic_area"`
	UseCase         string                  `json:"use_case" db:"use_case"`
	SnapshotDate    time.Time               `json:"snapshot_date" db:"snapshot_date"`
	Score           float64                 `json:"score" db:"score"`
	Band            string                  `json:"band" db:"band"`
	Components      reliability.RawFeatures `json:"components" db:"-"`
	Uncertainty     string                  `json:"uncertainty" db:"uncertainty"`
	Reasons         []string                `json:"reasons" db:"-"`
	CreatedAt       time.Time               `json:"created_at" db:"created_at"`
}

// NewSnapshotFromResult builds a snapshot row from an engine result.
func NewSnapshotFromResult(result reliability.Result, journalKey string, snapshotDate time.Time) ReliabilitySnapshot {
	return ReliabilitySnapshot{
		ID:              uuid.New(),
		JournalKey:      journalKey,
		JournalName:     result.JournalName,
		TherapeuticArea: result.TherapeuticArea,
		UseCase:         string(result.UseCase),
		SnapshotDate:    snapshotDate,
		Score:           result.Score,
		Band:            string(result.Band),
		Components:      result.Components,
		Uncertainty:     string(result.Uncertainty),
		Reasons:         result.Reasons,
	}
}
