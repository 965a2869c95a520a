package ports

import (
	"context"
	"time"

	"relimeter/models"
)

// TopQuery selects ranked snapshot rows for one therapeutic area and use
// case. A nil Date means "the latest snapshot day available".
type TopQuery struct {
	TherapeuticArea string
	UseCase         string
	Date            *time.Time
	Limit           int
}

// SnapshotRepository persists precomputed per-(journal, TA, use case)
// reliability snapshots, written nightly by the worker and served by the
// ranking endpoints.
type SnapshotRepository interface {
	// UpsertSnapshot writes one snapshot row, race-safe on the
	// (journal, ta, use_case, snapshot_date) key.
	UpsertSnapshot(ctx context.Context, snapshot models.ReliabilitySnapshot) error

	// TopJournals returns snapshot rows ordered by score descending.
	TopJournals(ctx context.Context, query TopQuery) ([]models.ReliabilitySnapshot, error)

	// SnapshotsForArea returns the whole cohort for one (ta, use case) on
	// its latest snapshot day, for distribution statistics.
	SnapshotsForArea(ctx context.Context, therapeuticArea, useCase string) ([]models.ReliabilitySnapshot, error)

	// LatestSnapshotDate reports the most recent snapshot day for a
	// (ta, use case) pair, or core.ErrSnapshotNotFound when none exists.
	LatestSnapshotDate(ctx context.Context, therapeuticArea, useCase string) (time.Time, error)
}
