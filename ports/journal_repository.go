package ports

import (
	"context"

	"relimeter/domain/reliability"
)

// JournalRepository persists the journal authority reference data. The
// engine never reads it directly: the service layer loads records, builds
// an immutable table snapshot and swaps it in atomically.
type JournalRepository interface {
	// UpsertJournals inserts or updates authority records by canonical key.
	UpsertJournals(ctx context.Context, records []reliability.JournalRecord) error

	// ListJournals returns every stored authority record.
	ListJournals(ctx context.Context) ([]reliability.JournalRecord, error)

	// CountJournals reports the table size, used to decide first-boot seeding.
	CountJournals(ctx context.Context) (int, error)
}
