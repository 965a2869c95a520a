package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"relimeter/internal/errors"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createJournalsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create journals table")
	}
	if err := r.createSnapshotsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create reliability_snapshots table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createJournalsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS journals (
			journal_key VARCHAR(200) PRIMARY KEY,
			display_name VARCHAR(200) NOT NULL,
			aliases TEXT[] NOT NULL DEFAULT '{}',
			base_authority DECIMAL(4,3) NOT NULL CHECK (base_authority >= 0 AND base_authority <= 1),
			ta_overrides JSONB NOT NULL DEFAULT '{}',
			specialties TEXT[] NOT NULL DEFAULT '{}',
			guideline_bodies TEXT[] NOT NULL DEFAULT '{}',
			peer_reviewed BOOLEAN NOT NULL DEFAULT false,
			general_coverage BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createSnapshotsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reliability_snapshots (
			id UUID PRIMARY KEY,
			journal_key VARCHAR(200) NOT NULL REFERENCES journals(journal_key) ON DELETE CASCADE,
			journal_name VARCHAR(200) NOT NULL,
			therapeutic_area VARCHAR(100) NOT NULL,
			use_case VARCHAR(20) NOT NULL,
			snapshot_date DATE NOT NULL,
			score DECIMAL(4,3) NOT NULL,
			band VARCHAR(20) NOT NULL,
			components JSONB NOT NULL,
			uncertainty VARCHAR(10) NOT NULL,
			reasons JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (journal_key, therapeutic_area, use_case, snapshot_date)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_snapshots_area_case_date
			ON reliability_snapshots (therapeutic_area, use_case, snapshot_date DESC, score DESC)
	`)
	return err
}
