package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"relimeter/domain/core"
	"relimeter/internal/errors"
	"relimeter/models"
	"relimeter/ports"
)

const defaultTopLimit = 20

// SnapshotRepositoryImpl implements SnapshotRepository for PostgreSQL
type SnapshotRepositoryImpl struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &SnapshotRepositoryImpl{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// UpsertSnapshot writes one snapshot row, race-safe on the natural key so
// concurrent worker runs cannot duplicate a day.
func (r *SnapshotRepositoryImpl) UpsertSnapshot(ctx context.Context, snapshot models.ReliabilitySnapshot) error {
	componentsJSON, err := json.Marshal(snapshot.Components)
	if err != nil {
		return errors.Wrap(err, "marshaling snapshot components")
	}
	reasonsJSON, err := json.Marshal(snapshot.Reasons)
	if err != nil {
		return errors.Wrap(err, "marshaling snapshot reasons")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reliability_snapshots (
			id, journal_key, journal_name, therapeutic_area, use_case,
			snapshot_date, score, band, components, uncertainty, reasons
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (journal_key, therapeutic_area, use_case, snapshot_date) DO UPDATE SET
			journal_name = EXCLUDED.journal_name,
			score = EXCLUDED.score,
			band = EXCLUDED.band,
			components = EXCLUDED.components,
			uncertainty = EXCLUDED.uncertainty,
			reasons = EXCLUDED.reasons`,
		snapshot.ID, snapshot.JournalKey, snapshot.JournalName,
		strings.ToLower(snapshot.TherapeuticArea), snapshot.UseCase,
		snapshot.SnapshotDate, snapshot.Score, snapshot.Band,
		componentsJSON, snapshot.Uncertainty, reasonsJSON)
	if err != nil {
		return errors.Wrapf(err, "upserting snapshot for %s", snapshot.JournalKey)
	}
	return nil
}

// TopJournals returns snapshot rows ordered by score descending for one
// (ta, use case) and day, falling back to the latest available day when
// the query names none.
func (r *SnapshotRepositoryImpl) TopJournals(ctx context.Context, query ports.TopQuery) ([]models.ReliabilitySnapshot, error) {
	date := time.Time{}
	if query.Date != nil {
		date = *query.Date
	} else {
		latest, err := r.LatestSnapshotDate(ctx, query.TherapeuticArea, query.UseCase)
		if err != nil {
			return nil, err
		}
		date = latest
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}

	builder := r.builder.
		Select("id", "journal_key", "journal_name", "therapeutic_area", "use_case",
			"snapshot_date", "score", "band", "components", "uncertainty", "reasons", "created_at").
		From("reliability_snapshots").
		Where(sq.Eq{
			"therapeutic_area": strings.ToLower(query.TherapeuticArea),
			"use_case":         query.UseCase,
			"snapshot_date":    date,
		}).
		OrderBy("score DESC", "journal_name ASC").
		Limit(uint64(limit))

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building top journals query")
	}
	return r.querySnapshots(ctx, sqlStr, args...)
}

// SnapshotsForArea returns the full cohort for one (ta, use case) on its
// latest snapshot day.
func (r *SnapshotRepositoryImpl) SnapshotsForArea(ctx context.Context, therapeuticArea, useCase string) ([]models.ReliabilitySnapshot, error) {
	latest, err := r.LatestSnapshotDate(ctx, therapeuticArea, useCase)
	if err != nil {
		return nil, err
	}

	sqlStr, args, err := r.builder.
		Select("id", "journal_key", "journal_name", "therapeutic_area", "use_case",
			"snapshot_date", "score", "band", "components", "uncertainty", "reasons", "created_at").
		From("reliability_snapshots").
		Where(sq.Eq{
			"therapeutic_area": strings.ToLower(therapeuticArea),
			"use_case":         useCase,
			"snapshot_date":    latest,
		}).
		OrderBy("score DESC", "journal_name ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building area snapshots query")
	}
	return r.querySnapshots(ctx, sqlStr, args...)
}

// LatestSnapshotDate reports the most recent snapshot day for the pair.
func (r *SnapshotRepositoryImpl) LatestSnapshotDate(ctx context.Context, therapeuticArea, useCase string) (time.Time, error) {
	var latest sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(snapshot_date) FROM reliability_snapshots
		WHERE therapeutic_area = $1 AND use_case = $2`,
		strings.ToLower(therapeuticArea), useCase).Scan(&latest)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "querying latest snapshot date")
	}
	if !latest.Valid {
		return time.Time{}, core.ErrSnapshotNotFound
	}
	return latest.Time, nil
}

func (r *SnapshotRepositoryImpl) querySnapshots(ctx context.Context, sqlStr string, args ...interface{}) ([]models.ReliabilitySnapshot, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying snapshots")
	}
	defer rows.Close()

	var snapshots []models.ReliabilitySnapshot
	for rows.Next() {
		var (
			snap           models.ReliabilitySnapshot
			componentsJSON []byte
			reasonsJSON    []byte
		)
		if err := rows.Scan(&snap.ID, &snap.JournalKey, &snap.JournalName,
			&snap.TherapeuticArea, &snap.UseCase, &snap.SnapshotDate,
			&snap.Score, &snap.Band, &componentsJSON, &snap.Uncertainty,
			&reasonsJSON, &snap.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning snapshot row")
		}
		if err := json.Unmarshal(componentsJSON, &snap.Components); err != nil {
			return nil, errors.Wrap(err, "decoding snapshot components")
		}
		if err := json.Unmarshal(reasonsJSON, &snap.Reasons); err != nil {
			return nil, errors.Wrap(err, "decoding snapshot reasons")
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating snapshot rows")
	}
	return snapshots, nil
}
