package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"relimeter/domain/reliability"
	"relimeter/internal/errors"
	"relimeter/ports"
)

// JournalRepositoryImpl implements JournalRepository for PostgreSQL
type JournalRepositoryImpl struct {
	db *sqlx.DB
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(db *sqlx.DB) ports.JournalRepository {
	return &JournalRepositoryImpl{db: db}
}

// UpsertJournals inserts or updates authority records by canonical key.
func (r *JournalRepositoryImpl) UpsertJournals(ctx context.Context, records []reliability.JournalRecord) error {
	for _, rec := range records {
		key := rec.Key
		if key == "" {
			key = rec.DisplayName
		}
		key = reliability.CanonicalJournalKey(key)

		overridesJSON, err := json.Marshal(rec.TAOverrides)
		if err != nil {
			return errors.Wrapf(err, "marshaling overrides for %s", key)
		}

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO journals (
				journal_key, display_name, aliases, base_authority,
				ta_overrides, specialties, guideline_bodies,
				peer_reviewed, general_coverage
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (journal_key) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				aliases = EXCLUDED.aliases,
				base_authority = EXCLUDED.base_authority,
				ta_overrides = EXCLUDED.ta_overrides,
				specialties = EXCLUDED.specialties,
				guideline_bodies = EXCLUDED.guideline_bodies,
				peer_reviewed = EXCLUDED.peer_reviewed,
				general_coverage = EXCLUDED.general_coverage,
				updated_at = NOW()`,
			key, rec.DisplayName, pq.StringArray(rec.Aliases), rec.BaseAuthority,
			overridesJSON, pq.StringArray(rec.Specialties), pq.StringArray(rec.GuidelineBodies),
			rec.PeerReviewed, rec.GeneralCoverage)
		if err != nil {
			return errors.Wrapf(err, "upserting journal %s", key)
		}
	}
	return nil
}

// ListJournals returns every stored authority record.
func (r *JournalRepositoryImpl) ListJournals(ctx context.Context) ([]reliability.JournalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT journal_key, display_name, aliases, base_authority,
		       ta_overrides, specialties, guideline_bodies,
		       peer_reviewed, general_coverage
		FROM journals
		ORDER BY journal_key`)
	if err != nil {
		return nil, errors.Wrap(err, "listing journals")
	}
	defer rows.Close()

	var records []reliability.JournalRecord
	for rows.Next() {
		var (
			rec           reliability.JournalRecord
			aliases       pq.StringArray
			overridesJSON []byte
			specialties   pq.StringArray
			bodies        pq.StringArray
		)
		if err := rows.Scan(&rec.Key, &rec.DisplayName, &aliases, &rec.BaseAuthority,
			&overridesJSON, &specialties, &bodies,
			&rec.PeerReviewed, &rec.GeneralCoverage); err != nil {
			return nil, errors.Wrap(err, "scanning journal row")
		}
		if err := json.Unmarshal(overridesJSON, &rec.TAOverrides); err != nil {
			return nil, errors.Wrapf(err, "decoding overrides for %s", rec.Key)
		}
		rec.Aliases = aliases
		rec.Specialties = specialties
		rec.GuidelineBodies = bodies
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating journal rows")
	}
	return records, nil
}

// CountJournals reports the stored journal count.
func (r *JournalRepositoryImpl) CountJournals(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM journals`); err != nil {
		return 0, errors.Wrap(err, "counting journals")
	}
	return count, nil
}
