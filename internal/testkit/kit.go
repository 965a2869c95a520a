package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"relimeter/domain/core"
	"relimeter/domain/reliability"
	"relimeter/models"
	"relimeter/ports"
)

// FixedClock returns the same instant on every call. Tests use it to pin
// freshness math to a known evaluation time.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// FixtureRecords returns a small journal set covering the interesting
// resolution paths: a specialized journal with a TA override and an
// alias, a general-coverage journal, and a non-peer-reviewed outlet.
func FixtureRecords() []reliability.JournalRecord {
	return []reliability.JournalRecord{
		{
			DisplayName:     "Journal of Clinical Oncology",
			Aliases:         []string{"JCO"},
			BaseAuthority:   0.70,
			TAOverrides:     map[string]float64{"oncology": 0.85},
			Specialties:     []string{"oncology"},
			GuidelineBodies: []string{"ASCO", "NCCN"},
			PeerReviewed:    true,
		},
		{
			DisplayName:     "Nature",
			BaseAuthority:   0.85,
			PeerReviewed:    true,
			GeneralCoverage: true,
		},
		{
			DisplayName:   "European Heart Journal",
			BaseAuthority: 0.74,
			TAOverrides:   map[string]float64{"cardiovascular": 0.88},
			Specialties:   []string{"cardiovascular"},
			PeerReviewed:  true,
		},
		{
			DisplayName:     "Medical Hypotheses",
			BaseAuthority:   0.35,
			PeerReviewed:    false,
			GeneralCoverage: true,
		},
	}
}

// FixtureTable builds an AuthorityTable from FixtureRecords.
func FixtureTable() (*reliability.AuthorityTable, error) {
	return reliability.NewAuthorityTable(FixtureRecords())
}

// InMemoryJournalRepository is a map-backed ports.JournalRepository.
type InMemoryJournalRepository struct {
	mu      sync.Mutex
	records map[string]reliability.JournalRecord
}

func NewInMemoryJournalRepository() *InMemoryJournalRepository {
	return &InMemoryJournalRepository{records: make(map[string]reliability.JournalRecord)}
}

func (r *InMemoryJournalRepository) UpsertJournals(ctx context.Context, records []reliability.JournalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		key := rec.Key
		if key == "" {
			key = reliability.CanonicalJournalKey(rec.DisplayName)
		}
		rec.Key = key
		r.records[key] = rec
	}
	return nil
}

func (r *InMemoryJournalRepository) ListJournals(ctx context.Context) ([]reliability.JournalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reliability.JournalRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *InMemoryJournalRepository) CountJournals(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

var _ ports.JournalRepository = (*InMemoryJournalRepository)(nil)

// InMemorySnapshotRepository is a slice-backed ports.SnapshotRepository.
type InMemorySnapshotRepository struct {
	mu        sync.Mutex
	snapshots []models.ReliabilitySnapshot
}

func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{}
}

func (r *InMemorySnapshotRepository) UpsertSnapshot(ctx context.Context, snap models.ReliabilitySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.snapshots {
		if existing.JournalKey == snap.JournalKey &&
			existing.TherapeuticArea == snap.TherapeuticArea &&
			existing.UseCase == snap.UseCase &&
			existing.SnapshotDate.Equal(snap.SnapshotDate) {
			r.snapshots[i] = snap
			return nil
		}
	}
	r.snapshots = append(r.snapshots, snap)
	return nil
}

func (r *InMemorySnapshotRepository) TopJournals(ctx context.Context, q ports.TopQuery) ([]models.ReliabilitySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	date := q.Date
	if date == nil {
		latest, err := r.latestLocked(q.TherapeuticArea, q.UseCase)
		if err != nil {
			return nil, err
		}
		date = &latest
	}
	var out []models.ReliabilitySnapshot
	for _, snap := range r.snapshots {
		if snap.TherapeuticArea == q.TherapeuticArea &&
			snap.UseCase == q.UseCase &&
			snap.SnapshotDate.Equal(*date) {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].JournalName < out[j].JournalName
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *InMemorySnapshotRepository) SnapshotsForArea(ctx context.Context, area, useCase string) ([]models.ReliabilitySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest, err := r.latestLocked(area, useCase)
	if err != nil {
		return nil, err
	}
	var out []models.ReliabilitySnapshot
	for _, snap := range r.snapshots {
		if snap.TherapeuticArea == area && snap.UseCase == useCase && snap.SnapshotDate.Equal(latest) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (r *InMemorySnapshotRepository) LatestSnapshotDate(ctx context.Context, area, useCase string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latestLocked(area, useCase)
}

func (r *InMemorySnapshotRepository) latestLocked(area, useCase string) (time.Time, error) {
	var latest time.Time
	found := false
	for _, snap := range r.snapshots {
		if snap.TherapeuticArea != area || snap.UseCase != useCase {
			continue
		}
		if !found || snap.SnapshotDate.After(latest) {
			latest = snap.SnapshotDate
			found = true
		}
	}
	if !found {
		return time.Time{}, core.ErrSnapshotNotFound
	}
	return latest, nil
}

// Count reports the number of stored snapshots.
func (r *InMemorySnapshotRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

var _ ports.SnapshotRepository = (*InMemorySnapshotRepository)(nil)
