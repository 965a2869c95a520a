package app

import (
	"context"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"relimeter/domain/core"
	"relimeter/domain/reliability"
	"relimeter/internal/errors"
	"relimeter/models"
	"relimeter/ports"
)

// TAStanding describes how one journal sits within a therapeutic area's
// snapshot cohort.
type TAStanding struct {
	TherapeuticArea string   `json:"therapeutic_area"`
	Score           float64  `json:"score"`
	Band            string   `json:"band"`
	Uncertainty     string   `json:"uncertainty"`
	CohortSize      int      `json:"cohort_size"`
	CohortMedian    float64  `json:"cohort_median"`
	PercentileRank  float64  `json:"percentile_rank"`
	Reasons         []string `json:"reasons"`
}

// ComparisonReport collects a journal's standings across therapeutic
// areas under one use case. Areas without a snapshot row for the journal
// are omitted; scores are only comparable within a use case.
type ComparisonReport struct {
	JournalName string       `json:"journal_name"`
	UseCase     string       `json:"use_case"`
	Standings   []TAStanding `json:"standings"`
}

// ComparisonService answers "where does this journal stand, and where is
// it strong" from the snapshot tables.
type ComparisonService struct {
	reliability *ReliabilityService
	snapshots   ports.SnapshotRepository
}

// NewComparisonService creates a comparison service.
func NewComparisonService(reliabilitySvc *ReliabilityService, snapshots ports.SnapshotRepository) *ComparisonService {
	return &ComparisonService{reliability: reliabilitySvc, snapshots: snapshots}
}

// Compare builds the cross-area report for one journal under one use case.
func (s *ComparisonService) Compare(ctx context.Context, journalName, useCase string, areas []string) (*ComparisonReport, error) {
	resolved, err := reliability.ResolveUseCase(useCase)
	if err != nil {
		return nil, err
	}
	if len(areas) == 0 {
		areas = DefaultTherapeuticAreas
	}

	// The authority table owns alias resolution, so "JCO" and its full
	// name land on the same snapshot key. Without a published table the
	// plain canonical key still works for exact names.
	key := reliability.CanonicalJournalKey(journalName)
	if engine, engineErr := s.reliability.Engine(); engineErr == nil {
		if resolvedKey, ok := engine.Table().KeyFor(journalName); ok {
			key = resolvedKey
		}
	}
	report := &ComparisonReport{JournalName: journalName, UseCase: string(resolved)}

	for _, area := range areas {
		cohort, err := s.snapshots.SnapshotsForArea(ctx, area, string(resolved))
		if err != nil {
			if core.IsNotFoundError(err) {
				continue
			}
			return nil, errors.Wrapf(err, "loading %s cohort", area)
		}

		standing, ok := standingFor(cohort, key)
		if !ok {
			continue
		}
		report.Standings = append(report.Standings, standing)
	}

	if len(report.Standings) == 0 {
		return nil, core.NewNotFoundError("snapshot", key)
	}
	return report, nil
}

// standingFor locates the journal inside its cohort and computes the
// distribution context: cohort median, and a percentile rank from a normal
// approximation of the cohort score distribution.
func standingFor(cohort []models.ReliabilitySnapshot, key string) (TAStanding, bool) {
	scores := make([]float64, 0, len(cohort))
	var row *models.ReliabilitySnapshot
	for i := range cohort {
		scores = append(scores, cohort[i].Score)
		if cohort[i].JournalKey == key {
			row = &cohort[i]
		}
	}
	if row == nil {
		return TAStanding{}, false
	}

	median, err := stats.Median(scores)
	if err != nil {
		median = row.Score
	}

	percentile := 50.0
	if len(scores) >= 2 {
		mean, _ := stats.Mean(scores)
		stdDev, _ := stats.StandardDeviation(scores)
		if stdDev > 0 {
			dist := distuv.Normal{Mu: mean, Sigma: stdDev}
			percentile = dist.CDF(row.Score) * 100
		}
	}

	return TAStanding{
		TherapeuticArea: row.TherapeuticArea,
		Score:           row.Score,
		Band:            row.Band,
		Uncertainty:     row.Uncertainty,
		CohortSize:      len(cohort),
		CohortMedian:    median,
		PercentileRank:  percentile,
		Reasons:         row.Reasons,
	}, true
}
