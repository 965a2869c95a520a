package app

import (
	"context"
	"time"

	"relimeter/domain/core"
	"relimeter/domain/reliability"
	"relimeter/internal"
	"relimeter/internal/errors"
	"relimeter/models"
	"relimeter/ports"
)

// DefaultTherapeuticAreas is the snapshot universe when the worker is not
// restricted to a single area.
var DefaultTherapeuticAreas = []string{
	"oncology",
	"cardiovascular",
	"neurology",
	"immunology",
	"endocrinology",
	"respiratory",
	"gastroenterology",
}

// SnapshotService recomputes journal-level reliability snapshots, the
// precomputed rows the ranking endpoints serve.
type SnapshotService struct {
	reliability *ReliabilityService
	snapshots   ports.SnapshotRepository
	logger      *internal.Logger
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(reliabilitySvc *ReliabilityService, snapshots ports.SnapshotRepository, logger *internal.Logger) *SnapshotService {
	return &SnapshotService{
		reliability: reliabilitySvc,
		snapshots:   snapshots,
		logger:      logger,
	}
}

// Refresh recomputes and upserts snapshots for every journal in the
// current authority table, across the given therapeutic areas and both
// use cases, attributed to the given snapshot day.
//
// The probe article is dated at the snapshot day itself: freshness is held
// at full credit for every journal, so snapshot rankings reflect journal
// standing in the area rather than any one article's age.
func (s *SnapshotService) Refresh(ctx context.Context, snapshotDate time.Time, areas []string) error {
	if len(areas) == 0 {
		areas = DefaultTherapeuticAreas
	}

	engine, err := s.reliability.Engine()
	if err != nil {
		return errors.Wrap(err, "snapshot refresh needs a published journal table")
	}

	day := core.NewSnapshotDate(snapshotDate)
	records := engine.Table().Records()
	evaluatedAt := core.NewEvaluatedAt(day.Time())

	written := 0
	for _, rec := range records {
		for _, area := range areas {
			for _, useCase := range []reliability.UseCase{reliability.UseCaseClinical, reliability.UseCaseExploratory} {
				probe := reliability.ArticleFeatures{
					JournalName:     rec.DisplayName,
					PublicationDate: day.Time(),
					TherapeuticArea: area,
					AbstractPresent: boolTrue(),
					PeerReviewed:    &rec.PeerReviewed,
				}

				result, err := engine.Score(probe, string(useCase), evaluatedAt)
				if err != nil {
					return errors.Wrapf(err, "scoring %s for %s/%s", rec.Key, area, useCase)
				}

				snapshot := models.NewSnapshotFromResult(result, rec.Key, day.Time())
				if err := s.snapshots.UpsertSnapshot(ctx, snapshot); err != nil {
					return errors.Wrapf(err, "writing snapshot for %s in %s", rec.Key, area)
				}
				written++
			}
		}
	}

	s.logger.Info("snapshot refresh wrote %d rows for %s across %d areas", written, day.DateString(), len(areas))
	return nil
}

// Top serves the ranked journals of one therapeutic area from snapshots,
// validating the use-case token before touching storage.
func (s *SnapshotService) Top(ctx context.Context, query ports.TopQuery) ([]models.ReliabilitySnapshot, error) {
	resolved, err := reliability.ResolveUseCase(query.UseCase)
	if err != nil {
		return nil, err
	}
	query.UseCase = string(resolved)
	return s.snapshots.TopJournals(ctx, query)
}

func boolTrue() *bool {
	v := true
	return &v
}
