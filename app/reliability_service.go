package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"relimeter/domain/core"
	"relimeter/domain/reliability"
	"relimeter/internal"
	"relimeter/internal/errors"
	"relimeter/ports"
)

// MaxBatchSize bounds one batch-scoring request. Larger result sets are
// served from snapshots instead.
const MaxBatchSize = 50

// ReliabilityService orchestrates the scoring engine for API callers. It
// holds the current engine behind an atomic pointer: table refreshes build
// a whole new engine and swap it in, so in-flight scoring always sees a
// consistent snapshot.
type ReliabilityService struct {
	engine   atomic.Pointer[reliability.Engine]
	journals ports.JournalRepository
	clock    ports.Clock
	workers  int64
	logger   *internal.Logger
}

// RankedResult pairs an engine result with the position of the article it
// was computed for, so callers can join results back to their inputs.
type RankedResult struct {
	Index  int                `json:"index"`
	Result reliability.Result `json:"result"`
}

// NewReliabilityService creates the service. The engine is not usable
// until RefreshTable (or UseTable) has published a journal snapshot.
func NewReliabilityService(journals ports.JournalRepository, clock ports.Clock, workers int, logger *internal.Logger) *ReliabilityService {
	if workers < 1 {
		workers = 1
	}
	return &ReliabilityService{
		journals: journals,
		clock:    clock,
		workers:  int64(workers),
		logger:   logger,
	}
}

// RefreshTable loads the journal records from storage, builds a fresh
// immutable authority snapshot and swaps it in atomically.
func (s *ReliabilityService) RefreshTable(ctx context.Context) error {
	records, err := s.journals.ListJournals(ctx)
	if err != nil {
		return errors.Wrap(err, "loading journal authority records")
	}

	table, err := reliability.NewAuthorityTable(records)
	if err != nil {
		return errors.Wrap(err, "building authority table")
	}
	return s.UseTable(table)
}

// UseTable publishes a prebuilt table snapshot, replacing the current one.
func (s *ReliabilityService) UseTable(table *reliability.AuthorityTable) error {
	engine, err := reliability.NewEngine(table)
	if err != nil {
		return err
	}
	s.engine.Store(engine)
	s.logger.Info("published journal authority snapshot with %d journals", table.Len())
	return nil
}

// Engine returns the current engine snapshot.
func (s *ReliabilityService) Engine() (*reliability.Engine, error) {
	engine := s.engine.Load()
	if engine == nil {
		return nil, core.ErrEmptyJournalTable
	}
	return engine, nil
}

// Score computes the reliability result for a single article.
func (s *ReliabilityService) Score(ctx context.Context, article reliability.ArticleFeatures, useCase string) (reliability.Result, error) {
	engine, err := s.Engine()
	if err != nil {
		return reliability.Result{}, err
	}
	return engine.Score(article, useCase, core.NewEvaluatedAt(s.clock.Now()))
}

// Rank scores a batch of articles under one use case and returns results
// in the presentation order: score descending, publication date descending,
// journal name ascending. Scoring is embarrassingly parallel; the
// semaphore just bounds goroutine fan-out for large batches.
//
// An invalid use case fails the whole batch up front - it applies
// uniformly, so skipping silently would mis-rank everything. Per-article
// data problems never fail the batch.
func (s *ReliabilityService) Rank(ctx context.Context, articles []reliability.ArticleFeatures, useCase string) ([]RankedResult, error) {
	if len(articles) == 0 {
		return nil, errors.InvalidInput("no articles to score")
	}
	if len(articles) > MaxBatchSize {
		return nil, errors.InvalidInput("batch exceeds the maximum of 50 articles")
	}
	if _, err := reliability.ResolveUseCase(useCase); err != nil {
		return nil, err
	}

	engine, err := s.Engine()
	if err != nil {
		return nil, err
	}

	// One evaluation clock reading for the whole batch keeps freshness
	// comparable across its articles.
	evaluatedAt := core.NewEvaluatedAt(s.clock.Now())

	results := make([]RankedResult, len(articles))
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	for i, article := range articles {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Drain already-spawned scorers before abandoning the batch so
			// none outlives the call.
			wg.Wait()
			return nil, errors.Wrap(err, "acquiring scoring slot")
		}
		wg.Add(1)
		go func(i int, article reliability.ArticleFeatures) {
			defer wg.Done()
			defer sem.Release(1)
			result, err := engine.Score(article, useCase, evaluatedAt)
			if err != nil {
				// Unreachable: the use case was validated above and scoring
				// absorbs every other irregularity.
				s.logger.Error("scoring article %d: %v", i, err)
				return
			}
			results[i] = RankedResult{Index: i, Result: result}
		}(i, article)
	}
	wg.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		ra, rb := results[a], results[b]
		if ra.Result.Score != rb.Result.Score {
			return ra.Result.Score > rb.Result.Score
		}
		da := articles[ra.Index].PublicationDate
		db := articles[rb.Index].PublicationDate
		if !da.Equal(db) {
			return da.After(db)
		}
		na := strings.ToLower(ra.Result.JournalName)
		nb := strings.ToLower(rb.Result.JournalName)
		return na < nb
	})
	return results, nil
}
