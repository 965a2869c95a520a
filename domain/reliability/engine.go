// Package reliability implements the therapeutic-area-aware reliability
// scoring engine: given an article, a declared therapeutic area and a use
// case, it produces a deterministic score in [0,1], a categorical band, an
// ordered explanation and an uncertainty label.
//
// The engine is stateless and side-effect-free per call. Its only external
// input beyond the article is an immutable AuthorityTable snapshot, so it
// is safe to call from any number of goroutines without locks.
package reliability

import (
	"relimeter/domain/core"
)

// Engine is the single scoring entry point external collaborators use.
type Engine struct {
	table     *AuthorityTable
	extractor *Extractor
}

// NewEngine creates an engine over an authority table snapshot.
func NewEngine(table *AuthorityTable) (*Engine, error) {
	if table == nil || table.Len() == 0 {
		return nil, core.ErrEmptyJournalTable
	}
	return &Engine{table: table, extractor: NewExtractor(table)}, nil
}

// Table exposes the snapshot the engine was built over.
func (e *Engine) Table() *AuthorityTable {
	return e.table
}

// Score computes the reliability result for one article under one use
// case, anchored to the supplied evaluation clock.
//
// The only error path is an unrecognized use-case token: that is a caller
// bug affecting the whole batch and is surfaced immediately. Every
// per-article irregularity (unknown journal, missing optional fields) is
// absorbed and reflected through the result's uncertainty and band, so a
// heterogeneous batch can always be fully ranked.
func (e *Engine) Score(article ArticleFeatures, useCaseToken string, evaluatedAt core.EvaluatedAt) (Result, error) {
	useCase, err := ResolveUseCase(useCaseToken)
	if err != nil {
		return Result{}, err
	}

	raw, notes := e.extractor.Extract(article, evaluatedAt)
	result := Aggregate(raw, ProfileFor(useCase), notes, article.TherapeuticArea)
	result.JournalName = article.JournalName
	return result, nil
}
