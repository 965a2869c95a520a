package reliability

import (
	"time"

	"relimeter/domain/core"
)

// Relevance is a journal-specialization proxy rather than text similarity:
// an exact specialty match always outranks generic coverage, which always
// outranks an unknown or mismatched journal.
const (
	RelevanceSpecialized = 0.80
	RelevanceGeneral     = 0.55
	RelevanceUnknown     = 0.30
)

// Freshness decays linearly from full credit inside the recent window to
// the floor at the horizon. The floor is never zero: old research keeps a
// residual freshness value.
const (
	FreshnessWindowDays  = 30
	FreshnessHorizonDays = 1825 // 5 years
	FreshnessFloor       = 0.10
)

// GuidelineBaseline is the guideline dimension for journals with no
// guideline-body citations. Presence is binary, not count-weighted, to
// keep the signal legible.
const GuidelineBaseline = 0.10

// Rigor starts from a peer-review baseline and loses a fixed penalty per
// missing optional signal, floored so absent metadata degrades a score
// rather than zeroing it.
const (
	RigorBaseline        = 0.90
	RigorNotPeerReviewed = 0.40
	RigorMissingPenalty  = 0.20
	RigorFloor           = 0.20
)

// Extractor derives the five raw dimension values for one
// (article, therapeutic area) pair against an authority table snapshot.
type Extractor struct {
	table *AuthorityTable
}

// NewExtractor creates an extractor bound to a table snapshot.
func NewExtractor(table *AuthorityTable) *Extractor {
	return &Extractor{table: table}
}

// Extract computes the raw features. It never errors: missing optional
// input is substituted with documented defaults and reported back as
// DefaultedField notes for the aggregator's uncertainty estimate.
func (e *Extractor) Extract(article ArticleFeatures, evaluatedAt core.EvaluatedAt) (RawFeatures, []DefaultedField) {
	var notes []DefaultedField

	res := e.table.Resolve(article.JournalName, article.TherapeuticArea)
	if !res.Found {
		notes = append(notes, DefaultedJournalUnknown)
	}

	freshness := freshnessAt(article.PublicationDate, evaluatedAt.Time())
	if article.PublicationDate.IsZero() {
		freshness = FreshnessFloor
		notes = append(notes, DefaultedPublicationUnknown)
	}

	rigor, rigorNotes := rigorFor(article, res)
	notes = append(notes, rigorNotes...)

	raw := RawFeatures{
		Authority: clamp01(res.Authority),
		Relevance: clamp01(relevanceFor(res)),
		Freshness: clamp01(freshness),
		Guideline: clamp01(guidelineFor(res)),
		Rigor:     clamp01(rigor),
	}
	return raw, notes
}

func relevanceFor(res Resolution) float64 {
	switch {
	case res.Found && res.SpecialtyMatch:
		return RelevanceSpecialized
	case res.Found && res.GeneralCoverage:
		return RelevanceGeneral
	default:
		return RelevanceUnknown
	}
}

func guidelineFor(res Resolution) float64 {
	if res.GuidelinePresence {
		return 1.0
	}
	return GuidelineBaseline
}

// freshnessAt is deterministic given the publication date and the
// evaluation clock. Future-dated publications get full credit.
func freshnessAt(published, now time.Time) float64 {
	ageDays := now.Sub(published).Hours() / 24
	switch {
	case ageDays <= FreshnessWindowDays:
		return 1.0
	case ageDays >= FreshnessHorizonDays:
		return FreshnessFloor
	default:
		span := float64(FreshnessHorizonDays - FreshnessWindowDays)
		return 1.0 - (1.0-FreshnessFloor)*(ageDays-FreshnessWindowDays)/span
	}
}

func rigorFor(article ArticleFeatures, res Resolution) (float64, []DefaultedField) {
	var notes []DefaultedField

	// Article-level attestation wins over the table's journal-level flag.
	peerReviewed, peerReviewKnown := res.PeerReviewed, res.PeerReviewKnown
	if article.PeerReviewed != nil {
		peerReviewed, peerReviewKnown = *article.PeerReviewed, true
	}

	rigor := RigorBaseline
	switch {
	case !peerReviewKnown:
		rigor -= RigorMissingPenalty
		notes = append(notes, DefaultedPeerReviewUnknown)
	case !peerReviewed:
		rigor = RigorNotPeerReviewed
	}

	if article.AbstractPresent == nil {
		rigor -= RigorMissingPenalty
		notes = append(notes, DefaultedAbstractMissing)
	} else if !*article.AbstractPresent {
		rigor -= RigorMissingPenalty
	}

	if rigor < RigorFloor {
		rigor = RigorFloor
	}
	return rigor, notes
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
