package reliability

import (
	"time"
)

// UseCase selects which weight profile governs a scoring request. Scores
// computed under different use cases are not comparable.
type UseCase string

const (
	UseCaseClinical    UseCase = "clinical"
	UseCaseExploratory UseCase = "exploratory"
)

// Band is the categorical bucket a numeric score maps into for display.
type Band string

const (
	BandHigh        Band = "high"        // 0.80-1.00
	BandModerate    Band = "moderate"    // 0.60-0.79
	BandExploratory Band = "exploratory" // 0.40-0.59
	BandLow         Band = "low"         // 0.00-0.39
)

// Uncertainty reflects how much of the input was inferred or defaulted
// versus directly known.
type Uncertainty string

const (
	UncertaintyLow    Uncertainty = "low"
	UncertaintyMedium Uncertainty = "medium"
	UncertaintyHigh   Uncertainty = "high"
)

// DefaultedField records one input the extractor had to substitute a
// documented default for. These never abort scoring; they fold into the
// result's uncertainty.
type DefaultedField string

const (
	DefaultedJournalUnknown     DefaultedField = "journal_unknown"
	DefaultedPeerReviewUnknown  DefaultedField = "peer_review_unknown"
	DefaultedAbstractMissing    DefaultedField = "abstract_missing"
	DefaultedPublicationUnknown DefaultedField = "publication_date_unknown"
)

// ArticleFeatures is the immutable per-call input supplied by the
// literature-search collaborator.
type ArticleFeatures struct {
	JournalName     string
	PublicationDate time.Time
	TherapeuticArea string

	// Optional rigor signals. Nil means unknown; unknown degrades the
	// rigor dimension, it never errors.
	AbstractPresent *bool
	PeerReviewed    *bool
}

// RawFeatures holds the five raw dimension values, each clamped to [0,1].
type RawFeatures struct {
	Authority float64 `json:"authority"`
	Relevance float64 `json:"relevance"`
	Freshness float64 `json:"freshness"`
	Guideline float64 `json:"guideline"`
	Rigor     float64 `json:"rigor"`
}

// Result is the complete reliability assessment for one article under one
// use case. It is a pure function of its inputs: identical article, use
// case, authority table and evaluation clock always yield an identical
// Result, which is what makes consumer-side caching safe.
type Result struct {
	JournalName     string      `json:"journal_name"`
	TherapeuticArea string      `json:"therapeutic_area"`
	UseCase         UseCase     `json:"use_case"`
	Score           float64     `json:"score"`
	Band            Band        `json:"band"`
	Components      RawFeatures `json:"components"`
	Reasons         []string    `json:"reasons"`
	Uncertainty     Uncertainty `json:"uncertainty"`
}
