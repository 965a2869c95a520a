package reliability

import (
	"fmt"
	"math"
	"sort"
)

// Band thresholds, inclusive lower bounds. A boundary value belongs to the
// higher band: exactly 0.80 is "high".
const (
	BandHighMin        = 0.80
	BandModerateMin    = 0.60
	BandExploratoryMin = 0.40
)

// ScorePrecision is the number of decimal places the composite score is
// rounded to. Rounding before banding keeps results byte-identical across
// runs and platforms.
const ScorePrecision = 3

// maxReasons caps the explanation list at the top contributors.
const maxReasons = 3

// dimension identifies one of the five scoring dimensions. The declaration
// order is also the fixed tie-break priority for reason ranking.
type dimension int

const (
	dimAuthority dimension = iota
	dimGuideline
	dimRelevance
	dimRigor
	dimFreshness
)

type contribution struct {
	dim      dimension
	raw      float64
	weighted float64
}

// Aggregate combines raw features and a weight profile into the final
// result. It is a pure function: identical inputs always yield an
// identical Result.
func Aggregate(raw RawFeatures, profile WeightProfile, notes []DefaultedField, therapeuticArea string) Result {
	contribs := []contribution{
		{dimAuthority, raw.Authority, profile.Authority * raw.Authority},
		{dimGuideline, raw.Guideline, profile.Guideline * raw.Guideline},
		{dimRelevance, raw.Relevance, profile.Relevance * raw.Relevance},
		{dimRigor, raw.Rigor, profile.Rigor * raw.Rigor},
		{dimFreshness, raw.Freshness, profile.Freshness * raw.Freshness},
	}

	total := 0.0
	for _, c := range contribs {
		total += c.weighted
	}
	score := roundScore(clamp01(total))

	// Rank contributions descending; ties fall back to the fixed dimension
	// priority so the ordering is stable and deterministic.
	sort.SliceStable(contribs, func(i, j int) bool {
		if contribs[i].weighted != contribs[j].weighted {
			return contribs[i].weighted > contribs[j].weighted
		}
		return contribs[i].dim < contribs[j].dim
	})

	reasons := make([]string, 0, maxReasons)
	for _, c := range contribs[:maxReasons] {
		reasons = append(reasons, reasonFor(c, therapeuticArea))
	}

	return Result{
		TherapeuticArea: therapeuticArea,
		UseCase:         profile.UseCase,
		Score:           score,
		Band:            BandFor(score),
		Components:      raw,
		Reasons:         reasons,
		Uncertainty:     uncertaintyFor(notes),
	}
}

// BandFor maps a score onto its reliability band.
func BandFor(score float64) Band {
	switch {
	case score >= BandHighMin:
		return BandHigh
	case score >= BandModerateMin:
		return BandModerate
	case score >= BandExploratoryMin:
		return BandExploratory
	default:
		return BandLow
	}
}

// uncertaintyFor counts unique defaulted fields; an unknown journal is one
// field like any other. With both rigor signals supplied it alone yields
// medium, not high: the caller attested to everything the table could not.
func uncertaintyFor(notes []DefaultedField) Uncertainty {
	seen := make(map[DefaultedField]bool, len(notes))
	for _, n := range notes {
		seen[n] = true
	}
	switch {
	case len(seen) >= 2:
		return UncertaintyHigh
	case len(seen) == 1:
		return UncertaintyMedium
	default:
		return UncertaintyLow
	}
}

func reasonFor(c contribution, ta string) string {
	switch c.dim {
	case dimAuthority:
		switch {
		case c.raw >= 0.8:
			return fmt.Sprintf("Specialized authority in %s", ta)
		case c.raw >= 0.6:
			return fmt.Sprintf("Moderate authority in %s", ta)
		default:
			return fmt.Sprintf("Limited authority signal in %s", ta)
		}
	case dimGuideline:
		if c.raw >= 0.8 {
			return "Cited by clinical guideline bodies"
		}
		return "Little presence in clinical guidelines"
	case dimRelevance:
		switch {
		case c.raw >= 0.8:
			return fmt.Sprintf("Highly specialized for %s", ta)
		case c.raw >= 0.5:
			return fmt.Sprintf("Broad coverage that includes %s", ta)
		default:
			return fmt.Sprintf("Weak specialization match for %s", ta)
		}
	case dimRigor:
		if c.raw >= 0.8 {
			return "Strong editorial rigor signals"
		}
		return "Partial editorial rigor signals"
	default:
		if c.raw >= 0.8 {
			return "Recent publication"
		}
		return "Older publication"
	}
}

func roundScore(v float64) float64 {
	shift := math.Pow10(ScorePrecision)
	return math.Round(v*shift) / shift
}
