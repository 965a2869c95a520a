package reliability

import (
	"math"
	"strings"

	"relimeter/domain/core"
)

// WeightProfile is a complete set of dimension weights for one use case.
// Weights are non-negative and sum to 1.0 within tolerance.
type WeightProfile struct {
	UseCase   UseCase `json:"use_case"`
	Authority float64 `json:"authority"`
	Relevance float64 `json:"relevance"`
	Freshness float64 `json:"freshness"`
	Guideline float64 `json:"guideline"`
	Rigor     float64 `json:"rigor"`
}

// WeightSumTolerance bounds the acceptable deviation of a profile's weight
// sum from 1.0.
const WeightSumTolerance = 1e-6

// The two shipped profiles. Clinical leans on established authority and
// guideline presence; exploratory favors specialization and recency.
var defaultProfiles = map[UseCase]WeightProfile{
	UseCaseClinical: {
		UseCase:   UseCaseClinical,
		Authority: 0.45,
		Guideline: 0.25,
		Relevance: 0.20,
		Rigor:     0.05,
		Freshness: 0.05,
	},
	UseCaseExploratory: {
		UseCase:   UseCaseExploratory,
		Relevance: 0.40,
		Freshness: 0.25,
		Authority: 0.20,
		Rigor:     0.10,
		Guideline: 0.05,
	},
}

func init() {
	// The profile set is closed and fixed at compile time; a sum violation
	// is a programming error that must surface at load, not at call time.
	if err := ValidateProfiles(); err != nil {
		panic(err)
	}
}

// Validate checks the profile's weight invariants.
func (p WeightProfile) Validate() error {
	for _, w := range []float64{p.Authority, p.Relevance, p.Freshness, p.Guideline, p.Rigor} {
		if w < 0 {
			return core.NewInvalidWeightsError(string(p.UseCase), p.Sum())
		}
	}
	if math.Abs(p.Sum()-1.0) > WeightSumTolerance {
		return core.NewInvalidWeightsError(string(p.UseCase), p.Sum())
	}
	return nil
}

// Sum returns the total of the five weights.
func (p WeightProfile) Sum() float64 {
	return p.Authority + p.Relevance + p.Freshness + p.Guideline + p.Rigor
}

// ValidateProfiles validates every shipped profile.
func ValidateProfiles() error {
	for _, p := range defaultProfiles {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ResolveUseCase maps a caller-supplied token onto the closed use-case set.
// An unrecognized token is a configuration error naming the token: the use
// case controls the entire weighting contract, and silently defaulting it
// would silently mis-rank results.
func ResolveUseCase(token string) (UseCase, error) {
	switch UseCase(strings.ToLower(strings.TrimSpace(token))) {
	case UseCaseClinical:
		return UseCaseClinical, nil
	case UseCaseExploratory:
		return UseCaseExploratory, nil
	default:
		return "", core.NewUnknownUseCaseError(token)
	}
}

// ProfileFor returns the weight profile for a resolved use case.
func ProfileFor(useCase UseCase) WeightProfile {
	return defaultProfiles[useCase]
}

// Profiles returns the shipped profiles in a stable order for API exposure.
func Profiles() []WeightProfile {
	return []WeightProfile{
		defaultProfiles[UseCaseClinical],
		defaultProfiles[UseCaseExploratory],
	}
}
