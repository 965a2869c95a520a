package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors abort a request (or the process at load time)
	// because a wrong weighting contract would silently mis-rank whole
	// result sets.
	ErrConfiguration     = errors.New("configuration error")
	ErrUnknownUseCase    = fmt.Errorf("%w: unknown use case", ErrConfiguration)
	ErrInvalidWeights    = fmt.Errorf("%w: invalid weight profile", ErrConfiguration)
	ErrEmptyJournalTable = fmt.Errorf("%w: empty journal authority table", ErrConfiguration)

	// Validation errors for caller input
	ErrInvalidInput   = errors.New("invalid input")
	ErrMissingJournal = fmt.Errorf("%w: journal name is required", ErrInvalidInput)
	ErrMissingArea    = fmt.Errorf("%w: therapeutic area is required", ErrInvalidInput)
	ErrMissingDate    = fmt.Errorf("%w: publication date is required", ErrInvalidInput)

	// Not found errors for the persistence layer
	ErrNotFound         = errors.New("resource not found")
	ErrJournalNotFound  = fmt.Errorf("%w: journal", ErrNotFound)
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)
)

// NewUnknownUseCaseError reports the offending token so the caller can fix
// its toggle instead of retrying.
func NewUnknownUseCaseError(token string) error {
	return fmt.Errorf("%w: %q (expected \"clinical\" or \"exploratory\")", ErrUnknownUseCase, token)
}

// NewInvalidWeightsError reports a profile whose weights do not sum to 1.0.
func NewInvalidWeightsError(useCase string, sum float64) error {
	return fmt.Errorf("%w: %s weights sum to %.6f, want 1.0", ErrInvalidWeights, useCase, sum)
}

// NewNotFoundError attaches a resource name and identifier.
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsConfigurationError reports whether err is fatal to the request, as
// opposed to a per-article data-quality issue that folds into uncertainty.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsNotFoundError reports whether err represents a missing resource.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
