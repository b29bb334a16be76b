package domain

import "errors"

// Domain errors represent error conditions in the speechprep domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrSplitNotFound is returned when a named split is absent from a dataset.
	ErrSplitNotFound = errors.New("speechprep: split not found")

	// ErrEmptyBatch is returned when collation is attempted on zero examples.
	ErrEmptyBatch = errors.New("speechprep: empty batch")

	// ErrMissingFeatures is returned when an example lacks input features.
	ErrMissingFeatures = errors.New("speechprep: example missing input features")

	// ErrMissingLabels is returned when an example lacks labels.
	ErrMissingLabels = errors.New("speechprep: example missing labels")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("speechprep: invalid configuration")
)
