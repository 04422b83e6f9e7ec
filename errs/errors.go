// Package errs defines the sentinel errors shared by the urfit packages.
//
// Callers match them with errors.Is; most call sites wrap a sentinel with
// fmt.Errorf to attach the offending sizes or values.
package errs

import (
	"errors"
	"fmt"
)

// Numerical errors.
var (
	// ErrDistributionMismatch is returned when two distributions disagree in
	// sample count or resampling scheme.
	ErrDistributionMismatch = errors.New("distribution mismatch")
	// ErrSingularMatrix is returned when a matrix inverse or linear solve fails.
	ErrSingularMatrix = errors.New("singular matrix")
	// ErrDomainViolation is returned when a checked transform receives an
	// argument outside its domain.
	ErrDomainViolation = errors.New("domain violation")
	// ErrTooManyExponentials is returned when the Pade-Laplace derivative
	// order exceeds the factorial table.
	ErrTooManyExponentials = errors.New("too many exponentials requested")
	// ErrInvalidDimensions is returned for inputs whose shapes do not agree.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrNotConverged is returned when an iterative routine stops before
	// reaching its tolerance.
	ErrNotConverged = errors.New("not converged")
)

// Fit setup errors.
var (
	ErrInvalidParameterMap = errors.New("invalid parameter map")
	ErrUnknownModel        = errors.New("unknown model")
	ErrEmptyDataset        = errors.New("empty dataset")
)

// ErrIOFailure is the parent of every persisted-format error.
var ErrIOFailure = errors.New("io failure")

// Persisted-format errors. All of them match ErrIOFailure.
var (
	ErrInvalidMagicNumber    = fmt.Errorf("%w: invalid magic number", ErrIOFailure)
	ErrInvalidHeaderSize     = fmt.Errorf("%w: invalid header size", ErrIOFailure)
	ErrInvalidHeaderFlags    = fmt.Errorf("%w: invalid header flags", ErrIOFailure)
	ErrChecksumMismatch      = fmt.Errorf("%w: checksum mismatch", ErrIOFailure)
	ErrPayloadLengthMismatch = fmt.Errorf("%w: payload length mismatch", ErrIOFailure)
	ErrInvalidScheme         = fmt.Errorf("%w: invalid scheme code", ErrIOFailure)
	ErrTruncatedRecord       = fmt.Errorf("%w: truncated record", ErrIOFailure)
	ErrTooManyRecords        = fmt.Errorf("%w: too many records", ErrIOFailure)
)
