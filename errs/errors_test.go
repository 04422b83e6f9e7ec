package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIOFailureFamily(t *testing.T) {
	family := []error{
		ErrInvalidMagicNumber,
		ErrInvalidHeaderSize,
		ErrInvalidHeaderFlags,
		ErrChecksumMismatch,
		ErrPayloadLengthMismatch,
		ErrInvalidScheme,
		ErrTruncatedRecord,
		ErrTooManyRecords,
	}

	for _, err := range family {
		t.Run(err.Error(), func(t *testing.T) {
			require.ErrorIs(t, err, ErrIOFailure)
			wrapped := fmt.Errorf("read foo.dat: %w", err)
			require.ErrorIs(t, wrapped, err)
			require.ErrorIs(t, wrapped, ErrIOFailure)
		})
	}
}

func TestNumericalErrorsAreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrDistributionMismatch, ErrIOFailure))
	require.False(t, errors.Is(ErrSingularMatrix, ErrDomainViolation))
	require.NotEqual(t, ErrTooManyExponentials, ErrNotConverged)
}
