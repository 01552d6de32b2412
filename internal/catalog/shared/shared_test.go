package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 25)
	require.Equal(t, 2, p.TotalPages)
	require.Equal(t, 20, p.Offset())

	empty := NewPagination(1, 20, 0)
	require.Equal(t, 0, empty.TotalPages)
	require.Equal(t, 0, empty.Offset())
}

func TestParseSince(t *testing.T) {
	got, err := ParseSince("")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = ParseSince("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseSince("2024-03-01T10:30:00-03:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), *got)

	_, err = ParseSince("01/03/2024")
	require.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 0, DaysBetween(start, start.Add(23*time.Hour)))
	require.Equal(t, 3, DaysBetween(start, start.Add(80*time.Hour)))
	require.Equal(t, 0, DaysBetween(start, start.Add(-time.Hour)))
}

func TestNormalizeAssignsSingleKind(t *testing.T) {
	raw := errors.New("connection reset")
	err := Normalize(raw)
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, raw)

	nf := NotFound("product", "MTL-001")
	require.Same(t, ErrNotFound, KindOf(Normalize(nf)))
	require.Same(t, ErrDuplicateCode, KindOf(fmt.Errorf("create: %w", ErrDuplicateCode)))
	require.Nil(t, KindOf(nil))
}

func TestDefaultsWithFallbacks(t *testing.T) {
	d := Defaults{DefaultPageSize: 500, MaxPageSize: 50}.WithFallbacks()
	require.Equal(t, DefaultPromotionWindowDays, d.PromotionWindowDays)
	require.Equal(t, 50, d.DefaultPageSize)
}

type sampleInput struct {
	Code  string `validate:"required,min=3,max=50"`
	Stock int    `validate:"gte=0"`
}

func TestValidateMapsToInvalidInput(t *testing.T) {
	require.NoError(t, Validate(sampleInput{Code: "MTL-001"}))

	err := Validate(sampleInput{Code: "AB", Stock: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "code must be at least 3")
	require.Contains(t, err.Error(), "stock must be >= 0")
}
