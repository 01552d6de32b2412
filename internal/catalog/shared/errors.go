package shared

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the catalog core. Every failure returned by a
// catalog operation wraps exactly one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCode     = errors.New("duplicate code")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrMissingFilter     = errors.New("missing filter")
	ErrStoreFailure      = errors.New("store failure")
)

var kinds = []error{
	ErrNotFound,
	ErrDuplicateCode,
	ErrInvalidInput,
	ErrInvalidDateFormat,
	ErrMissingFilter,
	ErrStoreFailure,
}

// KindOf returns the sentinel kind wrapped by err, or nil when err carries none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Normalize guarantees err carries a kind. Unclassified errors become store failures.
func Normalize(err error) error {
	if err == nil || KindOf(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreFailure, err)
}

// StoreError wraps a driver level failure for the named operation.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}

// Invalid builds an ErrInvalidInput with detail.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound builds an ErrNotFound for the given entity and key.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, key)
}
