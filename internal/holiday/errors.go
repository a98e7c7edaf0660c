package holiday

import "errors"

// Error kinds shared by the store, importer and weather decorator.
// Callers wrap them with context and test with errors.Is.
var (
	// ErrInvalidInput marks malformed user or file input: blank names, bad dates, bad week numbers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when no holiday matches a lookup or removal.
	ErrNotFound = errors.New("holiday not found")

	// ErrDuplicate is returned when an operation would create a second record with the same name and date.
	ErrDuplicate = errors.New("holiday already present")

	// ErrExternal marks network or parsing failures in importer sources and weather providers.
	ErrExternal = errors.New("external source failure")
)
