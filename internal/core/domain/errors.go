package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDateRange indicates a range whose start date falls
	// after its end date.
	ErrInvalidDateRange = errors.New("invalid date range: start after end")

	// ErrCredentials indicates the API credentials could not be
	// obtained or decrypted. Fatal before any fetching begins.
	ErrCredentials = errors.New("credentials unavailable")

	// ErrSnapshotMismatch indicates the persisted daily record set does
	// not match the in-memory record set after write-back verification.
	// The run ends without advancing the baseline.
	ErrSnapshotMismatch = errors.New("persisted snapshot does not match in-memory snapshot")
)
