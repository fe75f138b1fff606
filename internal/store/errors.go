package store

import (
	"errors"
	"fmt"
)

// Domain errors returned by every [Storage] implementation. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrNotFound is the root of every lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when no user matches the id or email.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrPaymentNotFound is returned when no payment matches the id.
	ErrPaymentNotFound = fmt.Errorf("payment %w", ErrNotFound)

	// ErrConflict is the root of every uniqueness violation.
	ErrConflict = errors.New("already exists")

	// ErrEmailAlreadyExists is returned when a user with the same email is
	// already registered.
	ErrEmailAlreadyExists = fmt.Errorf("email %w", ErrConflict)

	// ErrPhoneAlreadyExists is returned when a user with the same phone is
	// already registered.
	ErrPhoneAlreadyExists = fmt.Errorf("phone %w", ErrConflict)

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the user was modified since the caller read it.
	ErrVersionConflict = errors.New("user version conflict occurred")

	// ErrPaymentStateConflict is returned when a payment is no longer in the
	// status the update expected.
	ErrPaymentStateConflict = errors.New("payment status conflict occurred")

	// ErrNegativeBalance is returned when an update would leave free trials
	// or points below zero.
	ErrNegativeBalance = errors.New("balance must not be negative")

	// ErrBackendUnavailable wraps every I/O, network or driver failure.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// Low-level operation errors. They are wrapped together with
// [ErrBackendUnavailable] so the cause stays visible in logs.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or UPDATE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when row iteration fails mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrReadingFile is returned when a collection file cannot be read or
	// decoded.
	ErrReadingFile = errors.New("failed to read collection file")

	// ErrWritingFile is returned when a collection file cannot be rewritten.
	ErrWritingFile = errors.New("failed to write collection file")
)

// unavailable wraps err with [ErrBackendUnavailable] and the low-level cause.
func unavailable(cause, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrBackendUnavailable, cause, err)
}
