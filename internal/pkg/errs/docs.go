// Package errs provides standardized error types for the bookstore order core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package groups errors into four kinds:
//   - Validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - Not found: ObjectNotFoundError
//   - Conflict: ConflictError (illegal status transitions, insufficient stock, duplicates)
//   - Transaction: TransactionError (infrastructure failures and unit of work misuse)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works by kind
//
// Domain and conflict errors travel unchanged through the transaction coordinator.
// Only the coordinator turns infrastructure failures into a TransactionError, which
// lets callers tell "a business rule failed" apart from "the transaction mechanism failed".
package errs
