package errs

import (
	"errors"
	"fmt"
)

// ErrTransactionFailed is the sentinel for every failure of the transaction mechanism itself.
var ErrTransactionFailed = errors.New("transaction failed")

var (
	// ErrNestedTransaction is returned when a scope is opened while another one is active
	// on the same context or handle.
	ErrNestedTransaction = NewTransactionError("nested transactions are not supported")

	// ErrScopeNotActive is returned by repository accessors used before Begin
	// or after the scope has been committed or rolled back.
	ErrScopeNotActive = NewTransactionError("scope not active")

	// ErrNoActiveTransaction is returned by Commit or Rollback on a handle without a running transaction.
	ErrNoActiveTransaction = NewTransactionError("no active transaction")
)

// TransactionError reports an infrastructure failure during begin, commit or rollback,
// or a misuse of the unit of work.
type TransactionError struct {
	Reason    string
	Cause     error
	retryable bool
}

// NewTransactionError creates a non-retryable TransactionError.
func NewTransactionError(reason string) *TransactionError {
	return &TransactionError{Reason: reason}
}

// NewTransactionErrorWithCause creates a non-retryable TransactionError carrying the underlying cause.
func NewTransactionErrorWithCause(reason string, cause error) *TransactionError {
	return &TransactionError{Reason: reason, Cause: cause}
}

// NewTransactionConflictError creates a TransactionError for serialization failures,
// deadlocks and lock timeouts. Such failures may succeed when the whole scope is retried.
func NewTransactionConflictError(cause error) *TransactionError {
	return &TransactionError{Reason: "concurrent update conflict", Cause: cause, retryable: true}
}

func (e *TransactionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrTransactionFailed, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrTransactionFailed, e.Reason)
}

func (e *TransactionError) Unwrap() error {
	return ErrTransactionFailed
}

// Retryable reports whether re-running the whole scope may succeed.
func (e *TransactionError) Retryable() bool {
	return e.retryable
}

// IsRetryable reports whether err is a TransactionError that may succeed on retry.
func IsRetryable(err error) bool {
	var txErr *TransactionError
	return errors.As(err, &txErr) && txErr.Retryable()
}
