package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether an operation is
// retryable, a no-op, or needs operator intervention.
type Kind string

const (
	KindInvalidAmount       Kind = "invalid_amount"
	KindInvalidState        Kind = "invalid_state"
	KindAlreadyForwarded    Kind = "already_forwarded"
	KindNoSpendableFunds    Kind = "no_spendable_funds"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindKeyNotFound         Kind = "key_not_found"
	KindDecryptionFailed    Kind = "decryption_failed"
	KindNetworkError        Kind = "network_error"
	KindUnsupportedChain    Kind = "unsupported_chain"
	KindInternal            Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func Wrap(err error, kind Kind, format string, args ...any) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf extracts the Kind from an error chain. Unclassified errors report
// KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether a failed forwarding attempt may be re-driven
// later. Economic failures can resolve once more funds arrive; network
// failures can resolve on their own. Configuration and state failures
// cannot.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetworkError, KindNoSpendableFunds, KindInsufficientBalance:
		return true
	default:
		return false
	}
}
