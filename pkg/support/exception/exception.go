// Package exception provides custom error types and error handling utilities for the
// shopseed generator. It standardizes errors raised during data generation, allowing
// them to be categorized as fatal to the run or skippable per item.
package exception

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidDistribution is a sentinel error indicating an empty, negative-weight,
// or non-positive-sum weighted distribution. It signals misconfiguration and is
// raised before any generation begins.
var ErrInvalidDistribution = errors.New("invalid distribution")

// ErrMissingMethodMapping is a sentinel error indicating that a configured payment
// method code has no corresponding id in the payment_methods table. It is skippable:
// the affected attempt is dropped and the run continues.
var ErrMissingMethodMapping = errors.New("missing payment method mapping")

// ErrStorageFailure is a sentinel error indicating that the persistence layer rejected
// a batch. It is fatal to the run; no retries are attempted.
var ErrStorageFailure = errors.New("storage failure")

// BatchError is a custom error type for failures during batch generation.
// It holds the module where the error occurred, a message, the wrapped original error,
// and flags indicating whether it is retryable or skippable.
type BatchError struct {
	// Module indicates the module where the error occurred (e.g., "sampling", "simulator", "writer", "config").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// isRetryable indicates whether this error is retryable.
	isRetryable bool
	// isSkippable indicates whether this error is skippable.
	isSkippable bool
	// StackTrace is the stack trace at the time of the error (for debugging).
	StackTrace string
}

// NewBatchError creates a new BatchError instance.
// module: The module where the error occurred.
// message: The error message.
// originalErr: The original error to wrap.
// isSkippable: Whether this error is skippable.
// isRetryable: Whether this error is retryable.
func NewBatchError(module, message string, originalErr error, isSkippable, isRetryable bool) *BatchError {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)

	return &BatchError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		isRetryable: isRetryable,
		isSkippable: isSkippable,
		StackTrace:  string(buf[:n]),
	}
}

// NewInvalidDistribution creates a fatal BatchError wrapping ErrInvalidDistribution.
// detail describes which distribution was rejected and why.
func NewInvalidDistribution(module, detail string) *BatchError {
	return NewBatchError(module, detail, ErrInvalidDistribution, false, false)
}

// NewMissingMethodMapping creates a skippable BatchError wrapping
// ErrMissingMethodMapping for the given payment method code.
func NewMissingMethodMapping(module, code string) *BatchError {
	return NewBatchError(module,
		fmt.Sprintf("payment method '%s' has no storage id", code),
		ErrMissingMethodMapping, true, false)
}

// NewStorageFailure creates a fatal BatchError wrapping ErrStorageFailure
// together with the storage layer's original error.
func NewStorageFailure(module, message string, originalErr error) *BatchError {
	var errToWrap error
	if originalErr != nil {
		errToWrap = errors.Join(ErrStorageFailure, originalErr)
	} else {
		errToWrap = ErrStorageFailure
	}
	return NewBatchError(module, message, errToWrap, false, false)
}

// Error implements the error interface.
// It returns the error's module, message, and the string representation of the original error.
func (e *BatchError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *BatchError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns whether this error is retryable.
func (e *BatchError) IsRetryable() bool {
	return e.isRetryable
}

// IsSkippable returns whether this error is skippable.
func (e *BatchError) IsSkippable() bool {
	return e.isSkippable
}

// IsBatchError determines if the given error is of type BatchError.
func IsBatchError(err error) bool {
	if err == nil {
		return false
	}
	var be *BatchError
	return errors.As(err, &be)
}

// IsInvalidDistribution reports whether err wraps ErrInvalidDistribution.
func IsInvalidDistribution(err error) bool {
	return errors.Is(err, ErrInvalidDistribution)
}

// IsMissingMethodMapping reports whether err wraps ErrMissingMethodMapping.
func IsMissingMethodMapping(err error) bool {
	return errors.Is(err, ErrMissingMethodMapping)
}

// IsStorageFailure reports whether err wraps ErrStorageFailure.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// ExtractErrorMessage extracts the error message string from an error.
// For BatchError, it returns the cleaner Message field.
// Otherwise, it returns the standard Error() string.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BatchError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
