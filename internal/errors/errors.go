package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors that classify every failure surfaced by the engine.
// Callers should match with errors.Is via the helpers below rather than
// comparing messages.
var (
	// ErrValidation marks malformed caller input (bad split count,
	// negative quantity, inconsistent rule definition).
	ErrValidation = errors.New("validation error")

	// ErrCalculation marks arithmetic that produced an invalid state,
	// e.g. a negative total. Configuration bugs surface here.
	ErrCalculation = errors.New("calculation error")

	// ErrNotFound marks a missing resource lookup.
	ErrNotFound = errors.New("not found")

	// ErrInternal marks unexpected failures that are not the caller's fault.
	ErrInternal = errors.New("internal error")
)

// Machine-readable codes matching the sentinels above. These are stable and
// safe to expose to downstream consumers (DTO layers, ledgers).
const (
	ErrCodeValidation  = "validation_error"
	ErrCodeCalculation = "calculation_error"
	ErrCodeNotFound    = "not_found"
	ErrCodeInternal    = "internal_error"
)

// InternalError is the concrete error type produced by the builder in this
// package. It carries a user-facing hint and optional reportable details
// alongside the wrapped cause chain.
type InternalError struct {
	err               error
	hint              string
	reportableDetails map[string]any
}

func (e *InternalError) Error() string {
	if e.err == nil {
		return "unknown error"
	}
	return e.err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.err
}

// Hint returns the human-readable hint attached to the error, if any.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns structured details safe to surface to callers.
func (e *InternalError) ReportableDetails() map[string]any {
	return e.reportableDetails
}

// Code returns the machine-readable code for err based on its sentinel mark.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return ErrCodeValidation
	case errors.Is(err, ErrCalculation):
		return ErrCodeCalculation
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	default:
		return ErrCodeInternal
	}
}

// Hint extracts the hint from err when it was built by this package.
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Hint()
	}
	return ""
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsCalculation(err error) bool {
	return errors.Is(err, ErrCalculation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
