package errors

import (
	"github.com/cockroachdb/errors"
)

// ErrorBuilder provides a fluent API for constructing engine errors:
//
//	ierr.NewError("split count must be positive").
//		WithHint("Split requires at least one share").
//		WithReportableDetails(map[string]any{"parts": n}).
//		Mark(ierr.ErrValidation)
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts a builder from a fresh error message.
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{
		err: &InternalError{err: errors.New(msg)},
	}
}

// NewErrorf starts a builder from a formatted error message.
func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{
		err: &InternalError{err: errors.Newf(format, args...)},
	}
}

// WithError starts a builder wrapping an existing cause.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{
		err: &InternalError{err: err},
	}
}

// WithHint attaches a human-readable hint for API consumers.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted hint.
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err.hint = errors.Newf(format, args...).Error()
	return b
}

// WithReportableDetails attaches structured details that are safe to expose.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark finalizes the builder, tagging the error with a sentinel so callers
// can classify it with errors.Is.
func (b *ErrorBuilder) Mark(sentinel error) error {
	b.err.err = errors.Mark(b.err.err, sentinel)
	return b.err
}
