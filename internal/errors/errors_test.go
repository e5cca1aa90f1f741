package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_MarkAndClassify(t *testing.T) {
	err := NewError("quantity cannot be negative").
		WithHint("Line quantities must be zero or positive").
		WithReportableDetails(map[string]any{"quantity": "-1"}).
		Mark(ErrValidation)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, IsCalculation(err))
	assert.Equal(t, ErrCodeValidation, Code(err))
	assert.Equal(t, "Line quantities must be zero or positive", Hint(err))
	assert.Contains(t, err.Error(), "quantity cannot be negative")

	var ie *InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "-1", ie.ReportableDetails()["quantity"])
}

func TestBuilder_WrapsCause(t *testing.T) {
	cause := NewError("inner").Mark(ErrCalculation)
	wrapped := WithError(cause).WithHint("outer context").Mark(ErrCalculation)

	assert.True(t, IsCalculation(wrapped))
	assert.Equal(t, ErrCodeCalculation, Code(wrapped))
}

func TestCode_DefaultsToInternal(t *testing.T) {
	err := NewError("mystery").Mark(ErrInternal)
	assert.Equal(t, ErrCodeInternal, Code(err))
	assert.Equal(t, "", Hint(NewError("bare").Mark(ErrNotFound)))
}
