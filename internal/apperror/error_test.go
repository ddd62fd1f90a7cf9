package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsExistingCode(t *testing.T) {
	inner := New(CodeTransactionReverted, WithContext("0xabc"))
	wrapped := fmt.Errorf("step failed: %w", inner)

	got := Wrap(wrapped, CodeConfirmationFailed, "bridge")

	assert.Equal(t, CodeTransactionReverted, got.Code)
	assert.Equal(t, "0xabc", got.Context)
}

func TestWrap_LeavesSharedErrorUntouched(t *testing.T) {
	shared := New(CodeCircuitOpen)

	got := Wrap(shared, CodeRouteResolutionFailed, "resolve trade")

	assert.Equal(t, CodeCircuitOpen, got.Code)
	assert.Equal(t, "resolve trade", got.Context)
	assert.Empty(t, shared.Context)
	assert.NotSame(t, shared, got)
	assert.ErrorIs(t, got, shared)
}

func TestWrap_ClassifiesPlainError(t *testing.T) {
	cause := errors.New("connection refused")

	got := Wrap(cause, CodeSubmissionFailed, "base")

	require.NotNil(t, got)
	assert.Equal(t, CodeSubmissionFailed, got.Code)
	assert.ErrorIs(t, got, cause)
	assert.Contains(t, got.Error(), "connection refused")
	assert.Nil(t, Wrap(nil, CodeSubmissionFailed, ""))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := New(CodeRouteResolutionFailed, WithCause(errors.New("empty trade")))

	assert.True(t, errors.Is(err, New(CodeRouteResolutionFailed)))
	assert.False(t, errors.Is(err, New(CodeDependencyFailed)))
	assert.True(t, HasCode(err, CodeDependencyFailed, CodeRouteResolutionFailed))
	assert.Equal(t, CodeUnknownError, GetCode(errors.New("plain")))
}

func TestLogArgs(t *testing.T) {
	err := New(CodeGasPriceTooHigh, WithContext("kite"), WithMessage("gas 9 gwei > cap 5 gwei"))

	args := err.LogArgs()

	assert.Equal(t, []any{"code", "GAS_PRICE_TOO_HIGH", "message", "gas 9 gwei > cap 5 gwei", "context", "kite"}, args)
}
