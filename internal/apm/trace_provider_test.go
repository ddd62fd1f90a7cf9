package apm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	h, err := ParseHeaders("x-honeycomb-team=abc, x-dataset = cycles")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x-honeycomb-team": "abc", "x-dataset": "cycles"}, h)

	h, err = ParseHeaders("")
	require.NoError(t, err)
	assert.Empty(t, h)

	_, err = ParseHeaders("novalue")
	assert.Error(t, err)
}

func TestNewTraceProvider_EmptyIsNoop(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), Settings{Provider: EmptyProvider}, logger.NewDiscard())

	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}
