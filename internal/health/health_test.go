package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/internal/logger"
)

func TestServer_HealthDegraded(t *testing.T) {
	s := NewServer(0, "test", logger.NewDiscard())
	s.RegisterCheck("gas_oracle_base", func(context.Context) (bool, string) { return true, "1.2 gwei" })
	s.RegisterCheck("cycle_loop", func(context.Context) (bool, string) { return false, "stalled" })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.Checks["cycle_loop"].Healthy)
	assert.Equal(t, "1.2 gwei", status.Checks["gas_oracle_base"].Message)
}

func TestServer_ReadyAndLive(t *testing.T) {
	s := NewServer(0, "test", logger.NewDiscard())
	s.RegisterCheck("ok", func(context.Context) (bool, string) { return true, "" })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, "alive", rec.Body.String())
}

func TestHeartbeat_Check(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	h := &Heartbeat{now: func() time.Time { return now }}
	h.Beat()

	check := h.Check(time.Hour)

	ok, _ := check(context.Background())
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	ok, msg := check(context.Background())
	assert.False(t, ok)
	assert.Contains(t, msg, "no progress")

	h.Beat()
	ok, _ = check(context.Background())
	assert.True(t, ok)
}
