package httpclient

import (
	"math/rand/v2"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/crosschain-cycler/internal/ratelimit"
)

// headerTransport sets fixed headers on a clone of each request.
type headerTransport struct {
	next    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		r.Header.Set(k, v)
	}
	return t.next.RoundTrip(r)
}

// userAgentTransport picks a User-Agent per request from a pool.
type userAgentTransport struct {
	next http.RoundTripper
	pool []string
	pick func(n int) int
}

// NewUserAgentTransport decorates next with per-request User-Agent rotation.
func NewUserAgentTransport(next http.RoundTripper, pool []string, pick func(n int) int) http.RoundTripper {
	if len(pool) == 0 {
		return next
	}
	if pick == nil {
		pick = rand.IntN
	}
	return &userAgentTransport{next: next, pool: pool, pick: pick}
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.pool[t.pick(len(t.pool))])
	return t.next.RoundTrip(r)
}

// limitTransport waits on the limiter before each request.
type limitTransport struct {
	next    http.RoundTripper
	limiter *ratelimit.Limiter
}

func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// countingTransport records one counter sample per request, labelled by status.
type countingTransport struct {
	next     http.RoundTripper
	counter  metric.Int64Counter
	provider string
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	t.counter.Add(req.Context(), 1, metric.WithAttributes(
		attribute.String("provider", t.provider),
		attribute.String("status", status),
	))

	return resp, err
}
