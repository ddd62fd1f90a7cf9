// Package httpclient builds the instrumented HTTP clients used for JSON-RPC.
package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/crosschain-cycler/internal/ratelimit"
)

// ClientOptions holds configuration for the instrumented HTTP client.
type ClientOptions struct {
	meterProvider  metric.MeterProvider
	providerName   string
	roundTripper   http.RoundTripper
	requestTimeout time.Duration
	headers        map[string]string
	limiter        *ratelimit.Limiter
	userAgents     []string
	pick           func(n int) int
}

// ClientOption is a function that configures ClientOptions.
type ClientOption func(*ClientOptions)

// NewClientOptions creates ClientOptions from variadic options.
func NewClientOptions(opts ...ClientOption) *ClientOptions {
	options := &ClientOptions{requestTimeout: defaultRequestTimeout}
	for _, o := range opts {
		o(options)
	}
	return options
}

// WithMeterProvider sets the OTEL meter provider.
func WithMeterProvider(mp metric.MeterProvider) ClientOption {
	return func(o *ClientOptions) {
		o.meterProvider = mp
	}
}

// WithProviderName labels metrics with the endpoint name (e.g. "base-sepolia").
func WithProviderName(name string) ClientOption {
	return func(o *ClientOptions) {
		o.providerName = name
	}
}

// WithRoundTripper replaces the pooled base transport.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(o *ClientOptions) {
		o.roundTripper = rt
	}
}

// WithRequestTimeout sets the per-request timeout. Zero disables it.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.requestTimeout = timeout
	}
}

// WithHeaders sets fixed headers for all requests.
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *ClientOptions) {
		o.headers = headers
	}
}

// WithRateLimiter paces every request through l.
func WithRateLimiter(l *ratelimit.Limiter) ClientOption {
	return func(o *ClientOptions) {
		o.limiter = l
	}
}

// WithRotatingUserAgent sets a random entry of pool as User-Agent on every request.
// pick returns an index in [0,n); nil uses math/rand/v2.
func WithRotatingUserAgent(pool []string, pick func(n int) int) ClientOption {
	return func(o *ClientOptions) {
		o.userAgents = pool
		o.pick = pick
	}
}
