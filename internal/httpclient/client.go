package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	// Default connection pool settings
	defaultDialKeepAlive         = 10 * time.Second
	defaultRequestTimeout        = 30 * time.Second
	defaultMaxIdleConns          = 0
	defaultMaxConnsPerHost       = 5
	defaultIdleConnTimeout       = 2 * time.Minute
	defaultExpectContinueTimeout = 100 * time.Millisecond

	metricRequestCounter = "rpc_http_requests_total"
)

// New builds an *http.Client for one JSON-RPC endpoint.
//
// Transport layers, outermost first: otelhttp tracing, request counter,
// rate limiter, User-Agent rotation, fixed headers, pooled base transport.
func New(opts ...ClientOption) (*http.Client, error) {
	options := NewClientOptions(opts...)

	base := options.roundTripper
	if base == nil {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxConnsPerHost:       defaultMaxConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ExpectContinueTimeout: defaultExpectContinueTimeout,
		}
	}

	rt := base
	if len(options.headers) > 0 {
		rt = &headerTransport{next: rt, headers: options.headers}
	}
	if len(options.userAgents) > 0 {
		rt = NewUserAgentTransport(rt, options.userAgents, options.pick)
	}
	if options.limiter != nil && !options.limiter.Unlimited() {
		rt = &limitTransport{next: rt, limiter: options.limiter}
	}

	providerName := options.providerName
	if providerName == "" {
		providerName = "default"
	}

	meterProvider := options.meterProvider
	if meterProvider == nil {
		meterProvider = otel.GetMeterProvider()
	}

	counter, err := meterProvider.Meter("rpc_http_client").Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of JSON-RPC HTTP requests"),
	)
	if err != nil {
		return nil, err
	}
	rt = &countingTransport{next: rt, counter: counter, provider: providerName}

	rt = otelhttp.NewTransport(
		rt,
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	)

	return &http.Client{
		Transport: rt,
		Timeout:   options.requestTimeout,
	}, nil
}

// CloseIdle releases pooled connections held by c.
func CloseIdle(c *http.Client) {
	if c != nil {
		c.CloseIdleConnections()
	}
}
