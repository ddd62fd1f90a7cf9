package router

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/swap/app"
	"github.com/fd1az/crosschain-cycler/business/swap/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/circuitbreaker"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

type routerMetrics struct {
	quotes       metric.Int64Counter
	quoteLatency metric.Float64Histogram
}

// Router holds what outlives a cycle: the contract address, the breaker
// guarding quote calls and the instruments. Bind it to a cycle's reader
// with For.
type Router struct {
	address common.Address
	logger  logger.LoggerInterface

	cb *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *routerMetrics
}

// NewRouter creates a Router for the contract at address.
func NewRouter(address common.Address, log logger.LoggerInterface) (*Router, error) {
	r := &Router{
		address: address,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cfg := circuitbreaker.DefaultConfig("swap-router")
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit breaker state changed",
			"name", name,
			"from", from.String(),
			"to", to.String(),
		)
	}
	r.cb = circuitbreaker.New[[]byte](cfg)

	return r, nil
}

func (r *Router) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &routerMetrics{}

	r.metrics.quotes, err = meter.Int64Counter(
		"route_quotes_total",
		metric.WithDescription("Route quote calls, by result"),
		metric.WithUnit("{quote}"),
	)
	if err != nil {
		return err
	}

	r.metrics.quoteLatency, err = meter.Float64Histogram(
		"route_quote_duration_seconds",
		metric.WithDescription("Route quote call latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Address returns the router contract address.
func (r *Router) Address() common.Address {
	return r.address
}

// Initiate builds the initiate(token, amount, instructions) call. value is
// the native amount sent along; nil for token-in swaps.
func (r *Router) Initiate(token common.Address, amount *big.Int, ins domain.Instructions, value *big.Int) chaindomain.Call {
	return chaindomain.Call{
		Contract: r.address,
		ABI:      RouterABI,
		Method:   "initiate",
		Args:     []any{token, amount, ins},
		Value:    value,
	}
}

// For binds the router to reader, usually the current cycle's KITE session.
func (r *Router) For(reader app.Reader) *Client {
	return &Client{router: r, reader: reader}
}

// Client quotes routes through one reader.
type Client struct {
	router *Router
	reader app.Reader
}

// Initiate delegates to Router.Initiate.
func (c *Client) Initiate(token common.Address, amount *big.Int, ins domain.Instructions, value *big.Int) chaindomain.Call {
	return c.router.Initiate(token, amount, ins, value)
}

// ResolveTrade asks the router for executable trade bytes along path.
// Results are never cached: a quote is only valid for the swap that follows it.
func (c *Client) ResolveTrade(ctx context.Context, amount *big.Int, tokenIn, tokenOut common.Address, path []common.Address) ([]byte, error) {
	r := c.router
	ctx, span := r.tracer.Start(ctx, "router.resolve_trade",
		trace.WithAttributes(
			attribute.String("token_in", tokenIn.Hex()),
			attribute.String("token_out", tokenOut.Hex()),
			attribute.String("amount", amount.String()),
		),
	)
	defer span.End()

	start := time.Now()
	trade, err := r.cb.Execute(func() ([]byte, error) {
		return c.quote(ctx, amount, tokenIn, tokenOut, path)
	})
	r.metrics.quoteLatency.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		r.metrics.quotes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote failed")

		// an open breaker is still a failed quote; the cause keeps CIRCUIT_OPEN
		return nil, apperror.New(apperror.CodeRouteResolutionFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("route %s -> %s", tokenIn.Hex(), tokenOut.Hex())),
			apperror.WithSpan(ctx))
	}

	r.metrics.quotes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "ok")))
	span.SetAttributes(attribute.Int("trade_len", len(trade)))
	span.SetStatus(codes.Ok, "resolved")

	return trade, nil
}

func (c *Client) quote(ctx context.Context, amount *big.Int, tokenIn, tokenOut common.Address, path []common.Address) ([]byte, error) {
	encodedPath, err := pathArgs.Pack(path)
	if err != nil {
		return nil, fmt.Errorf("encode path: %w", err)
	}

	out, err := c.reader.Read(ctx, chaindomain.Call{
		Contract: c.router.address,
		ABI:      RouterABI,
		Method:   "route",
		Args:     []any{amount, tokenIn, tokenOut, encodedPath},
	})
	if err != nil {
		return nil, err
	}

	values, err := RouterABI.Unpack("route", out)
	if err != nil {
		return nil, fmt.Errorf("decode route result: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("route returned nothing")
	}

	trade, ok := values[0].([]byte)
	if !ok || len(trade) == 0 {
		return nil, fmt.Errorf("route returned empty trade")
	}

	return trade, nil
}
