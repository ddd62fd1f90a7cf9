package evm

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/crosschain-cycler/business/chain/app"
	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/cache"
	"github.com/fd1az/crosschain-cycler/internal/circuitbreaker"
	"github.com/fd1az/crosschain-cycler/internal/health"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

const priceKey = "current"

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	Network    domain.Network
	CacheTTL   time.Duration // how long a fetched price is reused
	HTTPClient *http.Client  // nil uses the rpc package default
}

// DefaultGasOracleConfig returns sensible defaults.
func DefaultGasOracleConfig(network domain.Network) GasOracleConfig {
	return GasOracleConfig{
		Network:  network,
		CacheTTL: 12 * time.Second,
	}
}

type gasOracleMetrics struct {
	gasPriceFetches metric.Int64Counter
	gasPriceGwei    metric.Float64Gauge
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
}

// GasOracle reads the suggested gas price of one network and enforces its
// ceiling. It keeps a long-lived client of its own, separate from the
// per-cycle sessions.
type GasOracle struct {
	config GasOracleConfig
	logger logger.LoggerInterface

	client   Backend
	clientMu sync.RWMutex

	priceCache    *cache.Cache[string, *domain.GasPrice]
	priceCacheTTL time.Duration

	cb *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *gasOracleMetrics
}

var _ app.GasOracle = (*GasOracle)(nil)

// NewGasOracle creates a new gas oracle instance.
func NewGasOracle(cfg GasOracleConfig, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:        cfg,
		logger:        log,
		priceCache:    cache.New[string, *domain.GasPrice](5 * time.Minute),
		priceCacheTTL: cfg.CacheTTL,
		tracer:        otel.Tracer(tracerName),
	}

	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	g.cb = circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-oracle-" + cfg.Network.Key))

	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	g.metrics = &gasOracleMetrics{}

	g.metrics.gasPriceFetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	g.metrics.gasPriceGwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Gas price cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Connect establishes the oracle's own RPC connection.
func (g *GasOracle) Connect(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "gas.connect",
		trace.WithAttributes(attribute.String("network", g.config.Network.Name)),
	)
	defer span.End()

	client, err := Dial(ctx, g.config.Network.RPCURL, g.config.HTTPClient)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return err
	}

	g.setClient(client)

	span.SetStatus(codes.Ok, "connected")
	g.logger.Info(ctx, "gas oracle connected", "network", g.config.Network.Name)

	return nil
}

func (g *GasOracle) setClient(b Backend) {
	g.clientMu.Lock()
	g.client = b
	g.clientMu.Unlock()
}

// GetGasPrice retrieves the current gas price with caching.
func (g *GasOracle) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	netAttr := attribute.String("network", g.config.Network.Name)
	ctx, span := g.tracer.Start(ctx, "gas.get_price", trace.WithAttributes(netAttr))
	defer span.End()

	if price, found := g.priceCache.Get(ctx, priceKey); found {
		g.metrics.cacheHits.Add(ctx, 1, metric.WithAttributes(netAttr))
		span.AddEvent("cache_hit")
		return price, nil
	}

	g.metrics.cacheMisses.Add(ctx, 1, metric.WithAttributes(netAttr))
	g.metrics.gasPriceFetches.Add(ctx, 1, metric.WithAttributes(netAttr))

	g.clientMu.RLock()
	client := g.client
	g.clientMu.RUnlock()

	if client == nil {
		// startup connect failed; retry on demand
		if err := g.Connect(ctx); err != nil {
			span.RecordError(err)
			return nil, err
		}
		g.clientMu.RLock()
		client = g.client
		g.clientMu.RUnlock()
	}

	wei, err := g.cb.Execute(func() (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.Wrap(err, apperror.CodeRPCError, "eth_gasPrice on "+g.config.Network.Name)
	}

	price := domain.NewGasPrice(wei, time.Now())
	g.priceCache.Set(ctx, priceKey, price, g.priceCacheTTL)
	g.metrics.gasPriceGwei.Record(ctx, price.Gwei(), metric.WithAttributes(netAttr))

	span.SetAttributes(attribute.Float64("gwei", price.Gwei()))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

// Check returns GAS_PRICE_TOO_HIGH when the suggested price is above the
// configured ceiling. Without a ceiling it never contacts the node. When the
// price cannot be read the submission is refused as well.
func (g *GasOracle) Check(ctx context.Context) error {
	ceiling := g.config.Network.MaxGasPrice
	if ceiling == nil {
		return nil
	}

	price, err := g.GetGasPrice(ctx)
	if err != nil {
		return err
	}

	if price.Exceeds(ceiling) {
		g.logger.Warn(ctx, "gas price above ceiling, refusing submission",
			"network", g.config.Network.Name,
			"gwei", price.Gwei(),
			"max_wei", ceiling.String(),
		)
		return apperror.New(apperror.CodeGasPriceTooHigh,
			apperror.WithContext(fmt.Sprintf("%s: %.2f gwei", g.config.Network.Name, price.Gwei())))
	}

	return nil
}

// HealthCheck reports whether the oracle is connected and its breaker closed.
func (g *GasOracle) HealthCheck() health.CheckFunc {
	return func(ctx context.Context) (bool, string) {
		g.clientMu.RLock()
		connected := g.client != nil
		g.clientMu.RUnlock()

		if !connected {
			return false, "not connected"
		}
		if g.cb.State() == gobreaker.StateOpen {
			return false, "circuit open"
		}
		return true, "ok"
	}
}

// Close closes the gas oracle.
func (g *GasOracle) Close() error {
	g.clientMu.Lock()
	defer g.clientMu.Unlock()

	if g.client != nil {
		g.client.Close()
		g.client = nil
	}

	g.priceCache.Close()

	return nil
}
