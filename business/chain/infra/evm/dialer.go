package evm

import (
	"context"
	"time"

	"github.com/fd1az/crosschain-cycler/business/chain/app"
	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/httpclient"
	"github.com/fd1az/crosschain-cycler/internal/logger"
	"github.com/fd1az/crosschain-cycler/internal/ratelimit"
)

// DialerConfig controls how per-account sessions reach the RPC endpoints.
type DialerConfig struct {
	Session           SessionConfig
	RequestTimeout    time.Duration
	RequestsPerMinute int
	// UserAgents enables per-request User-Agent rotation when non-empty.
	UserAgents []string
}

// Dialer opens a new RPC client and Session for every call to Open.
// Rate limiters are shared per network across sessions.
type Dialer struct {
	config   DialerConfig
	guards   map[string]app.GasOracle
	limiters map[string]*ratelimit.Limiter
	logger   logger.LoggerInterface
}

var _ app.SessionOpener = (*Dialer)(nil)

// NewDialer creates a Dialer. guards maps network keys to their gas guard.
func NewDialer(cfg DialerConfig, guards map[string]app.GasOracle, log logger.LoggerInterface) *Dialer {
	return &Dialer{
		config: cfg,
		guards: guards,
		limiters: map[string]*ratelimit.Limiter{
			domain.NetworkBase: ratelimit.New(cfg.RequestsPerMinute),
			domain.NetworkKite: ratelimit.New(cfg.RequestsPerMinute),
		},
		logger: log,
	}
}

// Open dials network for account.
func (d *Dialer) Open(ctx context.Context, network domain.Network, account domain.Account) (app.Transactor, error) {
	opts := []httpclient.ClientOption{
		httpclient.WithProviderName(network.Key),
	}
	if d.config.RequestTimeout > 0 {
		opts = append(opts, httpclient.WithRequestTimeout(d.config.RequestTimeout))
	}
	if l, ok := d.limiters[network.Key]; ok {
		opts = append(opts, httpclient.WithRateLimiter(l))
	}
	if len(d.config.UserAgents) > 0 {
		opts = append(opts, httpclient.WithRotatingUserAgent(d.config.UserAgents, nil))
	}

	hc, err := httpclient.New(opts...)
	if err != nil {
		return nil, err
	}

	client, err := Dial(ctx, network.RPCURL, hc)
	if err != nil {
		return nil, err
	}

	s, err := NewSession(d.config.Session, network, client, account, d.guards[network.Key], d.logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.release = func() { httpclient.CloseIdle(hc) }

	d.logger.Debug(ctx, "session opened",
		"network", network.Name,
		"account", account.Short(),
		"rotate_user_agent", len(d.config.UserAgents) > 0,
	)

	return s, nil
}
