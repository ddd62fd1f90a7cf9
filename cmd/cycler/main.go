// Package main is the entry point for the cross-chain cycler.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/crosschain-cycler/business/automation"
	automationDI "github.com/fd1az/crosschain-cycler/business/automation/di"
	"github.com/fd1az/crosschain-cycler/business/chain"
	chainDI "github.com/fd1az/crosschain-cycler/business/chain/di"
	"github.com/fd1az/crosschain-cycler/business/chain/infra/evm"
	"github.com/fd1az/crosschain-cycler/business/swap"
	"github.com/fd1az/crosschain-cycler/internal/apm"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/di"
	"github.com/fd1az/crosschain-cycler/internal/health"
	"github.com/fd1az/crosschain-cycler/internal/logger"
	"github.com/fd1az/crosschain-cycler/internal/metrics"
	"github.com/fd1az/crosschain-cycler/internal/monolith"
	"github.com/fd1az/crosschain-cycler/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const gasPollInterval = 15 * time.Second

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	once := flag.Bool("once", false, "Run a single cycle and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("crosschain-cycler %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for servers and debugging
	tuiMode := !*cliMode && !*once

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode, *once); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return apperror.Configuration("config", err)
	}
	cfg.App.TUIMode = tuiMode

	// Only log to stderr in CLI mode; the TUI owns the terminal
	out := io.Writer(os.Stderr)
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting crosschain-cycler",
		"version", version,
		"environment", cfg.App.Environment,
		"steps", len(cfg.Automation.Steps),
	)

	if cfg.Telemetry.Enabled {
		stop, err := startTelemetry(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	healthServer := health.NewServer(cfg.Health.Port, version, log)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Dependency order: chain provides sessions, swap the router, automation the loop
	modules := []monolith.Module{
		&chain.Module{},
		&swap.Module{},
		&automation.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	start := func() error {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		registerChecks(healthServer, mono.Services(), cfg)
		healthServer.Start()
		return nil
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = healthServer.Stop(stopCtx)
	}()

	if tuiMode {
		return runTUI(ctx, cfg, mono, start)
	}

	if err := start(); err != nil {
		return err
	}
	return runCLI(ctx, mono, log, once)
}

func startTelemetry(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (func(), error) {
	tp, err := apm.NewTraceProvider(ctx, apm.Settings{
		Provider:    apm.Provider(cfg.Telemetry.TraceProvider),
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Headers:     cfg.Telemetry.OTLPHeaders,
		Protocol:    cfg.Telemetry.OTLPProtocol,
		ZipkinURL:   cfg.Telemetry.ZipkinURL,
	}, log)
	if err != nil {
		return nil, apperror.Configuration("telemetry", err)
	}

	mp, err := metrics.NewMetricProvider(ctx, metrics.Settings{
		ServiceName: cfg.Telemetry.ServiceName,
		Prometheus:  true,
	})
	if err != nil {
		_ = tp.Stop()
		return nil, apperror.Configuration("telemetry", err)
	}

	port := cfg.Telemetry.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go metrics.Serve(ctx, port, log)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mp.Shutdown(shutdownCtx)
		_ = tp.Stop()
	}, nil
}

func registerChecks(s *health.Server, sr di.ServiceRegistry, cfg *config.Config) {
	s.RegisterCheck("gas_oracle_base", chainDI.GetBaseGasOracle(sr).HealthCheck())
	s.RegisterCheck("gas_oracle_kite", chainDI.GetKiteGasOracle(sr).HealthCheck())

	staleAfter := cfg.Health.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 2 * time.Hour
	}
	s.RegisterCheck("cycle_loop", automationDI.GetHeartbeat(sr).Check(staleAfter))

	if rj := automationDI.GetRedisJournal(sr); rj != nil {
		s.RegisterCheck("journal_redis", rj.HealthCheck())
	}
}

func runCLI(ctx context.Context, mono monolith.Monolith, log logger.LoggerInterface, once bool) error {
	loop := automationDI.GetCycleLoop(mono.Services())

	if once {
		log.Info(ctx, "running a single cycle")
		_, err := loop.RunOnce(ctx)
		return err
	}

	log.Info(ctx, "all modules started, beginning automation loop")
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, cfg *config.Config, mono monolith.Monolith, start func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program immediately (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	work := func(ctx context.Context) error {
		ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
		ui.Send(ui.StartupMsg{Step: "accounts", Status: "connecting"})

		if err := start(); err != nil {
			ui.Send(ui.StartupMsg{Step: "accounts", Status: "failed", Message: err.Error()})
			return err
		}

		sr := mono.Services()
		ui.Send(ui.StartupMsg{
			Step:    "accounts",
			Status:  "done",
			Message: fmt.Sprintf("%d loaded", len(chainDI.GetAccounts(sr).Accounts())),
		})

		oracles := []gasSource{
			{step: "base", name: "Base Sepolia", oracle: chainDI.GetBaseGasOracle(sr), ceiling: cfg.Networks.Base.MaxGasPriceGwei},
			{step: "kite", name: "KITE testnet", oracle: chainDI.GetKiteGasOracle(sr), ceiling: cfg.Networks.Kite.MaxGasPriceGwei},
		}
		for _, o := range oracles {
			ok, detail := o.oracle.HealthCheck()(ctx)
			status := "connected"
			if !ok {
				status = "failed"
			}
			ui.Send(ui.StartupMsg{Step: o.step, Status: status, Message: detail})
		}
		go pollGas(ctx, oracles)

		return automationDI.GetCycleLoop(sr).Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- superviseTUI(ctx, startSignal, work, p.Quit)
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	cancel()

	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		return nil
	}
}

// superviseTUI waits for the welcome screen to finish, then runs work. A
// failure closes the TUI so the process exits with the error instead of
// waiting for a key press.
func superviseTUI(ctx context.Context, startSignal <-chan struct{}, work func(context.Context) error, quit func()) error {
	select {
	case <-startSignal:
	case <-ctx.Done():
		return nil
	}

	err := work(ctx)
	if err == nil || ctx.Err() != nil {
		return nil
	}

	ui.Send(ui.ErrorMsg{Error: err})
	quit()
	return err
}

type gasSource struct {
	step    string
	name    string
	oracle  *evm.GasOracle
	ceiling float64
}

func pollGas(ctx context.Context, sources []gasSource) {
	ticker := time.NewTicker(gasPollInterval)
	defer ticker.Stop()

	for {
		for _, s := range sources {
			price, err := s.oracle.GetGasPrice(ctx)
			if err != nil {
				ui.Send(ui.ConnectionStatusMsg{Name: s.name, Connected: false, Detail: err.Error()})
				continue
			}
			ui.Send(ui.GasPriceMsg{Network: s.name, Gwei: price.Gwei(), Ceiling: s.ceiling})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
