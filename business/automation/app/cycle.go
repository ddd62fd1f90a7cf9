package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/apm"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

const banner = "=================="

// StepBuilder produces the ordered steps for an opened account context.
type StepBuilder interface {
	Build(actx *AccountContext) ([]domain.StepDefinition, error)
}

// CycleConfig holds the loop pacing.
type CycleConfig struct {
	CycleDelay domain.Range
}

// CycleLoop repeats select, open, build, orchestrate, record, close, wait
// until ctx is cancelled.
type CycleLoop struct {
	config       CycleConfig
	accounts     func() []chaindomain.Account
	selector     *Selector
	opener       ContextOpener
	builder      StepBuilder
	orchestrator *Orchestrator
	scheduler    *Scheduler
	journal      Journal
	reporter     Reporter
	heartbeat    func()
	logger       logger.LoggerInterface
	now          func() time.Time

	tracer apm.Tracer
	cycles metric.Int64Counter
}

// CycleDeps groups the collaborators of a CycleLoop.
type CycleDeps struct {
	Accounts     func() []chaindomain.Account
	Selector     *Selector
	Opener       ContextOpener
	Builder      StepBuilder
	Orchestrator *Orchestrator
	Scheduler    *Scheduler
	Journal      Journal
	Reporter     Reporter
	// Heartbeat is called whenever the loop makes progress; may be nil.
	Heartbeat func()
}

// NewCycleLoop creates a CycleLoop.
func NewCycleLoop(cfg CycleConfig, deps CycleDeps, log logger.LoggerInterface) (*CycleLoop, error) {
	l := &CycleLoop{
		config:       cfg,
		accounts:     deps.Accounts,
		selector:     deps.Selector,
		opener:       deps.Opener,
		builder:      deps.Builder,
		orchestrator: deps.Orchestrator,
		scheduler:    deps.Scheduler,
		journal:      deps.Journal,
		reporter:     deps.Reporter,
		heartbeat:    deps.Heartbeat,
		logger:       log,
		now:          time.Now,
		tracer:       apm.NewTracer(tracerName),
	}
	if l.reporter == nil {
		l.reporter = NopReporter{}
	}
	if l.heartbeat == nil {
		l.heartbeat = func() {}
	}

	var err error
	l.cycles, err = otel.Meter(meterName).Int64Counter(
		"cycles_total",
		metric.WithDescription("Cycles run, by result"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return l, nil
}

// Run loops until ctx is cancelled. The only error it returns is a
// configuration error found before the first cycle; everything else is
// logged and the loop carries on.
func (l *CycleLoop) Run(ctx context.Context) error {
	accounts := l.accounts()
	if _, err := l.selector.Select(accounts); err != nil {
		return err
	}

	l.logger.Info(ctx, fmt.Sprintf("Multi-Account Bridging Bot - Initializing with %d account(s)...", len(accounts)))

	for {
		if _, err := l.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.logger.Error(ctx, "cycle failed", "error", err)
		}

		if ctx.Err() != nil {
			return nil
		}

		l.logger.Info(ctx, "Cycle finished. Waiting for the next cycle to begin.")
		if err := l.scheduler.Wait(ctx, WaitCycle, l.config.CycleDelay); err != nil {
			return nil
		}
		l.heartbeat()
	}
}

// RunOnce runs a single cycle for a freshly selected account.
func (l *CycleLoop) RunOnce(ctx context.Context) (*domain.CycleRecord, error) {
	account, err := l.selector.Select(l.accounts())
	if err != nil {
		return nil, err
	}

	ctx, span := l.tracer.Start(ctx, "cycle", attribute.String("account", account.Address.Hex()))
	defer span.End()

	started := l.now()
	rec := domain.NewCycleRecord(account.Address.Hex(), started)
	span.SetAttributes(attribute.String("cycle_id", rec.ID.String()))

	l.logger.Info(ctx, fmt.Sprintf("%s STARTING NEW CYCLE FOR %s | %s %s",
		banner, account.Address.Hex(), started.Local().Format(time.DateTime), banner))
	l.heartbeat()

	actx, err := l.opener.Open(ctx, account)
	if err != nil {
		err = apperror.Wrap(err, apperror.CodeRPCConnectionFailed, "open account context")
		span.NoticeError(err)
		l.finish(ctx, rec, "error")
		return rec, err
	}
	defer actx.Close()

	steps, err := l.builder.Build(actx)
	if err != nil {
		span.NoticeError(err)
		l.finish(ctx, rec, "error")
		return rec, err
	}

	l.reporter.CycleStarted(rec, steps)
	l.orchestrator.Execute(ctx, rec, steps)

	result := "completed"
	switch {
	case rec.Aborted:
		result = "aborted"
	case !rec.Completed:
		result = "interrupted"
	}
	l.finish(ctx, rec, result)

	if rec.Completed || rec.Aborted {
		l.logger.Info(ctx, fmt.Sprintf("%s CYCLE COMPLETED FOR %s %s", banner, account.Address.Hex(), banner),
			"succeeded", rec.Succeeded(),
			"failed", rec.Failed(),
			"aborted", rec.Aborted,
		)
	}
	span.SetAttributes(attribute.String("result", result))

	return rec, nil
}

func (l *CycleLoop) finish(ctx context.Context, rec *domain.CycleRecord, result string) {
	rec.EndedAt = l.now()
	l.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	l.reporter.CycleFinished(rec)
	l.heartbeat()

	// the cycle already ran; a journal problem must not stop the loop
	if err := l.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		l.logger.Warn(ctx, "journal write failed", "cycle_id", rec.ID.String(), "error", err)
	}
}
