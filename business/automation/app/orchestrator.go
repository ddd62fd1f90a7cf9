package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

const meterName = "github.com/fd1az/crosschain-cycler/business/automation/app"

// OrchestratorConfig holds the continuation policy and step pacing.
type OrchestratorConfig struct {
	Policy    domain.Policy
	StepDelay domain.Range
}

type orchestratorMetrics struct {
	steps        metric.Int64Counter
	stepDuration metric.Float64Histogram
}

// Orchestrator runs the steps of one cycle in order, one at a time.
type Orchestrator struct {
	config     OrchestratorConfig
	randomizer *Randomizer
	scheduler  *Scheduler
	reporter   Reporter
	logger     logger.LoggerInterface

	tracer  trace.Tracer
	metrics *orchestratorMetrics
}

// NewOrchestrator creates an Orchestrator. A nil reporter discards events.
func NewOrchestrator(cfg OrchestratorConfig, randomizer *Randomizer, scheduler *Scheduler, reporter Reporter, log logger.LoggerInterface) (*Orchestrator, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}

	o := &Orchestrator{
		config:     cfg,
		randomizer: randomizer,
		scheduler:  scheduler,
		reporter:   reporter,
		logger:     log,
		tracer:     otel.Tracer(tracerName),
	}

	if err := o.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return o, nil
}

func (o *Orchestrator) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	o.metrics = &orchestratorMetrics{}

	o.metrics.steps, err = meter.Int64Counter(
		"steps_total",
		metric.WithDescription("Steps executed, by step and outcome"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	o.metrics.stepDuration, err = meter.Float64Histogram(
		"step_duration_seconds",
		metric.WithDescription("Step execution time, excluding delays"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Execute runs steps and appends their outcomes to rec. Between two steps it
// waits a random step delay; there is no delay after the last step or after
// an abort. Cancelling ctx stops at the next step boundary or delay.
func (o *Orchestrator) Execute(ctx context.Context, rec *domain.CycleRecord, steps []domain.StepDefinition) {
	total := len(steps)
	for i, step := range steps {
		o.reporter.StepUpdate(StepEvent{Index: i, Total: total, Step: step.Name, Label: step.Label, Phase: domain.PhasePending})
	}

	for i, step := range steps {
		if ctx.Err() != nil {
			return
		}

		o.reporter.StepUpdate(StepEvent{Index: i, Total: total, Step: step.Name, Label: step.Label, Phase: domain.PhaseRunning})

		out := o.runStep(ctx, step)
		rec.Steps = append(rec.Steps, out)

		o.reporter.StepUpdate(StepEvent{Index: i, Total: total, Step: step.Name, Label: step.Label, Phase: domain.PhaseDone, Outcome: &out})

		if !out.Success {
			if o.config.Policy == domain.PolicyAbort {
				o.logger.Warn(ctx, "Step failed. Aborting cycle.", "step", step.Name, "code", out.Code)
				rec.Aborted = true
				rec.AbortedAt = step.Name
				return
			}
			o.logger.Warn(ctx, "Step failed. Skipping to the next step.", "step", step.Name, "code", out.Code)
		}

		if i == total-1 {
			break
		}

		o.reporter.StepUpdate(StepEvent{Index: i, Total: total, Step: step.Name, Label: step.Label, Phase: domain.PhaseWaiting})
		if err := o.scheduler.Wait(ctx, WaitStep, o.config.StepDelay); err != nil {
			return
		}
	}

	rec.Completed = len(rec.Steps) == total
}

func (o *Orchestrator) runStep(ctx context.Context, step domain.StepDefinition) (out domain.StepOutcome) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.step",
		trace.WithAttributes(attribute.String("step", step.Name)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err := apperror.New(apperror.CodeStepPanicked, apperror.WithContext(fmt.Sprint(p)))
			o.logger.Error(ctx, "step panicked", "step", step.Name, "panic", fmt.Sprint(p))
			out = domain.Failed(out.Amount, err)
		}

		out.Step = step.Name
		out.Duration = time.Since(start)

		result := "success"
		if !out.Success {
			result = "failure"
			span.SetAttributes(attribute.String("code", string(out.Code)))
		}
		attrs := metric.WithAttributes(attribute.String("step", step.Name), attribute.String("result", result))
		o.metrics.steps.Add(ctx, 1, attrs)
		o.metrics.stepDuration.Record(ctx, out.Duration.Seconds(), attrs)
	}()

	amount, err := o.randomizer.Random(step.Amount, step.Decimals)
	if err != nil {
		o.logger.Error(ctx, "amount draw failed", "step", step.Name, "error", err)
		return domain.Failed("", apperror.New(apperror.CodeInvalidAmount, apperror.WithCause(err)))
	}
	out.Amount = amount

	out = step.Run(ctx, amount)
	if out.Amount == "" {
		out.Amount = amount
	}
	return out
}
