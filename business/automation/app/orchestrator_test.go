package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

type orchestratorFixture struct {
	orch     *Orchestrator
	sleeper  *recordingSleeper
	reporter *recordingReporter
}

func newOrchestratorFixture(t *testing.T, policy domain.Policy) *orchestratorFixture {
	t.Helper()

	log := logger.NewDiscard()
	sleeper := &recordingSleeper{}
	rep := &recordingReporter{}

	orch, err := NewOrchestrator(
		OrchestratorConfig{Policy: policy, StepDelay: domain.MustRange("3", "5")},
		NewRandomizer(nil),
		NewScheduler(sleeper, rep, log),
		rep,
		log,
	)
	require.NoError(t, err)

	return &orchestratorFixture{orch: orch, sleeper: sleeper, reporter: rep}
}

// sixSteps returns six scripted steps; failing holds the 1-based indexes that fail.
func sixSteps(runs []int, failing ...int) []domain.StepDefinition {
	fail := map[int]bool{}
	for _, f := range failing {
		fail[f] = true
	}
	steps := make([]domain.StepDefinition, 6)
	for i := range steps {
		steps[i] = scripted(fmt.Sprintf("s%d", i+1), !fail[i+1], &runs[i])
	}
	return steps
}

func TestOrchestrator_AllSucceed(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	runs := make([]int, 6)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	f.orch.Execute(context.Background(), rec, sixSteps(runs))

	require.Len(t, rec.Steps, 6)
	assert.True(t, rec.Completed)
	assert.False(t, rec.Aborted)
	assert.Equal(t, 6, rec.Succeeded())
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1}, runs)

	// one delay between each pair of steps, none after the last
	require.Len(t, f.sleeper.sleeps, 5)
	for _, d := range f.sleeper.sleeps {
		assert.GreaterOrEqual(t, d, 3*time.Minute)
		assert.LessOrEqual(t, d, 5*time.Minute)
	}
	for _, k := range f.reporter.waits {
		assert.Equal(t, WaitStep, k)
	}

	for i, out := range rec.Steps {
		assert.Equal(t, fmt.Sprintf("s%d", i+1), out.Step)
		amt := decimal.RequireFromString(out.Amount)
		assert.True(t, amt.GreaterThanOrEqual(decimal.RequireFromString("0.1")))
		assert.True(t, amt.LessThanOrEqual(decimal.RequireFromString("0.2")))
	}
}

func TestOrchestrator_SkipContinuesAfterFailure(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	runs := make([]int, 6)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	f.orch.Execute(context.Background(), rec, sixSteps(runs, 3))

	require.Len(t, rec.Steps, 6)
	assert.True(t, rec.Completed)
	assert.False(t, rec.Aborted)
	assert.Equal(t, 1, rec.Failed())
	assert.False(t, rec.Steps[2].Success)
	assert.Equal(t, apperror.CodeTransactionReverted, rec.Steps[2].Code)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1}, runs)
	assert.Len(t, f.sleeper.sleeps, 5)
}

func TestOrchestrator_AbortStopsTheCycle(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicyAbort)
	runs := make([]int, 6)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	f.orch.Execute(context.Background(), rec, sixSteps(runs, 3))

	require.Len(t, rec.Steps, 3)
	assert.True(t, rec.Aborted)
	assert.Equal(t, "s3", rec.AbortedAt)
	assert.False(t, rec.Completed)
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0}, runs)
	assert.Len(t, f.sleeper.sleeps, 2, "no delay after the aborting step")
}

func TestOrchestrator_LastStepFailureUnderAbort(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicyAbort)
	runs := make([]int, 6)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	f.orch.Execute(context.Background(), rec, sixSteps(runs, 6))

	require.Len(t, rec.Steps, 6)
	assert.True(t, rec.Aborted)
	assert.Len(t, f.sleeper.sleeps, 5)
}

func TestOrchestrator_SingleStepHasNoDelay(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	f.orch.Execute(context.Background(), rec, []domain.StepDefinition{scripted("only", true, nil)})

	require.Len(t, rec.Steps, 1)
	assert.True(t, rec.Completed)
	assert.Empty(t, f.sleeper.sleeps)
}

func TestOrchestrator_PanicIsRecordedAndSkipped(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	boom := scripted("boom", true, nil)
	boom.Run = func(context.Context, string) domain.StepOutcome { panic("nil pointer") }

	f.orch.Execute(context.Background(), rec, []domain.StepDefinition{boom, scripted("after", true, nil)})

	require.Len(t, rec.Steps, 2)
	assert.Equal(t, apperror.CodeStepPanicked, rec.Steps[0].Code)
	assert.Equal(t, "boom", rec.Steps[0].Step)
	assert.NotEmpty(t, rec.Steps[0].Amount)
	assert.True(t, rec.Steps[1].Success)
}

func TestOrchestrator_UnsatisfiableRange(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	runs := 0
	step := scripted("tiny", true, &runs)
	step.Amount = domain.MustRange("0.00001", "0.00002")
	step.Decimals = 2

	f.orch.Execute(context.Background(), rec, []domain.StepDefinition{step})

	require.Len(t, rec.Steps, 1)
	assert.Equal(t, apperror.CodeInvalidAmount, rec.Steps[0].Code)
	assert.Zero(t, runs)
}

func TestOrchestrator_CancelDuringDelay(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.sleeper.cancelAt = 1
	f.sleeper.cancel = cancel

	runs := make([]int, 6)
	rec := domain.NewCycleRecord("0xabc", time.Now())
	f.orch.Execute(ctx, rec, sixSteps(runs))

	assert.Len(t, rec.Steps, 1)
	assert.False(t, rec.Completed)
	assert.False(t, rec.Aborted)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0}, runs)
}

func TestOrchestrator_ReportsPhases(t *testing.T) {
	f := newOrchestratorFixture(t, domain.PolicySkip)
	rec := domain.NewCycleRecord("0xabc", time.Now())

	f.orch.Execute(context.Background(), rec, []domain.StepDefinition{
		scripted("first", true, nil),
		scripted("last", false, nil),
	})

	assert.Equal(t,
		[]domain.Phase{domain.PhasePending, domain.PhaseRunning, domain.PhaseDone, domain.PhaseWaiting},
		f.reporter.phases("first"))
	assert.Equal(t,
		[]domain.Phase{domain.PhasePending, domain.PhaseRunning, domain.PhaseDone},
		f.reporter.phases("last"))

	var done *StepEvent
	for i := range f.reporter.events {
		ev := f.reporter.events[i]
		if ev.Step == "last" && ev.Phase == domain.PhaseDone {
			done = &ev
		}
	}
	require.NotNil(t, done)
	require.NotNil(t, done.Outcome)
	assert.False(t, done.Outcome.Success)
	assert.Equal(t, 1, done.Index)
	assert.Equal(t, 2, done.Total)
}
