package infra

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fd1az/crosschain-cycler/business/automation/app"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
)

const rule = "================================================================================"

// ConsoleReporter prints the cycle plan and summary in CLI mode. Per-step
// progress is already in the logs, so only finished steps are echoed.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ app.Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// CycleStarted prints the plan.
func (r *ConsoleReporter) CycleStarted(rec *domain.CycleRecord, steps []domain.StepDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "CYCLE %s\n", rec.ID)
	fmt.Fprintf(r.out, "Account:        %s\n", rec.Account)
	fmt.Fprintf(r.out, "Started:        %s\n", rec.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	for _, s := range steps {
		fmt.Fprintf(r.out, "  %-44s %s -> %s  %s\n", s.Label, s.From, s.To, s.Amount)
	}
	fmt.Fprintln(r.out, rule)
}

// StepUpdate echoes finished steps.
func (r *ConsoleReporter) StepUpdate(ev app.StepEvent) {
	if ev.Phase != domain.PhaseDone || ev.Outcome == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := ev.Outcome
	if out.Success {
		fmt.Fprintf(r.out, "  ✓ %-44s %s  %s\n", ev.Label, out.Amount, out.TxHash)
		return
	}
	fmt.Fprintf(r.out, "  ✗ %-44s %s  %s\n", ev.Label, out.Amount, out.Code)
}

// Waiting is a no-op; the scheduler logs every delay.
func (r *ConsoleReporter) Waiting(app.WaitKind, time.Duration, time.Time) {}

// CycleFinished prints the summary.
func (r *ConsoleReporter) CycleFinished(rec *domain.CycleRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "Steps:          %d ok, %d failed\n", rec.Succeeded(), rec.Failed())
	if rec.Aborted {
		fmt.Fprintf(r.out, "Aborted at:     %s\n", rec.AbortedAt)
	}
	fmt.Fprintf(r.out, "Duration:       %s\n", rec.Duration().Round(time.Second))
	fmt.Fprintln(r.out, rule)
}
