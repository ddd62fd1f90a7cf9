package infra

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/crosschain-cycler/business/automation/app"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/pkg/ui"
)

// TUIReporter forwards cycle progress to the Bubble Tea dashboard.
type TUIReporter struct {
	send func(tea.Msg)
}

var _ app.Reporter = (*TUIReporter)(nil)

// NewTUIReporter creates a TUIReporter sending through ui.Send.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{send: ui.Send}
}

// CycleStarted sends the plan.
func (r *TUIReporter) CycleStarted(rec *domain.CycleRecord, steps []domain.StepDefinition) {
	rows := make([]ui.StepRow, len(steps))
	for i, s := range steps {
		rows[i] = ui.StepRow{Name: s.Name, Label: s.Label, Route: s.From + " -> " + s.To}
	}
	r.send(ui.CycleStartedMsg{
		CycleID:   rec.ID.String(),
		Account:   shortAddress(rec.Account),
		StartedAt: rec.StartedAt,
		Steps:     rows,
	})
}

// StepUpdate sends a phase change.
func (r *TUIReporter) StepUpdate(ev app.StepEvent) {
	msg := ui.StepUpdateMsg{
		Index: ev.Index,
		Total: ev.Total,
		Step:  ev.Step,
		Phase: ev.Phase.String(),
	}
	if out := ev.Outcome; out != nil {
		msg.Success = out.Success
		msg.Amount = out.Amount
		msg.TxHash = out.TxHash
		msg.Code = string(out.Code)
		msg.Error = out.Error
		msg.Duration = out.Duration
	}
	r.send(msg)
}

// Waiting sends the delay being waited.
func (r *TUIReporter) Waiting(kind app.WaitKind, d time.Duration, until time.Time) {
	r.send(ui.WaitingMsg{Kind: string(kind), Duration: d, Until: until})
}

// CycleFinished sends the summary.
func (r *TUIReporter) CycleFinished(rec *domain.CycleRecord) {
	r.send(ui.CycleFinishedMsg{
		CycleID:   rec.ID.String(),
		Account:   shortAddress(rec.Account),
		Succeeded: rec.Succeeded(),
		Failed:    rec.Failed(),
		Completed: rec.Completed,
		Aborted:   rec.Aborted,
		AbortedAt: rec.AbortedAt,
		Duration:  rec.Duration(),
	})
}

func shortAddress(hex string) string {
	if len(hex) != 42 {
		return hex
	}
	return hex[:6] + "…" + hex[len(hex)-4:]
}
