// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Step states as rendered.
const (
	StepPending = "pending"
	StepRunning = "running"
	StepWaiting = "waiting"
	StepDone    = "done"
)

// StepRow is one line of the current cycle plan.
type StepRow struct {
	Label    string
	Route    string
	State    string
	Success  bool
	Amount   string
	TxHash   string
	Code     string
	Duration time.Duration
}

// StepsComponent renders the step plan of the running cycle.
type StepsComponent struct {
	account string
	rows    []StepRow
}

// NewStepsComponent creates a new steps component.
func NewStepsComponent() *StepsComponent {
	return &StepsComponent{}
}

// SetPlan replaces the plan with rows, all pending.
func (s *StepsComponent) SetPlan(account string, rows []StepRow) {
	s.account = account
	s.rows = make([]StepRow, len(rows))
	for i, r := range rows {
		r.State = StepPending
		s.rows[i] = r
	}
}

// Update merges row into the plan at index. Out of range indexes are ignored.
func (s *StepsComponent) Update(index int, row StepRow) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	cur := s.rows[index]
	cur.State = row.State
	if row.State == StepDone {
		cur.Success = row.Success
		cur.Amount = row.Amount
		cur.TxHash = row.TxHash
		cur.Code = row.Code
		cur.Duration = row.Duration
	}
	s.rows[index] = cur
}

// Clear drops the plan.
func (s *StepsComponent) Clear() {
	s.account = ""
	s.rows = nil
}

// View renders the steps component.
func (s *StepsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	runStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	if len(s.rows) == 0 {
		return headerStyle.Render("CURRENT CYCLE") + "\n\n" + mutedStyle.Render("  Waiting for the first cycle...")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("CURRENT CYCLE"))
	sb.WriteString(mutedStyle.Render("  " + s.account))
	sb.WriteString("\n\n")

	for _, r := range s.rows {
		var icon string
		style := mutedStyle
		switch r.State {
		case StepRunning:
			icon, style = "◐", runStyle
		case StepWaiting:
			icon = "…"
			if r.Success {
				style = okStyle
			} else {
				style = failStyle
			}
		case StepDone:
			if r.Success {
				icon, style = "✓", okStyle
			} else {
				icon, style = "✗", failStyle
			}
		default:
			icon = "○"
		}

		line := fmt.Sprintf("  %s %-44s", icon, r.Label)
		sb.WriteString(style.Render(line))

		switch {
		case r.State == StepDone && r.Success:
			sb.WriteString(mutedStyle.Render(fmt.Sprintf(" %s  %s  %s", r.Amount, shortHash(r.TxHash), r.Duration.Round(time.Second))))
		case r.State == StepDone:
			sb.WriteString(failStyle.Render(fmt.Sprintf(" %s  %s", r.Amount, r.Code)))
		case r.Route != "":
			sb.WriteString(mutedStyle.Render(" " + r.Route))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:8] + "…" + h[len(h)-4:]
}
