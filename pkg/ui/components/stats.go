package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds running totals for display.
type Stats struct {
	Cycles      int64
	Completed   int64
	Aborted     int64
	StepsOK     int64
	StepsFailed int64
}

// CycleSummary is one finished cycle.
type CycleSummary struct {
	EndedAt   time.Time
	Account   string
	Succeeded int
	Failed    int
	Aborted   bool
	AbortedAt string
	Duration  time.Duration
}

// StatsComponent renders totals and the most recent cycles.
type StatsComponent struct {
	stats   Stats
	recent  []CycleSummary
	maxRows int
}

// NewStatsComponent creates a new stats component keeping maxRows cycles.
func NewStatsComponent(maxRows int) *StatsComponent {
	return &StatsComponent{maxRows: maxRows}
}

// Add records a finished cycle.
func (s *StatsComponent) Add(c CycleSummary) {
	s.stats.Cycles++
	if c.Aborted {
		s.stats.Aborted++
	} else {
		s.stats.Completed++
	}
	s.stats.StepsOK += int64(c.Succeeded)
	s.stats.StepsFailed += int64(c.Failed)

	s.recent = append([]CycleSummary{c}, s.recent...)
	if len(s.recent) > s.maxRows {
		s.recent = s.recent[:s.maxRows]
	}
}

// Stats returns the totals.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	failedDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.StepsFailed))
	if s.stats.StepsFailed > 0 {
		failedDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.StepsFailed))
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("HISTORY"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Cycles: %s  │  Completed: %s  │  Aborted: %s\n",
		valueStyle.Render(fmt.Sprintf("%d", s.stats.Cycles)),
		valueStyle.Render(fmt.Sprintf("%d", s.stats.Completed)),
		valueStyle.Render(fmt.Sprintf("%d", s.stats.Aborted)),
	))
	sb.WriteString(fmt.Sprintf("Steps ok: %s  │  Steps failed: %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d", s.stats.StepsOK)),
		failedDisplay,
	))

	if len(s.recent) == 0 {
		sb.WriteString(style.Render("  No finished cycles yet"))
		return sb.String()
	}

	for _, c := range s.recent {
		result := fmt.Sprintf("%d ok / %d failed", c.Succeeded, c.Failed)
		if c.Aborted {
			result += " (aborted at " + c.AbortedAt + ")"
		}
		sb.WriteString(style.Render(fmt.Sprintf("  [%s] %s  %s  %s\n",
			c.EndedAt.Format("15:04:05"), c.Account, result, c.Duration.Round(time.Second))))
	}

	return sb.String()
}
