package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// CountdownComponent renders the delay currently being waited.
type CountdownComponent struct {
	kind  string
	total time.Duration
	until time.Time
}

// NewCountdownComponent creates a new countdown component.
func NewCountdownComponent() *CountdownComponent {
	return &CountdownComponent{}
}

// Start begins a countdown of d ending at until.
func (c *CountdownComponent) Start(kind string, d time.Duration, until time.Time) {
	c.kind, c.total, c.until = kind, d, until
}

// Stop clears the countdown.
func (c *CountdownComponent) Stop() {
	c.kind, c.total, c.until = "", 0, time.Time{}
}

// Active reports whether a wait is in progress at now.
func (c *CountdownComponent) Active(now time.Time) bool {
	return c.total > 0 && now.Before(c.until)
}

// View renders the countdown with a progress bar of width cells.
func (c *CountdownComponent) View(now time.Time, width int) string {
	if !c.Active(now) {
		return ""
	}

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	left := c.until.Sub(now)
	done := 1 - float64(left)/float64(c.total)
	if width < 10 {
		width = 10
	}
	filled := min(max(int(done*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	label := "Next step in"
	if c.kind == "cycle" {
		label = "Next cycle in"
	}

	return fmt.Sprintf("%s %s %s",
		mutedStyle.Render(label),
		barStyle.Render(bar),
		mutedStyle.Render(left.Round(time.Second).String()+" (at "+c.until.Format("15:04:05")+")"),
	)
}
