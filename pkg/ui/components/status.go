package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// NetworkStatus is the last known state of one chain.
type NetworkStatus struct {
	Name       string
	Connected  bool
	GasGwei    float64
	Ceiling    float64
	LastUpdate time.Time
}

// StatusComponent renders network status and gas.
type StatusComponent struct {
	networks []NetworkStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update merges status into the entry with the same name.
func (s *StatusComponent) Update(status NetworkStatus) {
	for i, n := range s.networks {
		if n.Name == status.Name {
			if status.GasGwei == 0 {
				status.GasGwei, status.Ceiling = n.GasGwei, n.Ceiling
			}
			s.networks[i] = status
			return
		}
	}
	s.networks = append(s.networks, status)
}

// Get returns the entry named name.
func (s *StatusComponent) Get(name string) (NetworkStatus, bool) {
	for _, n := range s.networks {
		if n.Name == name {
			return n, true
		}
	}
	return NetworkStatus{}, false
}

// View renders the status component as a single line.
func (s *StatusComponent) View() string {
	if len(s.networks) == 0 {
		return "No networks"
	}

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	downStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	parts := make([]string, 0, len(s.networks))
	for _, n := range s.networks {
		if !n.Connected {
			parts = append(parts, downStyle.Render("○ "+n.Name+" (disconnected)"))
			continue
		}

		part := okStyle.Render("● " + n.Name)
		if n.GasGwei > 0 {
			gas := fmt.Sprintf(" %.3f gwei", n.GasGwei)
			if n.Ceiling > 0 && n.GasGwei > n.Ceiling {
				part += warnStyle.Render(gas + " > cap")
			} else {
				part += gas
			}
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, "  │  ")
}
