package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/crosschain-cycler/pkg/ui/components"
)

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "done", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

var startupOrder = []string{"config", "accounts", "base", "kite"}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	steps     *components.StepsComponent
	stats     *components.StatsComponent
	status    *components.StatusComponent
	countdown *components.CountdownComponent
	keys      KeyMap
	help      help.Model

	phase        Phase
	welcomeStart time.Time

	ready      bool
	quitting   bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry // last 3
	logs       []string
	activity   []string

	startupSteps    map[string]*StartupStep
	startupTime     time.Time
	startupComplete bool

	cycleStart time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		steps:        components.NewStepsComponent(),
		stats:        components.NewStatsComponent(5),
		status:       components.NewStatusComponent(),
		countdown:    components.NewCountdownComponent(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		errors:       make([]ErrorEntry, 0, 3),
		logs:         make([]string, 0, 5),
		activity:     make([]string, 0, 8),
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"accounts": {Name: "Loading accounts", Status: "pending"},
			"base":     {Name: "Connecting to Base Sepolia", Status: "pending"},
			"kite":     {Name: "Connecting to KITE testnet", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m *Model) leaveWelcome() {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	// call directly; Send must not be used from inside Update
	if OnStartModules != nil {
		go OnStartModules()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.leaveWelcome()
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.activity = m.activity[:0]
		case key.Matches(msg, m.keys.Errors):
			m.errors = m.errors[:0]
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.leaveWelcome()
		}
		return m, tickCmd()

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		if msg.Status == "failed" && msg.Message != "" {
			m.addError(msg.Step + ": " + msg.Message)
		}
		m.startupComplete = true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" && step.Status != "failed" {
				m.startupComplete = false
				break
			}
		}

	case ConnectionStatusMsg:
		prev, _ := m.status.Get(msg.Name)
		prev.Name = msg.Name
		prev.Connected = msg.Connected
		prev.LastUpdate = time.Now()
		m.status.Update(prev)
		m.lastUpdate = time.Now()

	case GasPriceMsg:
		m.status.Update(components.NetworkStatus{
			Name:       msg.Network,
			Connected:  true,
			GasGwei:    msg.Gwei,
			Ceiling:    msg.Ceiling,
			LastUpdate: time.Now(),
		})

	case CycleStartedMsg:
		rows := make([]components.StepRow, len(msg.Steps))
		for i, s := range msg.Steps {
			rows[i] = components.StepRow{Label: s.Label, Route: s.Route}
		}
		m.steps.SetPlan(msg.Account, rows)
		m.countdown.Stop()
		m.cycleStart = msg.StartedAt
		m.phase = PhaseDashboard
		m.activity = addLine(m.activity, 8, "Cycle started for "+msg.Account)
		m.lastUpdate = time.Now()

	case StepUpdateMsg:
		m.steps.Update(msg.Index, components.StepRow{
			State:    msg.Phase,
			Success:  msg.Success,
			Amount:   msg.Amount,
			TxHash:   msg.TxHash,
			Code:     msg.Code,
			Duration: msg.Duration,
		})
		if msg.Phase == components.StepRunning {
			m.countdown.Stop()
		}
		if msg.Phase == components.StepDone {
			result := "ok"
			if !msg.Success {
				result = "failed: " + msg.Code
			}
			m.activity = addLine(m.activity, 8, fmt.Sprintf("Step %d/%d %s %s", msg.Index+1, msg.Total, msg.Step, result))
		}
		m.lastUpdate = time.Now()

	case WaitingMsg:
		m.countdown.Start(msg.Kind, msg.Duration, msg.Until)

	case CycleFinishedMsg:
		m.stats.Add(components.CycleSummary{
			EndedAt:   time.Now(),
			Account:   msg.Account,
			Succeeded: msg.Succeeded,
			Failed:    msg.Failed,
			Aborted:   msg.Aborted,
			AbortedAt: msg.AbortedAt,
			Duration:  msg.Duration,
		})
		m.activity = addLine(m.activity, 8, fmt.Sprintf("Cycle finished: %d ok, %d failed", msg.Succeeded, msg.Failed))
		m.cycleStart = time.Time{}
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.addError(msg.Error.Error())
		m.logs = addLine(m.logs, 5, "error: "+msg.Error.Error())

	case LogMsg:
		m.logs = addLine(m.logs, 5, msg.Level+": "+msg.Message)
	}

	return m, nil
}

func (m *Model) addError(message string) {
	m.errors = append(m.errors, ErrorEntry{Message: message, Timestamp: time.Now()})
	if len(m.errors) > 3 {
		m.errors = m.errors[len(m.errors)-3:]
	}
}

// addLine appends a timestamped line and keeps the last keep lines.
func addLine(lines []string, keep int, message string) []string {
	lines = append(lines, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message))
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return lines
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		if !m.startupComplete {
			return m.renderStartupScreen()
		}
	}

	now := time.Now()
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Cross-Chain Cycler "))
	b.WriteString("  ")
	b.WriteString(m.status.View())
	if !m.cycleStart.IsZero() {
		b.WriteString(MutedValue.Render(fmt.Sprintf("  │  Cycle running since %s", m.cycleStart.Format("15:04:05"))))
	}
	if !m.lastUpdate.IsZero() {
		b.WriteString(MutedValue.Render(fmt.Sprintf("  │  Updated: %s ago", now.Sub(m.lastUpdate).Round(time.Second))))
	}
	b.WriteString("\n\n")

	left := m.steps.View()
	if cd := m.countdown.View(now, 30); cd != "" {
		left += "\n" + cd
	}
	right := m.stats.View() + "\n\n" + m.renderActivity()

	if m.width > 110 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			BoxStyle.Width(m.width/2-2).Render(left),
			BoxStyle.Width(m.width/2-2).Render(right),
		))
	} else {
		w := max(m.width-4, 40)
		b.WriteString(BoxStyle.Width(w).Render(left))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(w).Render(right))
	}
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		b.WriteString(FailureStyle.Bold(true).Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, e := range m.errors {
			b.WriteString(FailureStyle.Render("  • " + e.Message + " "))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", now.Sub(e.Timestamp).Round(time.Second))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderActivity() string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("ACTIVITY"))
	sb.WriteString("\n")

	if len(m.activity) == 0 && len(m.logs) == 0 {
		sb.WriteString(MutedValue.Render("  Nothing yet..."))
		return sb.String()
	}
	for _, line := range m.activity {
		style := MutedValue
		if strings.Contains(line, "failed:") {
			style = FailureStyle
		} else if strings.Contains(line, "Cycle") {
			style = InfoStyle
		}
		sb.WriteString(style.Render("  " + line))
		sb.WriteString("\n")
	}
	for _, line := range m.logs {
		sb.WriteString(WarningStyle.Render("  " + line))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderWelcomeScreen() string {
	elapsed := time.Since(m.welcomeStart)
	dots := strings.Repeat(".", int(elapsed.Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	sb.WriteString(HeaderStyle.Render(`
    ██████╗██╗   ██╗ ██████╗██╗     ███████╗██████╗
   ██╔════╝╚██╗ ██╔╝██╔════╝██║     ██╔════╝██╔══██╗
   ██║      ╚████╔╝ ██║     ██║     █████╗  ██████╔╝
   ██║       ╚██╔╝  ██║     ██║     ██╔══╝  ██╔══██╗
   ╚██████╗   ██║   ╚██████╗███████╗███████╗██║  ██║
    ╚═════╝   ╚═╝    ╚═════╝╚══════╝╚══════╝╚═╝  ╚═╝
`))
	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render("          Base Sepolia  ⇄  KITE testnet"))
	sb.WriteString("\n\n\n")
	sb.WriteString(SuccessStyle.Render("                Initializing" + dots))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("        Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStartupScreen() string {
	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(HeaderStyle.Render("  Cross-Chain Cycler"))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("  Starting up..."))
	sb.WriteString("\n\n")

	spinners := []string{"◐", "◓", "◑", "◒"}
	for _, k := range startupOrder {
		step := m.startupSteps[k]

		var icon, text string
		style := MutedValue
		switch step.Status {
		case "connected", "done":
			icon, text, style = "✓", "Ready", SuccessStyle
		case "connecting":
			icon = spinners[int(time.Since(m.startupTime).Milliseconds()/200)%len(spinners)]
			text, style = "Connecting...", WarningStyle
		case "failed":
			icon, text, style = "✗", "Failed", FailureStyle
		default:
			icon, text = "○", "Pending"
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n", style.Render(icon), MutedValue.Render(step.Name), style.Render(text)))
	}

	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", time.Since(m.startupTime).Round(time.Second))))
	sb.WriteString("\n")
	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes. main sets it
// to begin loading modules.
var OnStartModules func()

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
