// Package ui provides the Bubble Tea dashboard for the cycler.
package ui

import "time"

// Message types for TUI updates. Values are display-ready; the UI does not
// compute anything from them.

// StepRow is one planned step of a cycle.
type StepRow struct {
	Name  string
	Label string
	Route string // e.g. "base -> kite"
}

// CycleStartedMsg is sent when a cycle has its account and step plan.
type CycleStartedMsg struct {
	CycleID   string
	Account   string
	StartedAt time.Time
	Steps     []StepRow
}

// StepUpdateMsg is sent on every step phase change.
type StepUpdateMsg struct {
	Index    int
	Total    int
	Step     string
	Phase    string // "pending", "running", "waiting", "done"
	Success  bool
	Amount   string
	TxHash   string
	Code     string
	Error    string
	Duration time.Duration
}

// WaitingMsg is sent when a step or cycle delay starts.
type WaitingMsg struct {
	Kind     string // "step" or "cycle"
	Duration time.Duration
	Until    time.Time
}

// CycleFinishedMsg is sent when a cycle ends, however it ended.
type CycleFinishedMsg struct {
	CycleID   string
	Account   string
	Succeeded int
	Failed    int
	Completed bool
	Aborted   bool
	AbortedAt string
	Duration  time.Duration
}

// GasPriceMsg is sent when a network gas price is read.
type GasPriceMsg struct {
	Network string
	Gwei    float64
	Ceiling float64 // zero when no ceiling is configured
}

// ConnectionStatusMsg is sent when a network becomes reachable or not.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Detail    string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // "config", "accounts", "base", "kite"
	Status  string // "connecting", "connected", "done", "failed"
	Message string
}
