package domain

import (
	"time"

	"github.com/google/uuid"
)

// CycleRecord is the journal entry of one full pass over the steps.
type CycleRecord struct {
	ID        uuid.UUID     `json:"id"`
	Account   string        `json:"account"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt"`
	Steps     []StepOutcome `json:"steps"`
	Completed bool          `json:"completed"`
	Aborted   bool          `json:"aborted"`
	AbortedAt string        `json:"abortedAt,omitempty"`
}

// NewCycleRecord starts a record for account.
func NewCycleRecord(account string, now time.Time) *CycleRecord {
	return &CycleRecord{
		ID:        uuid.New(),
		Account:   account,
		StartedAt: now,
	}
}

// Succeeded counts successful steps.
func (c *CycleRecord) Succeeded() int {
	n := 0
	for _, s := range c.Steps {
		if s.Success {
			n++
		}
	}
	return n
}

// Failed counts failed steps.
func (c *CycleRecord) Failed() int {
	return len(c.Steps) - c.Succeeded()
}

// Duration is the wall time of the cycle, zero while running.
func (c *CycleRecord) Duration() time.Duration {
	if c.EndedAt.IsZero() {
		return 0
	}
	return c.EndedAt.Sub(c.StartedAt)
}
