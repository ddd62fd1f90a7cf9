package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/asset"
)

// Policy decides what a failed step means for the rest of the cycle.
type Policy string

const (
	// PolicySkip logs the failure and moves on to the next step.
	PolicySkip Policy = "skip"
	// PolicyAbort ends the cycle at the first failed step.
	PolicyAbort Policy = "abort"
)

// ParsePolicy parses a configured policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySkip, PolicyAbort:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown failure policy %q", s)
}

// StepFunc executes a step with an already drawn, formatted amount.
type StepFunc func(ctx context.Context, amount string) StepOutcome

// StepDefinition is one entry of a cycle. Built per cycle, never mutated.
type StepDefinition struct {
	Name     string
	Label    string // "Step i/N: ..."
	From     string
	To       string
	Amount   Range
	Decimals int32 // fractional digits of the drawn amount
	Asset    *asset.Asset
	Run      StepFunc
}

// StepOutcome is the result of one step.
type StepOutcome struct {
	Step     string        `json:"step"`
	Success  bool          `json:"success"`
	Amount   string        `json:"amount,omitempty"`
	TxHash   string        `json:"txHash,omitempty"`
	Error    string        `json:"error,omitempty"`
	Code     apperror.Code `json:"code,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Failed builds a failed outcome classified from err.
func Failed(amount string, err error) StepOutcome {
	return StepOutcome{
		Amount: amount,
		Error:  err.Error(),
		Code:   apperror.GetCode(err),
	}
}

// Phase is where the orchestrator is with respect to a step.
type Phase int

const (
	PhasePending Phase = iota
	PhaseRunning
	PhaseWaiting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseRunning:
		return "running"
	case PhaseWaiting:
		return "waiting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}
