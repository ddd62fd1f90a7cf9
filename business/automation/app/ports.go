// Package app contains the step orchestration engine and its ports.
package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	chainapp "github.com/fd1az/crosschain-cycler/business/chain/app"
	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	swapdomain "github.com/fd1az/crosschain-cycler/business/swap/domain"
)

// PendingCall submits one transaction and returns its handle.
type PendingCall func(ctx context.Context) (chainapp.Pending, error)

// SwapRouter quotes trades and builds swap calls.
type SwapRouter interface {
	ResolveTrade(ctx context.Context, amount *big.Int, tokenIn, tokenOut common.Address, path []common.Address) ([]byte, error)
	Initiate(token common.Address, amount *big.Int, ins swapdomain.Instructions, value *big.Int) chaindomain.Call
}

// AccountContext is everything a cycle needs for the selected account. It is
// opened at the start of a cycle and closed at its end.
type AccountContext struct {
	Account chaindomain.Account
	Base    chainapp.Transactor
	Kite    chainapp.Transactor
	Router  SwapRouter
}

// Close releases both network sessions.
func (a *AccountContext) Close() {
	if a.Base != nil {
		a.Base.Close()
	}
	if a.Kite != nil {
		a.Kite.Close()
	}
}

// ContextOpener builds a fresh AccountContext.
type ContextOpener interface {
	Open(ctx context.Context, account chaindomain.Account) (*AccountContext, error)
}

// WaitKind tells step delays from cycle delays.
type WaitKind string

const (
	WaitStep  WaitKind = "step"
	WaitCycle WaitKind = "cycle"
)

// StepEvent is a progress notification for one step.
type StepEvent struct {
	Index   int // zero based
	Total   int
	Step    string
	Label   string
	Phase   domain.Phase
	Outcome *domain.StepOutcome // set when Phase is PhaseDone
}

// Reporter receives cycle progress for display.
type Reporter interface {
	CycleStarted(rec *domain.CycleRecord, steps []domain.StepDefinition)
	StepUpdate(ev StepEvent)
	Waiting(kind WaitKind, d time.Duration, until time.Time)
	CycleFinished(rec *domain.CycleRecord)
}

// Journal persists finished cycles.
type Journal interface {
	Record(ctx context.Context, rec *domain.CycleRecord) error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) CycleStarted(*domain.CycleRecord, []domain.StepDefinition) {}
func (NopReporter) StepUpdate(StepEvent)                                      {}
func (NopReporter) Waiting(WaitKind, time.Duration, time.Time)                {}
func (NopReporter) CycleFinished(*domain.CycleRecord)                         {}
