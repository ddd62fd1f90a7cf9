package app

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

var minute = decimal.NewFromInt(int64(time.Minute / time.Millisecond))

// TimerSleeper sleeps on a real timer.
type TimerSleeper struct{}

// Sleep waits for d or returns ctx.Err() when ctx is done first.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Scheduler draws and waits humanized delays.
type Scheduler struct {
	sleeper  Sleeper
	reporter Reporter
	logger   logger.LoggerInterface
	float    func() float64
	now      func() time.Time
}

// NewScheduler creates a Scheduler. A nil sleeper uses TimerSleeper and a
// nil reporter discards events.
func NewScheduler(sleeper Sleeper, reporter Reporter, log logger.LoggerInterface) *Scheduler {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Scheduler{
		sleeper:  sleeper,
		reporter: reporter,
		logger:   log,
		float:    rand.Float64,
		now:      time.Now,
	}
}

// RandomDelay draws a delay uniformly from r, in minutes, and logs it.
// The result is clamped to [Min, Max] minutes.
func (s *Scheduler) RandomDelay(ctx context.Context, r domain.Range) time.Duration {
	u := decimal.NewFromFloat(s.float())
	minutes := r.Min.Add(r.Max.Sub(r.Min).Mul(u))

	ms := minutes.Mul(minute).Round(0)
	lo, hi := r.Min.Mul(minute).Ceil(), r.Max.Mul(minute).Floor()
	switch {
	case ms.LessThan(lo):
		ms = lo
	case ms.GreaterThan(hi):
		ms = hi
	}

	s.logger.Info(ctx, "Waiting for "+minutes.StringFixed(2)+" minutes...")

	return time.Duration(ms.IntPart()) * time.Millisecond
}

// Wait draws a delay from r, reports it and sleeps. It returns early with
// ctx.Err() when ctx is cancelled.
func (s *Scheduler) Wait(ctx context.Context, kind WaitKind, r domain.Range) error {
	d := s.RandomDelay(ctx, r)
	s.reporter.Waiting(kind, d, s.now().Add(d))
	return s.sleeper.Sleep(ctx, d)
}
