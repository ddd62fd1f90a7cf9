// Package journal persists finished cycle records.
package journal

import (
	"context"
	"time"

	"github.com/fd1az/crosschain-cycler/business/automation/app"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// LogJournal writes one structured summary line per cycle.
type LogJournal struct {
	logger logger.LoggerInterface
}

var _ app.Journal = (*LogJournal)(nil)

// NewLogJournal creates a LogJournal.
func NewLogJournal(log logger.LoggerInterface) *LogJournal {
	return &LogJournal{logger: log}
}

// Record logs rec and never fails.
func (j *LogJournal) Record(ctx context.Context, rec *domain.CycleRecord) error {
	args := []any{
		"cycle_id", rec.ID.String(),
		"account", rec.Account,
		"duration", rec.Duration().Round(time.Millisecond).String(),
		"succeeded", rec.Succeeded(),
		"failed", rec.Failed(),
		"completed", rec.Completed,
	}
	if rec.Aborted {
		args = append(args, "aborted_at", rec.AbortedAt)
	}
	j.logger.Info(ctx, "cycle recorded", args...)
	return nil
}

// Multi fans a record out to several journals and returns the first error.
type Multi []app.Journal

// Record writes rec to every journal, even after a failure.
func (m Multi) Record(ctx context.Context, rec *domain.CycleRecord) error {
	var first error
	for _, j := range m {
		if err := j.Record(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
