package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

const tracerName = "github.com/fd1az/crosschain-cycler/business/automation/app"

// RunnerConfig bounds submission and confirmation.
type RunnerConfig struct {
	SubmitTimeout  time.Duration
	ConfirmTimeout time.Duration
}

// DefaultRunnerConfig returns sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		SubmitTimeout:  time.Minute,
		ConfirmTimeout: 5 * time.Minute,
	}
}

// Runner submits one transaction, waits for its receipt and turns every
// failure into a logged, classified outcome. Nothing escapes it.
type Runner struct {
	config RunnerConfig
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig, log logger.LoggerInterface) *Runner {
	return &Runner{
		config: cfg,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// Run reports whether the transaction was submitted and confirmed.
func (r *Runner) Run(ctx context.Context, label string, call PendingCall, amount string) bool {
	return r.RunOutcome(ctx, label, call, amount).Success
}

// RunOutcome is Run with the full outcome.
func (r *Runner) RunOutcome(ctx context.Context, label string, call PendingCall, amount string) (out domain.StepOutcome) {
	ctx, span := r.tracer.Start(ctx, "runner.run",
		trace.WithAttributes(attribute.String("label", label), attribute.String("amount", amount)),
	)
	defer span.End()

	start := time.Now()
	out.Amount = amount

	defer func() {
		if p := recover(); p != nil {
			err := apperror.New(apperror.CodeStepPanicked, apperror.WithContext(fmt.Sprint(p)))
			out = r.fail(ctx, span, label, amount, err)
		}
		out.Duration = time.Since(start)
	}()

	if amount != "" {
		r.logger.Info(ctx, fmt.Sprintf("--- [%s | Amount: %s] ---", label, amount))
	} else {
		r.logger.Info(ctx, fmt.Sprintf("--- [%s] ---", label))
	}

	submitCtx, cancelSubmit := context.WithTimeout(ctx, r.config.SubmitTimeout)
	pending, err := call(submitCtx)
	submitErr := submitCtx.Err()
	cancelSubmit()
	if err != nil {
		if errors.Is(submitErr, context.DeadlineExceeded) {
			err = apperror.New(apperror.CodeServiceTimeout, apperror.WithCause(err), apperror.WithContext("submission"))
		}
		return r.fail(ctx, span, label, amount, classify(err, apperror.CodeSubmissionFailed))
	}

	out.TxHash = pending.Hash().Hex()
	span.SetAttributes(attribute.String("tx_hash", out.TxHash))
	r.logger.Info(ctx, "Transaction sent", "hash", out.TxHash)

	confirmCtx, cancelConfirm := context.WithTimeout(ctx, r.config.ConfirmTimeout)
	defer cancelConfirm()

	rcpt, err := pending.Wait(confirmCtx)
	if err != nil {
		failed := r.fail(ctx, span, label, amount, classify(err, apperror.CodeConfirmationFailed))
		failed.TxHash = out.TxHash
		return failed
	}

	r.logger.Info(ctx, "Transaction confirmed successfully",
		"hash", out.TxHash,
		"block", rcpt.BlockNumber,
		"gas_used", rcpt.GasUsed,
	)
	span.SetStatus(codes.Ok, "confirmed")

	out.Success = true
	return out
}

func (r *Runner) fail(ctx context.Context, span trace.Span, label, amount string, err error) domain.StepOutcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperror.GetCode(err)))

	args := []any{
		"step", label,
		"code", apperror.GetCode(err),
		"error", err.Error(),
	}
	var callErr *chaindomain.CallError
	if errors.As(err, &callErr) {
		args = append(args,
			"network", callErr.Network,
			"contract", callErr.Contract.Hex(),
			"method", callErr.Method,
		)
		if len(callErr.Calldata) > 0 {
			args = append(args, "calldata", callErr.CalldataHex())
		}
	}
	r.logger.Error(ctx, "Transaction failed: "+reason(err), args...)

	return domain.Failed(amount, err)
}

// classify keeps an existing code and otherwise files err under fallback.
func classify(err error, fallback apperror.Code) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.New(fallback, apperror.WithCause(err))
}

// reason is the most specific human readable cause.
func reason(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Context != "" {
			return appErr.Message + " (" + appErr.Context + ")"
		}
		return appErr.Message
	}
	return err.Error()
}
