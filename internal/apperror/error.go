package apperror

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// AppError carries a classified failure through the step pipeline.
type AppError struct {
	Code      Code      `json:"code"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
	stack     []uintptr
}

// Error implements the error interface
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Context != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Context)
		sb.WriteString("]")
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches another AppError by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// LogArgs returns slog key/value pairs describing the error.
func (e *AppError) LogArgs() []any {
	args := []any{"code", string(e.Code), "message", e.Message}
	if e.Context != "" {
		args = append(args, "context", e.Context)
	}
	if e.TraceID != "" {
		args = append(args, "trace_id", e.TraceID)
	}
	if e.cause != nil {
		args = append(args, "cause", e.cause.Error())
	}
	return args
}

// Stack returns the captured call stack, runtime frames excluded.
func (e *AppError) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// New creates a new AppError with the given code and options
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:      code,
		Message:   messages[code],
		Timestamp: time.Now(),
		stack:     captureStack(),
	}

	for _, opt := range opts {
		opt(err)
	}

	if err.Message == "" {
		err.Message = string(code)
	}

	return err
}

// Option is a functional option for AppError
type Option func(*AppError)

// WithMessage sets a custom message
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext adds context information
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithCause wraps an underlying error
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// WithSpan copies the trace ID of the span active in ctx.
func WithSpan(ctx context.Context) Option {
	return func(e *AppError) {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			e.TraceID = sc.TraceID().String()
		}
	}
}

// Configuration creates the fatal pre-loop error.
func Configuration(context string, cause error) *AppError {
	return New(CodeConfigurationError, WithContext(context), WithCause(cause))
}

// External creates an error for a failed collaborator call.
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause))
}

// Wrap classifies err under code unless it is already an AppError.
// An existing AppError is never modified.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if context == "" || appErr.Context != "" {
			return appErr
		}
		// the original may be shared; annotate a copy
		annotated := *appErr
		annotated.Context = context
		return &annotated
	}

	return New(code, WithContext(context), WithCause(err))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// HasCode reports whether err carries any of codes.
func HasCode(err error, codes ...Code) bool {
	got := GetCode(err)
	for _, c := range codes {
		if got == c {
			return true
		}
	}
	return false
}
