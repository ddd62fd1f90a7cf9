package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/crosschain-cycler/business/chain/app"
	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// SessionConfig tunes submission and receipt polling.
type SessionConfig struct {
	PollInterval time.Duration // receipt polling period
	GasMargin    uint64        // percent added on top of eth_estimateGas
}

// DefaultSessionConfig returns sensible defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		PollInterval: 2 * time.Second,
		GasMargin:    20,
	}
}

type sessionMetrics struct {
	submissions  metric.Int64Counter
	reverts      metric.Int64Counter
	gasRejected  metric.Int64Counter
	confirmation metric.Float64Histogram
}

// Session signs and submits transactions for one account on one network.
// It owns its backend; Close releases it.
type Session struct {
	config  SessionConfig
	network domain.Network
	backend Backend
	account domain.Account
	guard   app.GasOracle
	logger  logger.LoggerInterface
	release func()

	tracer  trace.Tracer
	metrics *sessionMetrics
}

var _ app.Transactor = (*Session)(nil)

// NewSession creates a session. guard may be nil.
func NewSession(cfg SessionConfig, network domain.Network, backend Backend, account domain.Account, guard app.GasOracle, log logger.LoggerInterface) (*Session, error) {
	s := &Session{
		config:  cfg,
		network: network,
		backend: backend,
		account: account,
		guard:   guard,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return s, nil
}

func (s *Session) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &sessionMetrics{}

	s.metrics.submissions, err = meter.Int64Counter(
		"tx_submissions_total",
		metric.WithDescription("Transactions submitted, by network and result"),
		metric.WithUnit("{tx}"),
	)
	if err != nil {
		return err
	}

	s.metrics.reverts, err = meter.Int64Counter(
		"tx_reverts_total",
		metric.WithDescription("Transactions mined with status 0"),
		metric.WithUnit("{tx}"),
	)
	if err != nil {
		return err
	}

	s.metrics.gasRejected, err = meter.Int64Counter(
		"gas_guard_rejections_total",
		metric.WithDescription("Submissions refused because gas was above the ceiling"),
		metric.WithUnit("{tx}"),
	)
	if err != nil {
		return err
	}

	s.metrics.confirmation, err = meter.Float64Histogram(
		"tx_confirmation_seconds",
		metric.WithDescription("Time from broadcast to receipt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Network returns the network this session submits to.
func (s *Session) Network() domain.Network {
	return s.network
}

// Address returns the signing account address.
func (s *Session) Address() common.Address {
	return s.account.Address
}

// Close releases the backend and its HTTP connections.
func (s *Session) Close() {
	s.backend.Close()
	if s.release != nil {
		s.release()
	}
}

func (s *Session) callError(call domain.Call, data []byte, err error) *domain.CallError {
	return &domain.CallError{
		Network:  s.network.Name,
		Contract: call.Contract,
		Method:   call.Method,
		Value:    call.NativeValue(),
		Calldata: data,
		Err:      err,
	}
}

// Transact signs and broadcasts call. Errors are *domain.CallError wrapping an
// *apperror.AppError, so callers get both the code and the calldata.
func (s *Session) Transact(ctx context.Context, call domain.Call) (app.Pending, error) {
	netAttr := attribute.String("network", s.network.Name)
	ctx, span := s.tracer.Start(ctx, "tx.submit",
		trace.WithAttributes(
			netAttr,
			attribute.String("contract", call.Contract.Hex()),
			attribute.String("method", call.Method),
		),
	)
	defer span.End()

	fail := func(data []byte, err error) (app.Pending, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.GetCode(err)))
		s.metrics.submissions.Add(ctx, 1, metric.WithAttributes(netAttr, attribute.String("result", "error")))
		return nil, s.callError(call, data, err)
	}

	data, err := call.Pack()
	if err != nil {
		return fail(nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err),
			apperror.WithContext("pack "+call.Method)))
	}

	if s.guard != nil {
		if err := s.guard.Check(ctx); err != nil {
			if apperror.HasCode(err, apperror.CodeGasPriceTooHigh) {
				s.metrics.gasRejected.Add(ctx, 1, metric.WithAttributes(netAttr))
			}
			return fail(data, err)
		}
	}

	tx, err := s.buildTx(ctx, call, data)
	if err != nil {
		return fail(data, err)
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.network.ChainID), s.account.Key)
	if err != nil {
		return fail(data, apperror.New(apperror.CodeSubmissionFailed,
			apperror.WithCause(err),
			apperror.WithContext("sign transaction")))
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return fail(data, apperror.New(apperror.CodeSubmissionFailed,
			apperror.WithCause(err),
			apperror.WithContext("eth_sendRawTransaction")))
	}

	s.metrics.submissions.Add(ctx, 1, metric.WithAttributes(netAttr, attribute.String("result", "sent")))
	span.SetAttributes(
		attribute.String("tx_hash", signed.Hash().Hex()),
		attribute.Int64("nonce", int64(signed.Nonce())),
	)
	span.SetStatus(codes.Ok, "sent")

	s.logger.Debug(ctx, "transaction broadcast",
		"network", s.network.Name,
		"hash", signed.Hash().Hex(),
		"nonce", signed.Nonce(),
		"gas", signed.Gas(),
	)

	return &PendingTx{
		session: s,
		call:    call,
		data:    data,
		hash:    signed.Hash(),
		sentAt:  time.Now(),
	}, nil
}

// buildTx prices an EIP-1559 transaction, or a legacy one on chains
// without a base fee.
func (s *Session) buildTx(ctx context.Context, call domain.Call, data []byte) (*types.Transaction, error) {
	from := s.account.Address
	to := call.Contract
	value := call.NativeValue()

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, apperror.New(apperror.CodeSubmissionFailed,
			apperror.WithCause(err),
			apperror.WithContext("pending nonce"))
	}

	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeGasEstimationFailed,
			apperror.WithCause(err),
			apperror.WithContext("estimate "+call.Method))
	}
	gas += gas * s.config.GasMargin / 100

	head, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext("latest header"))
	}

	if head.BaseFee == nil {
		price, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, apperror.New(apperror.CodeRPCError,
				apperror.WithCause(err),
				apperror.WithContext("suggest gas price"))
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		}), nil
	}

	tip, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext("suggest tip cap"))
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.network.ChainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	}), nil
}

// Read performs an eth_call against the latest block.
func (s *Session) Read(ctx context.Context, call domain.Call) ([]byte, error) {
	data, err := call.Pack()
	if err != nil {
		return nil, s.callError(call, nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err),
			apperror.WithContext("pack "+call.Method)))
	}

	to := call.Contract
	out, err := s.backend.CallContract(ctx, ethereum.CallMsg{
		From:  s.account.Address,
		To:    &to,
		Value: call.Value,
		Data:  data,
	}, nil)
	if err != nil {
		return nil, s.callError(call, data, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext("eth_call "+call.Method)))
	}

	return out, nil
}

// PendingTx is a broadcast transaction.
type PendingTx struct {
	session *Session
	call    domain.Call
	data    []byte
	hash    common.Hash
	sentAt  time.Time
}

// Hash returns the transaction hash.
func (p *PendingTx) Hash() common.Hash {
	return p.hash
}

// Wait polls for the receipt until it arrives or ctx is done.
func (p *PendingTx) Wait(ctx context.Context) (*domain.Receipt, error) {
	s := p.session
	netAttr := attribute.String("network", s.network.Name)
	ctx, span := s.tracer.Start(ctx, "tx.wait",
		trace.WithAttributes(netAttr, attribute.String("tx_hash", p.hash.Hex())),
	)
	defer span.End()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		rcpt, err := s.backend.TransactionReceipt(ctx, p.hash)
		switch {
		case err == nil:
			return p.settle(ctx, span, rcpt)
		case errors.Is(err, ethereum.NotFound):
		default:
			lastErr = err
			s.logger.Debug(ctx, "receipt poll failed", "hash", p.hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			code := apperror.CodeConfirmationFailed
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				code = apperror.CodeServiceTimeout
			}
			cause := ctx.Err()
			if lastErr != nil {
				cause = errors.Join(ctx.Err(), lastErr)
			}
			err := apperror.New(code,
				apperror.WithCause(cause),
				apperror.WithContext("receipt for "+p.hash.Hex()))
			span.RecordError(err)
			span.SetStatus(codes.Error, string(code))
			return nil, s.callError(p.call, p.data, err)
		case <-ticker.C:
		}
	}
}

func (p *PendingTx) settle(ctx context.Context, span trace.Span, rcpt *types.Receipt) (*domain.Receipt, error) {
	s := p.session
	netAttr := attribute.String("network", s.network.Name)

	out := &domain.Receipt{
		TxHash:  rcpt.TxHash,
		GasUsed: rcpt.GasUsed,
		Success: rcpt.Status == types.ReceiptStatusSuccessful,
	}
	if rcpt.BlockNumber != nil {
		out.BlockNumber = rcpt.BlockNumber.Uint64()
	}

	s.metrics.confirmation.Record(ctx, time.Since(p.sentAt).Seconds(), metric.WithAttributes(netAttr))
	span.SetAttributes(
		attribute.Int64("block", int64(out.BlockNumber)),
		attribute.Int64("gas_used", int64(out.GasUsed)),
	)

	if !out.Success {
		s.metrics.reverts.Add(ctx, 1, metric.WithAttributes(netAttr))
		err := apperror.New(apperror.CodeTransactionReverted,
			apperror.WithContext(fmt.Sprintf("%s in block %d", p.hash.Hex(), out.BlockNumber)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "reverted")
		return out, s.callError(p.call, p.data, err)
	}

	span.SetStatus(codes.Ok, "confirmed")
	return out, nil
}
