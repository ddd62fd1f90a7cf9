package app

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	chainapp "github.com/fd1az/crosschain-cycler/business/chain/app"
	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	swapdomain "github.com/fd1az/crosschain-cycler/business/swap/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testAccount() chaindomain.Account {
	acc, err := chaindomain.ParseAccount(testKey)
	if err != nil {
		panic(err)
	}
	return acc
}

type recordingSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
	// cancel, when set, is called on the n-th sleep (1 based)
	cancelAt int
	cancel   context.CancelFunc
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	n := len(s.sleeps)
	s.mu.Unlock()

	if s.cancel != nil && n >= s.cancelAt {
		s.cancel()
	}
	return ctx.Err()
}

func (s *recordingSleeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sleeps)
}

type recordingReporter struct {
	mu       sync.Mutex
	events   []StepEvent
	waits    []WaitKind
	started  int
	finished []*domain.CycleRecord
}

func (r *recordingReporter) CycleStarted(*domain.CycleRecord, []domain.StepDefinition) {
	r.mu.Lock()
	r.started++
	r.mu.Unlock()
}

func (r *recordingReporter) StepUpdate(ev StepEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingReporter) Waiting(kind WaitKind, _ time.Duration, _ time.Time) {
	r.mu.Lock()
	r.waits = append(r.waits, kind)
	r.mu.Unlock()
}

func (r *recordingReporter) CycleFinished(rec *domain.CycleRecord) {
	r.mu.Lock()
	r.finished = append(r.finished, rec)
	r.mu.Unlock()
}

func (r *recordingReporter) phases(step string) []domain.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Phase
	for _, ev := range r.events {
		if ev.Step == step {
			out = append(out, ev.Phase)
		}
	}
	return out
}

type fakePending struct {
	hash common.Hash
	rcpt *chaindomain.Receipt
	err  error
	// block, when set, makes Wait block until ctx is done
	block bool
}

func (p *fakePending) Hash() common.Hash { return p.hash }

func (p *fakePending) Wait(ctx context.Context) (*chaindomain.Receipt, error) {
	if p.block {
		<-ctx.Done()
		return nil, apperror.New(apperror.CodeServiceTimeout, apperror.WithCause(ctx.Err()))
	}
	return p.rcpt, p.err
}

func confirmed(n byte) *fakePending {
	h := common.BytesToHash([]byte{n})
	return &fakePending{
		hash: h,
		rcpt: &chaindomain.Receipt{TxHash: h, BlockNumber: 100, GasUsed: 21000, Success: true},
	}
}

func reverted(n byte) *fakePending {
	h := common.BytesToHash([]byte{n})
	return &fakePending{
		hash: h,
		rcpt: &chaindomain.Receipt{TxHash: h, BlockNumber: 100, Success: false},
		err:  apperror.New(apperror.CodeTransactionReverted, apperror.WithContext(h.Hex())),
	}
}

// fakeTransactor answers Transact from a queue of results, in order. An
// exhausted queue confirms everything.
type fakeTransactor struct {
	mu      sync.Mutex
	network chaindomain.Network
	results []func(chaindomain.Call) (chainapp.Pending, error)
	calls   []chaindomain.Call
	closed  bool
	seq     byte
}

func newFakeTransactor(key string, chainID int64) *fakeTransactor {
	return &fakeTransactor{network: chaindomain.Network{Key: key, Name: key, ChainID: big.NewInt(chainID)}}
}

func (f *fakeTransactor) then(fn func(chaindomain.Call) (chainapp.Pending, error)) *fakeTransactor {
	f.results = append(f.results, fn)
	return f
}

func (f *fakeTransactor) failSubmit(err error) *fakeTransactor {
	return f.then(func(chaindomain.Call) (chainapp.Pending, error) { return nil, err })
}

func (f *fakeTransactor) revert() *fakeTransactor {
	return f.then(func(chaindomain.Call) (chainapp.Pending, error) { return reverted(0xee), nil })
}

func (f *fakeTransactor) Network() chaindomain.Network { return f.network }
func (f *fakeTransactor) Address() common.Address      { return testAccount().Address }

func (f *fakeTransactor) Transact(_ context.Context, call chaindomain.Call) (chainapp.Pending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	if len(f.results) > 0 {
		fn := f.results[0]
		f.results = f.results[1:]
		return fn(call)
	}
	f.seq++
	return confirmed(f.seq), nil
}

func (f *fakeTransactor) Read(context.Context, chaindomain.Call) ([]byte, error) {
	return nil, errors.New("not supported")
}

func (f *fakeTransactor) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeTransactor) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Method
	}
	return out
}

type resolveArgs struct {
	amount   *big.Int
	tokenIn  common.Address
	tokenOut common.Address
	path     []common.Address
}

type fakeRouter struct {
	address  common.Address
	trade    []byte
	err      error
	resolved []resolveArgs
	built    []swapdomain.Instructions
}

func (r *fakeRouter) ResolveTrade(_ context.Context, amount *big.Int, tokenIn, tokenOut common.Address, path []common.Address) ([]byte, error) {
	r.resolved = append(r.resolved, resolveArgs{amount, tokenIn, tokenOut, path})
	if r.err != nil {
		return nil, r.err
	}
	return r.trade, nil
}

func (r *fakeRouter) Initiate(token common.Address, amount *big.Int, ins swapdomain.Instructions, value *big.Int) chaindomain.Call {
	r.built = append(r.built, ins)
	return chaindomain.Call{
		Contract: r.address,
		Method:   "initiate",
		Args:     []any{token, amount, ins},
		Value:    value,
	}
}

type fakeOpener struct {
	mu     sync.Mutex
	actx   func() *AccountContext
	err    error
	opened []chaindomain.Account
}

func (o *fakeOpener) Open(_ context.Context, account chaindomain.Account) (*AccountContext, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, account)
	if o.err != nil {
		return nil, o.err
	}
	return o.actx(), nil
}

type fakeBuilder struct {
	steps []domain.StepDefinition
	err   error
}

func (b *fakeBuilder) Build(*AccountContext) ([]domain.StepDefinition, error) {
	return b.steps, b.err
}

type memJournal struct {
	mu      sync.Mutex
	records []*domain.CycleRecord
	err     error
}

func (j *memJournal) Record(_ context.Context, rec *domain.CycleRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return j.err
}

// scripted builds a step that returns a fixed result and counts its runs.
func scripted(name string, ok bool, runs *int) domain.StepDefinition {
	return domain.StepDefinition{
		Name:     name,
		Label:    name,
		Amount:   domain.MustRange("0.1", "0.2"),
		Decimals: 4,
		Run: func(_ context.Context, amount string) domain.StepOutcome {
			if runs != nil {
				*runs++
			}
			if !ok {
				return domain.Failed(amount, apperror.New(apperror.CodeTransactionReverted))
			}
			return domain.StepOutcome{Success: true, Amount: amount, TxHash: "0x01"}
		},
	}
}
