package journal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// fakeList keeps an in-memory list with Redis LPUSH/LTRIM semantics.
type fakeList struct {
	items   map[string][]string
	pushErr error
	pingErr error
	closed  bool
}

func newFakeList() *fakeList { return &fakeList{items: map[string][]string{}} }

func (f *fakeList) LPush(ctx context.Context, key string, values ...any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.pushErr != nil {
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, v := range values {
		var s string
		switch t := v.(type) {
		case []byte:
			s = string(t)
		case string:
			s = t
		}
		f.items[key] = append([]string{s}, f.items[key]...)
	}
	cmd.SetVal(int64(len(f.items[key])))
	return cmd
}

func (f *fakeList) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	list := f.items[key]
	if stop+1 < int64(len(list)) {
		list = list[start : stop+1]
	}
	f.items[key] = list
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeList) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.pingErr != nil {
		cmd.SetErr(f.pingErr)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeList) Close() error {
	f.closed = true
	return nil
}

func record(account string) *domain.CycleRecord {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := domain.NewCycleRecord(account, start)
	rec.Steps = []domain.StepOutcome{
		{Step: "bridge_eth_base_to_kite", Success: true, Amount: "0.001200", TxHash: "0xabc"},
		{Step: "swap_kite_to_usdt", Amount: "0.020000", Error: "reverted", Code: apperror.CodeTransactionReverted},
	}
	rec.Completed = true
	rec.EndedAt = start.Add(42 * time.Minute)
	return rec
}

func TestRedisJournal_PushesJSONNewestFirst(t *testing.T) {
	list := newFakeList()
	j := newRedisJournal(list, "", 0)

	require.NoError(t, j.Record(context.Background(), record("0x1")))
	require.NoError(t, j.Record(context.Background(), record("0x2")))

	items := list.items[defaultKey]
	require.Len(t, items, 2)

	var got domain.CycleRecord
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, "0x2", got.Account)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, apperror.CodeTransactionReverted, got.Steps[1].Code)
	assert.True(t, got.Completed)
}

func TestRedisJournal_TrimsToMaxEntries(t *testing.T) {
	list := newFakeList()
	j := newRedisJournal(list, "cycles", 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(context.Background(), record("0x1")))
	}
	assert.Len(t, list.items["cycles"], 3)
}

func TestRedisJournal_WriteFailure(t *testing.T) {
	list := newFakeList()
	list.pushErr = errors.New("connection refused")
	j := newRedisJournal(list, "cycles", 3)

	err := j.Record(context.Background(), record("0x1"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeJournalWriteFailed, apperror.GetCode(err))
}

func TestRedisJournal_HealthAndClose(t *testing.T) {
	list := newFakeList()
	j := newRedisJournal(list, "cycles", 3)

	ok, _ := j.HealthCheck()(context.Background())
	assert.True(t, ok)

	list.pingErr = errors.New("down")
	ok, msg := j.HealthCheck()(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "down", msg)

	require.NoError(t, j.Close())
	assert.True(t, list.closed)
}

func TestNewRedisJournal_RequiresAddress(t *testing.T) {
	_, err := NewRedisJournal(context.Background(), config.RedisConfig{})
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
}

func TestMulti_WritesEverywhere(t *testing.T) {
	ok := newFakeList()
	bad := newFakeList()
	bad.pushErr = errors.New("nope")

	m := Multi{
		NewLogJournal(logger.NewDiscard()),
		newRedisJournal(bad, "a", 0),
		newRedisJournal(ok, "b", 0),
	}

	err := m.Record(context.Background(), record("0x1"))
	require.Error(t, err)
	assert.Len(t, ok.items["b"], 1, "a failing sink does not starve the others")
}
