package journal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/fd1az/crosschain-cycler/business/automation/app"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/health"
)

const defaultKey = "cycler:cycles"

// listClient is the subset of redis.Cmdable the journal needs.
type listClient interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisJournal keeps the most recent cycle records as JSON in a Redis list,
// newest first.
type RedisJournal struct {
	client     listClient
	key        string
	maxEntries int64
}

var _ app.Journal = (*RedisJournal)(nil)

// NewRedisJournal connects to Redis and verifies the connection.
func NewRedisJournal(ctx context.Context, cfg config.RedisConfig) (*RedisJournal, error) {
	if cfg.Addr == "" {
		return nil, apperror.Configuration("journal.redis.addr", errors.New("redis address is required"))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperror.External(apperror.CodeServiceUnavailable, "redis ping", err)
	}

	return newRedisJournal(client, cfg.Key, cfg.MaxEntries), nil
}

func newRedisJournal(client listClient, key string, maxEntries int64) *RedisJournal {
	if key == "" {
		key = defaultKey
	}
	return &RedisJournal{client: client, key: key, maxEntries: maxEntries}
}

// Record pushes rec and trims the list to the configured length.
func (j *RedisJournal) Record(ctx context.Context, rec *domain.CycleRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return apperror.New(apperror.CodeJournalWriteFailed, apperror.WithCause(err), apperror.WithContext("marshal"))
	}

	if err := j.client.LPush(ctx, j.key, payload).Err(); err != nil {
		return apperror.New(apperror.CodeJournalWriteFailed, apperror.WithCause(err), apperror.WithContext(j.key))
	}

	if j.maxEntries > 0 {
		if err := j.client.LTrim(ctx, j.key, 0, j.maxEntries-1).Err(); err != nil {
			return apperror.New(apperror.CodeJournalWriteFailed, apperror.WithCause(err), apperror.WithContext("trim "+j.key))
		}
	}
	return nil
}

// HealthCheck reports whether Redis answers a ping.
func (j *RedisJournal) HealthCheck() health.CheckFunc {
	return func(ctx context.Context) (bool, string) {
		if err := j.client.Ping(ctx).Err(); err != nil {
			return false, err.Error()
		}
		return true, "redis reachable"
	}
}

// Close closes the Redis connection.
func (j *RedisJournal) Close() error {
	if j == nil || j.client == nil {
		return nil
	}
	return j.client.Close()
}
