package runstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	// ErrLockHeld indicates another run owns the lock.
	ErrLockHeld = errors.New("export lock held by another run")

	// ErrLockLost indicates the lock expired or was taken over before release.
	ErrLockLost = errors.New("export lock no longer owned")

	// ErrNoRun indicates no run summary has been recorded yet.
	ErrNoRun = errors.New("no run recorded")

	// ErrInvalidSummary indicates the stored summary is corrupted.
	ErrInvalidSummary = errors.New("invalid run summary")
)

// releaseScript deletes the lock only if it still carries our owner token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Manager handles run state operations with a Redis backend.
type Manager struct {
	redis   *redis.Client
	lockTTL time.Duration
	logger  zerolog.Logger
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewManager creates a run state manager. A non-positive lockTTL uses DefaultLockTTL.
func NewManager(redisClient *redis.Client, lockTTL time.Duration, logger zerolog.Logger) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Manager{
		redis:   redisClient,
		lockTTL: lockTTL,
		logger:  logger,
	}
}

// Lock is a held export lock.
type Lock struct {
	manager *Manager
	owner   string
}

// Owner returns the token the lock was acquired with.
func (l *Lock) Owner() string {
	return l.owner
}

// Acquire takes the export lock for owner. It returns ErrLockHeld, naming
// the current holder, when another run has it.
func (m *Manager) Acquire(ctx context.Context, owner string) (*Lock, error) {
	ok, err := m.redis.SetNX(ctx, RedisKeyLock, owner, m.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx: %w", err)
	}

	if !ok {
		holder, err := m.redis.Get(ctx, RedisKeyLock).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redis get lock holder: %w", err)
		}
		ttl, _ := m.redis.PTTL(ctx, RedisKeyLock).Result()

		m.logger.Warn().
			Str("holder", holder).
			Dur("expires_in", ttl).
			Msg("Export lock held by another run")
		return nil, fmt.Errorf("%w: holder %s", ErrLockHeld, holder)
	}

	m.logger.Debug().
		Str("owner", owner).
		Dur("ttl", m.lockTTL).
		Msg("Export lock acquired")

	return &Lock{manager: m, owner: owner}, nil
}

// Release drops the lock if it is still ours.
func (l *Lock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.manager.redis, []string{RedisKeyLock}, l.owner).Int()
	if err != nil {
		return fmt.Errorf("redis release lock: %w", err)
	}
	if n == 0 {
		return ErrLockLost
	}

	l.manager.logger.Debug().Str("owner", l.owner).Msg("Export lock released")
	return nil
}

// RecordRun stores s as the last run summary.
func (m *Manager) RecordRun(ctx context.Context, s *Summary) error {
	if s == nil {
		return fmt.Errorf("run summary cannot be nil")
	}

	data, err := sonic.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	if err := m.redis.Set(ctx, RedisKeyLastRun, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// LastRun returns the most recently recorded summary or ErrNoRun.
func (m *Manager) LastRun(ctx context.Context) (*Summary, error) {
	data, err := m.redis.Get(ctx, RedisKeyLastRun).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoRun
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s Summary
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSummary, err)
	}

	return &s, nil
}
