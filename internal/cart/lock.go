package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgredis "github.com/merawaalameetha/meetha-backend/pkg/redis"
)

const (
	defaultLockTTL      = 5 * time.Second
	defaultLockAttempts = 3
	defaultLockWait     = 50 * time.Millisecond
)

// ErrLockHeld is returned when another writer owns the session lock.
var ErrLockHeld = errors.New("cart session lock held")

// Locker serializes writers of one cart session.
type Locker interface {
	Lock(ctx context.Context, session string) (unlock func(context.Context) error, err error)
}

// keyedMutex hands out one mutex per session, dropping it when the last holder leaves.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedEntry{}}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

type redisLockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartLockKey(session string) string
}

// SessionLocker combines an in-process keyed mutex with an optional Redis SETNX lock
// so replicas never interleave writes to one session.
type SessionLocker struct {
	local    *keyedMutex
	redis    redisLockStore
	ttl      time.Duration
	attempts int
	wait     time.Duration
}

// LockerOption customizes a SessionLocker.
type LockerOption func(*SessionLocker)

// WithLockRetry bounds how often a held Redis lock is retried and the pause
// between tries. attempts below 1 means a single try.
func WithLockRetry(attempts int, wait time.Duration) LockerOption {
	return func(l *SessionLocker) {
		if attempts < 1 {
			attempts = 1
		}
		l.attempts = attempts
		l.wait = wait
	}
}

// NewSessionLocker returns a locker. A nil store leaves only the in-process mutex.
func NewSessionLocker(store redisLockStore, ttl time.Duration, opts ...LockerOption) *SessionLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	l := &SessionLocker{
		local:    newKeyedMutex(),
		redis:    store,
		ttl:      ttl,
		attempts: defaultLockAttempts,
		wait:     defaultLockWait,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires the session lock. A Redis lock still held elsewhere after the
// configured retries yields ErrLockHeld.
func (l *SessionLocker) Lock(ctx context.Context, session string) (func(context.Context) error, error) {
	release := l.local.lock(session)
	if l.redis == nil {
		return func(context.Context) error {
			release()
			return nil
		}, nil
	}

	key := l.redis.CartLockKey(session)
	owner := uuid.NewString()
	if err := l.acquire(ctx, key, owner); err != nil {
		release()
		return nil, err
	}

	return func(ctx context.Context) error {
		defer release()
		value, err := l.redis.Get(ctx, key)
		if err != nil {
			if pkgredis.IsNil(err) {
				return nil
			}
			return fmt.Errorf("read lock owner: %w", err)
		}
		if value != owner {
			return nil
		}
		if err := l.redis.Del(ctx, key); err != nil {
			return fmt.Errorf("delete lock: %w", err)
		}
		return nil
	}, nil
}

func (l *SessionLocker) acquire(ctx context.Context, key, owner string) error {
	for attempt := 1; ; attempt++ {
		ok, err := l.redis.SetNX(ctx, key, owner, l.ttl)
		if err != nil {
			return fmt.Errorf("setnx: %w", err)
		}
		if ok {
			return nil
		}
		if attempt >= l.attempts {
			return ErrLockHeld
		}
		timer := time.NewTimer(l.wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
