package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-scheduling/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockTimeout is returned when a lock cannot be acquired within the
// configured wait. Callers surface it as "temporarily unavailable" and
// never retry internally.
var ErrLockTimeout = errors.New("lock not acquired within wait period")

// Well-known lock key builders. One key per resource for bookings and
// schedule lifecycle, one key per queue for token numbering.
func ResourceLockKey(resourceID uuid.UUID) string {
	return fmt.Sprintf("booking:resource:%s", resourceID)
}

func TokenLockKey(queueID uuid.UUID) string {
	return fmt.Sprintf("booking:token:%s", queueID)
}

func NextTokenLockKey(queueID uuid.UUID) string {
	return fmt.Sprintf("queue:next_token:%s", queueID)
}

// LockService is a named, timeout-bound mutual exclusion primitive.
// Locks are advisory and non-reentrant; the returned release func must
// be called (deferred) by the acquirer.
type LockService interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type redisLockService struct {
	client *redis.Client
	log    *logrus.Logger
	wait   time.Duration
	ttl    time.Duration
}

// NewRedisLockService creates a LockService backed by per-key Redis
// SET NX entries. The TTL bounds how long a crashed holder can wedge a
// key; release deletes the key only if the holder token still matches.
func NewRedisLockService(client *redis.Client, log *logrus.Logger, cfg config.BookingConfig) LockService {
	return &redisLockService{
		client: client,
		log:    log,
		wait:   cfg.LockWait,
		ttl:    cfg.LockTTL,
	}
}

const lockPollInterval = 50 * time.Millisecond

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (s *redisLockService) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(s.wait)

	for {
		ok, err := s.client.SetNX(ctx, key, token, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	release := func() {
		// Release must not inherit a cancelled request context.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := unlockScript.Run(releaseCtx, s.client, []string{key}, token).Result(); err != nil && !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to release lock %s: %+v", key, err)
		}
	}
	return release, nil
}
