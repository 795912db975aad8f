package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func requestLockKey(requestID int64) string {
	return fmt.Sprintf("lock:request:%d", requestID)
}

// AcquireRequestLock attempts to take the decision lock for a request.
// It returns the lock token and whether the lock was acquired.
func (s *LockStore) AcquireRequestLock(ctx context.Context, requestID int64, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()

	ok, err := s.client.SetNX(ctx, requestLockKey(requestID), token, ttl).Result()
	if err != nil {
		return "", false, err
	}

	return token, ok, nil
}

// ReleaseRequestLock releases the lock if it is still held with token.
func (s *LockStore) ReleaseRequestLock(ctx context.Context, requestID int64, token string) error {
	return releaseScript.Run(ctx, s.client, []string{requestLockKey(requestID)}, token).Err()
}
