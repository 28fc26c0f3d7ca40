// File: utils/lock.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const CreationLockPrefix = "schedlock:"

// ErrLockHeld is returned when another writer holds the creation lock.
var ErrLockHeld = fmt.Errorf("creation lock is held by another writer")

// CreationLock serializes slot creation for one staff/resource pair so that
// concurrent single-slot and batch submissions cannot interleave their
// overlap checks.
type CreationLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// AcquireCreationLock takes the creation lock for the given scope key
// (typically the staff ID). It does not block: if the lock is already held,
// ErrLockHeld is returned and the caller should surface a conflict.
func AcquireCreationLock(ctx context.Context, client *redis.Client, scope string, ttl time.Duration) (*CreationLock, error) {
	lock := &CreationLock{
		client: client,
		key:    CreationLockPrefix + scope,
		token:  uuid.New().String(),
		ttl:    ttl,
	}
	ok, err := client.SetNX(ctx, lock.key, lock.token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire creation lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return lock, nil
}

// Release drops the lock if this holder still owns it. The token compare
// keeps an expired holder from deleting a lock re-acquired by someone else.
func (l *CreationLock) Release(ctx context.Context) error {
	const script = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`
	return l.client.Eval(ctx, script, []string{l.key}, l.token).Err()
}
