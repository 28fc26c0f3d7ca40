package scheduling

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"bookify/utils"
)

// CreationLocker serializes slot creation for a scope key (a staff or
// resource ID), so that concurrent single-slot and batch submissions touching
// the same scope cannot interleave their overlap checks.
type CreationLocker interface {
	// Acquire takes the lock and returns its release func, or a conflict
	// error when another writer holds it.
	Acquire(ctx context.Context, scope string) (func(context.Context), error)
}

// RedisCreationLocker backs CreationLocker with a redis SETNX lease.
type RedisCreationLocker struct {
	Client *redis.Client
	TTL    time.Duration
}

func (l *RedisCreationLocker) Acquire(ctx context.Context, scope string) (func(context.Context), error) {
	ttl := l.TTL
	if ttl == 0 {
		ttl = 10 * time.Second
	}
	lock, err := utils.AcquireCreationLock(ctx, l.Client, scope, ttl)
	if err != nil {
		if errors.Is(err, utils.ErrLockHeld) {
			return nil, NewConflictError("another scheduling change for this staff member is in progress")
		}
		return nil, err
	}
	return func(ctx context.Context) { _ = lock.Release(ctx) }, nil
}

// lockCreation acquires the creation lease on both conflict axes: the staff
// ID and, when the slot is resource-backed, the resource ID. Creation for a
// given staff/resource pair is fully serialized that way; two writers sharing
// either axis cannot run their overlap checks side by side. Scopes are taken
// in sorted order so concurrent acquirers cannot deadlock, and a failed
// second acquire rolls the first back.
func (e *Engine) lockCreation(ctx context.Context, staffID, resourceID string) (func(context.Context), error) {
	if e.Locks == nil {
		return func(context.Context) {}, nil
	}

	scopes := []string{staffID}
	if resourceID != "" && resourceID != staffID {
		scopes = append(scopes, resourceID)
	}
	sort.Strings(scopes)

	releases := make([]func(context.Context), 0, len(scopes))
	releaseAll := func(ctx context.Context) {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i](ctx)
		}
	}
	for _, scope := range scopes {
		release, err := e.Locks.Acquire(ctx, scope)
		if err != nil {
			releaseAll(ctx)
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
