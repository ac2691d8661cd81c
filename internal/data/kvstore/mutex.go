package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Mutex is a named lock shared by every process talking to the same Redis.
type Mutex struct {
	rs     *redsync.Redsync
	name   string
	expiry time.Duration
}

// NewMutex constructs a distributed mutex called name. The lock is released
// by Redis after expiry if the holder dies.
func NewMutex(client *redis.Client, name string, expiry time.Duration) *Mutex {
	return &Mutex{
		rs:     redsync.New(goredis.NewPool(client)),
		name:   name,
		expiry: expiry,
	}
}

// Lock blocks until the mutex is acquired or ctx is done. The returned
// function releases it.
func (m *Mutex) Lock(ctx context.Context) (func(), error) {
	mu := m.rs.NewMutex(m.name,
		redsync.WithExpiry(m.expiry),
		redsync.WithTries(64),
		redsync.WithRetryDelay(100*time.Millisecond),
	)
	if err := mu.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("lock %s: %w", m.name, err)
	}

	release := func() {
		// A background context so a cancelled request still frees the lock.
		mu.UnlockContext(context.Background())
	}
	return release, nil
}
