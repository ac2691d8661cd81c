// Package coderedis keeps pending verification codes in Redis.
package coderedis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rschio/pawnshop/internal/core/verify"
)

const prefix = "sms_code:"

// Store manages verification codes in Redis hashes.
type Store struct {
	client *redis.Client
}

// NewStore constructs a code store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userID uuid.UUID) string {
	return prefix + userID.String()
}

// Put replaces the pending code of the user. The key expires after ttl.
func (s *Store) Put(ctx context.Context, userID uuid.UUID, c verify.Code, ttl time.Duration) error {
	k := key(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, "code", c.Value, "phone", c.Phone, "attempts", c.Attempts)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Get returns the pending code. A missing key means the code expired or
// was never sent.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (verify.Code, error) {
	m, err := s.client.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return verify.Code{}, fmt.Errorf("hgetall: %w", err)
	}
	if m["code"] == "" {
		return verify.Code{}, verify.ErrCodeExpired
	}

	attempts, _ := strconv.Atoi(m["attempts"])
	return verify.Code{
		Value:    m["code"],
		Phone:    m["phone"],
		Attempts: attempts,
	}, nil
}

// incrExisting bumps the attempts field only when the hash still exists,
// so an expired code is never recreated without a TTL.
var incrExisting = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// IncrAttempts counts a wrong guess and returns the total. It returns
// verify.ErrCodeExpired when the code is gone.
func (s *Store) IncrAttempts(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := incrExisting.Run(ctx, s.client, []string{key(userID)}).Int()
	if err != nil {
		return 0, fmt.Errorf("hincrby: %w", err)
	}
	if n < 0 {
		return 0, verify.ErrCodeExpired
	}
	return n, nil
}

// Delete removes the pending code.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}
