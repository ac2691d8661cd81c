package coderedis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/verify"
	"github.com/rschio/pawnshop/internal/data/kvtest"
)

func TestStore(t *testing.T) {
	client, teardown := kvtest.NewUnit(t)
	t.Cleanup(teardown)

	ctx := context.Background()
	store := NewStore(client)
	userID := uuid.New()

	if _, err := store.Get(ctx, userID); !errors.Is(err, verify.ErrCodeExpired) {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}

	if err := store.Put(ctx, userID, verify.Code{Value: "123456", Phone: "+2250700000000"}, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	ttl, err := client.TTL(ctx, key(userID)).Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("key has no expiry: %v %v", ttl, err)
	}

	if n, err := store.IncrAttempts(ctx, userID); err != nil || n != 1 {
		t.Fatalf("incr: got %d %v", n, err)
	}

	got, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value != "123456" || got.Phone != "+2250700000000" || got.Attempts != 1 {
		t.Fatalf("unexpected code: %+v", got)
	}

	if err := store.Put(ctx, userID, verify.Code{Value: "654321", Phone: "x"}, time.Minute); err != nil {
		t.Fatalf("put again: %v", err)
	}
	if got, _ := store.Get(ctx, userID); got.Attempts != 0 || got.Value != "654321" {
		t.Fatalf("put must reset the pending code: %+v", got)
	}

	if err := store.Delete(ctx, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, userID); !errors.Is(err, verify.ErrCodeExpired) {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}
}

func TestExpiry(t *testing.T) {
	client, teardown := kvtest.NewUnit(t)
	t.Cleanup(teardown)

	ctx := context.Background()
	store := NewStore(client)
	userID := uuid.New()

	if err := store.Put(ctx, userID, verify.Code{Value: "123456"}, time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Get(ctx, userID); !errors.Is(err, verify.ErrCodeExpired) {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}
}

func TestIncrAttemptsAfterExpiry(t *testing.T) {
	client, teardown := kvtest.NewUnit(t)
	t.Cleanup(teardown)

	ctx := context.Background()
	store := NewStore(client)
	userID := uuid.New()

	if _, err := store.IncrAttempts(ctx, userID); !errors.Is(err, verify.ErrCodeExpired) {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}
	if n, err := client.Exists(ctx, key(userID)).Result(); err != nil || n != 0 {
		t.Fatalf("a failed guess left key behind: %d %v", n, err)
	}

	if err := store.Put(ctx, userID, verify.Code{Value: "123456"}, time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)

	if _, err := store.IncrAttempts(ctx, userID); !errors.Is(err, verify.ErrCodeExpired) {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}
	if n, err := client.Exists(ctx, key(userID)).Result(); err != nil || n != 0 {
		t.Fatalf("expired code was recreated: %d %v", n, err)
	}
}
