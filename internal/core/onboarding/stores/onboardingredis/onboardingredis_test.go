package onboardingredis

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/data/kvtest"
)

func TestStore(t *testing.T) {
	client, teardown := kvtest.NewUnit(t)
	t.Cleanup(teardown)

	ctx := context.Background()
	store := NewStore(client, 0)

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := store.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("get: got %q ok=%v err=%v", v, ok, err)
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("key still present after remove")
	}
}

func TestMachineRoundTrip(t *testing.T) {
	client, teardown := kvtest.NewUnit(t)
	t.Cleanup(teardown)

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()

	m := onboarding.NewMachine(log, NewStore(client, 0))
	m.Start(ctx, userID)
	m.Advance(ctx, userID, onboarding.StepNone)

	raw, err := client.Get(ctx, onboarding.StorageKey+":"+userID.String()).Result()
	if err != nil {
		t.Fatalf("state not persisted: %v", err)
	}
	if raw != `{"started":true,"completed":false,"currentStep":"profile"}` {
		t.Errorf("got stored state %s", raw)
	}

	// A fresh machine sees the same state.
	got := onboarding.NewMachine(log, NewStore(client, 0)).Load(ctx, userID)
	if got.CurrentStep != onboarding.StepProfile || !got.Started {
		t.Fatalf("got %+v after reload", got)
	}

	m.Reset(ctx, userID)
	if n, _ := client.Exists(ctx, onboarding.StorageKey+":"+userID.String()).Result(); n != 0 {
		t.Fatalf("reset left the key behind")
	}
}
