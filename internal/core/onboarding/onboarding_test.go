package onboarding_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/core/onboarding/stores/onboardingmem"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartThenReset(t *testing.T) {
	ctx := context.Background()
	store := onboardingmem.NewStore()
	m := onboarding.NewMachine(discard(), store)
	userID := uuid.New()

	s := m.Start(ctx, userID)
	if diff := cmp.Diff(onboarding.State{Started: true, CurrentStep: onboarding.StepPlan}, s); diff != "" {
		t.Fatalf("after start: %s", diff)
	}

	s = m.Reset(ctx, userID)
	if diff := cmp.Diff(onboarding.State{}, s); diff != "" {
		t.Fatalf("after reset: %s", diff)
	}
	if _, ok, _ := store.Get(ctx, onboarding.StorageKey+":"+userID.String()); ok {
		t.Fatalf("reset must remove the persisted state")
	}
	if diff := cmp.Diff(onboarding.State{}, m.Load(ctx, userID)); diff != "" {
		t.Fatalf("load after reset: %s", diff)
	}
}

func TestAdvanceReachesDoneAfterThreeSteps(t *testing.T) {
	ctx := context.Background()
	m := onboarding.NewMachine(discard(), onboardingmem.NewStore())
	userID := uuid.New()

	m.Start(ctx, userID)
	want := []onboarding.Step{onboarding.StepProfile, onboarding.StepSMS, onboarding.StepDone}
	for i, step := range want {
		s := m.Advance(ctx, userID, onboarding.StepNone)
		if s.CurrentStep != step {
			t.Fatalf("advance %d: got step %q, want %q", i+1, s.CurrentStep, step)
		}
		if s.Completed != (step == onboarding.StepDone) {
			t.Fatalf("advance %d: completed=%v on step %q", i+1, s.Completed, step)
		}
	}

	s := m.Advance(ctx, userID, onboarding.StepNone)
	if s.CurrentStep != onboarding.StepDone || !s.Completed {
		t.Fatalf("advance past done changed state: %+v", s)
	}
}

func TestAdvanceExplicitStep(t *testing.T) {
	ctx := context.Background()
	m := onboarding.NewMachine(discard(), onboardingmem.NewStore())
	userID := uuid.New()

	m.Start(ctx, userID)
	s := m.Advance(ctx, userID, onboarding.StepSMS)
	if s.CurrentStep != onboarding.StepSMS || s.Completed {
		t.Fatalf("got %+v", s)
	}
	s = m.Advance(ctx, userID, onboarding.StepDone)
	if s.CurrentStep != onboarding.StepDone || !s.Completed {
		t.Fatalf("got %+v", s)
	}
}

func TestAdvanceBeforeStartIsNoop(t *testing.T) {
	ctx := context.Background()
	m := onboarding.NewMachine(discard(), onboardingmem.NewStore())

	s := m.Advance(ctx, uuid.New(), onboarding.StepNone)
	if diff := cmp.Diff(onboarding.State{}, s); diff != "" {
		t.Fatalf("got %s", diff)
	}
}

func TestSkipFromAnyStep(t *testing.T) {
	ctx := context.Background()

	for _, step := range []onboarding.Step{onboarding.StepNone, onboarding.StepPlan, onboarding.StepProfile, onboarding.StepSMS} {
		t.Run(string(step), func(t *testing.T) {
			m := onboarding.NewMachine(discard(), onboardingmem.NewStore())
			userID := uuid.New()
			if step != onboarding.StepNone {
				m.Start(ctx, userID)
				m.Advance(ctx, userID, step)
			}

			s := m.Skip(ctx, userID)
			if s.CurrentStep != onboarding.StepDone || !s.Completed {
				t.Fatalf("got %+v", s)
			}
		})
	}
}

func TestMalformedStateIsNotStarted(t *testing.T) {
	ctx := context.Background()
	store := onboardingmem.NewStore()
	m := onboarding.NewMachine(discard(), store)
	userID := uuid.New()
	k := onboarding.StorageKey + ":" + userID.String()

	for _, raw := range []string{"{", "[]", `{"currentStep":"splash"}`, "null"} {
		store.Set(ctx, k, raw)
		if diff := cmp.Diff(onboarding.State{}, m.Load(ctx, userID)); diff != "" {
			t.Errorf("%q: %s", raw, diff)
		}
	}
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (failingStorage) Set(context.Context, string, string) error { return errors.New("quota exceeded") }
func (failingStorage) Remove(context.Context, string) error      { return errors.New("storage unavailable") }

func TestStorageFailuresAreIgnored(t *testing.T) {
	ctx := context.Background()
	m := onboarding.NewMachine(discard(), failingStorage{})
	userID := uuid.New()

	s := m.Start(ctx, userID)
	if s.CurrentStep != onboarding.StepPlan {
		t.Fatalf("got %+v", s)
	}
	if diff := cmp.Diff(onboarding.State{}, m.Reset(ctx, userID)); diff != "" {
		t.Fatalf("reset: %s", diff)
	}
}

func TestView(t *testing.T) {
	tests := map[onboarding.Step]string{
		onboarding.StepNone:    "",
		onboarding.StepPlan:    "plan_selector",
		onboarding.StepProfile: "profile_form",
		onboarding.StepSMS:     "sms_form",
		onboarding.StepDone:    "",
	}
	for step, want := range tests {
		if got := onboarding.View(step); got != want {
			t.Errorf("%q: got %q, want %q", step, got, want)
		}
	}
}

func TestParseStep(t *testing.T) {
	if _, err := onboarding.ParseStep("auth"); !errors.Is(err, onboarding.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if s, err := onboarding.ParseStep("sms"); err != nil || s != onboarding.StepSMS {
		t.Fatalf("got %q, %v", s, err)
	}
}
