// Package onboarding tracks users through the first-run wizard: plan
// selection, profile creation and phone verification.
package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// StorageKey prefixes the key holding a user's serialized state.
const StorageKey = "gcm_onboarding_state_v1"

// Set of errors for onboarding API.
var (
	ErrInvalidArgument = errors.New("onboarding invalid argument")
	ErrWrongStep       = errors.New("onboarding is not on this step")
)

// Storage keeps one string value per key.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Machine applies the wizard transitions and persists the state after
// every change. Storage failures never surface: a state that cannot be
// read counts as not started, a state that cannot be written is logged.
type Machine struct {
	log     *slog.Logger
	storage Storage
}

// NewMachine constructs an onboarding state machine.
func NewMachine(log *slog.Logger, storage Storage) *Machine {
	return &Machine{
		log:     log,
		storage: storage,
	}
}

func key(userID uuid.UUID) string {
	return StorageKey + ":" + userID.String()
}

// Load returns the persisted state of the user.
func (m *Machine) Load(ctx context.Context, userID uuid.UUID) State {
	raw, ok, err := m.storage.Get(ctx, key(userID))
	if err != nil {
		m.log.WarnContext(ctx, "onboarding: read state", "user_id", userID, "err", err)
		return State{}
	}
	if !ok {
		return State{}
	}

	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		m.log.WarnContext(ctx, "onboarding: malformed state", "user_id", userID, "err", err)
		return State{}
	}
	return s
}

// Start begins the wizard at the first step.
func (m *Machine) Start(ctx context.Context, userID uuid.UUID) State {
	return m.apply(ctx, userID, State.Start)
}

// Advance moves to step, or to the next step when step is StepNone.
func (m *Machine) Advance(ctx context.Context, userID uuid.UUID, step Step) State {
	return m.apply(ctx, userID, func(s State) State { return s.Advance(step) })
}

// Skip finishes the wizard without the remaining steps.
func (m *Machine) Skip(ctx context.Context, userID uuid.UUID) State {
	return m.apply(ctx, userID, State.Skip)
}

// Reset clears the state of the user.
func (m *Machine) Reset(ctx context.Context, userID uuid.UUID) State {
	if err := m.storage.Remove(ctx, key(userID)); err != nil {
		m.log.WarnContext(ctx, "onboarding: remove state", "user_id", userID, "err", err)
	}
	return State{}
}

func (m *Machine) apply(ctx context.Context, userID uuid.UUID, fn func(State) State) State {
	s := fn(m.Load(ctx, userID))
	m.save(ctx, userID, s)
	m.log.InfoContext(ctx, "onboarding", "user_id", userID, "step", s.CurrentStep, "completed", s.Completed)
	return s
}

func (m *Machine) save(ctx context.Context, userID uuid.UUID, s State) {
	b, err := json.Marshal(s)
	if err != nil {
		m.log.WarnContext(ctx, "onboarding: encode state", "user_id", userID, "err", err)
		return
	}
	if err := m.storage.Set(ctx, key(userID), string(b)); err != nil {
		m.log.WarnContext(ctx, "onboarding: write state", "user_id", userID, "err", err)
	}
}
