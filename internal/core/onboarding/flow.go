package onboarding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/core/subscription"
)

// Plans finds the plan a user picked.
type Plans interface {
	QueryByID(ctx context.Context, planID uuid.UUID) (plan.Plan, error)
}

// Subscriber records the plan a user picked.
type Subscriber interface {
	Confirm(ctx context.Context, userID uuid.UUID, p plan.Plan) (subscription.Subscription, error)
	QueryByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error)
}

// Profiles saves the profile form.
type Profiles interface {
	Upsert(ctx context.Context, userID uuid.UUID, up profile.UpsertProfile) (profile.Profile, error)
}

// Verifier sends and checks phone verification codes.
type Verifier interface {
	Send(ctx context.Context, userID uuid.UUID, phone string) error
	Check(ctx context.Context, userID uuid.UUID, code string) error
}

// Flow runs the action behind each step and advances the machine only when
// the action succeeds. A failed action leaves the user on the same step.
type Flow struct {
	log      *slog.Logger
	machine  *Machine
	plans    Plans
	subs     Subscriber
	profiles Profiles
	verifier Verifier
}

// NewFlow constructs the wizard actions.
func NewFlow(log *slog.Logger, machine *Machine, plans Plans, subs Subscriber, profiles Profiles, verifier Verifier) *Flow {
	return &Flow{
		log:      log,
		machine:  machine,
		plans:    plans,
		subs:     subs,
		profiles: profiles,
		verifier: verifier,
	}
}

// Machine returns the underlying state machine.
func (f *Flow) Machine() *Machine {
	return f.machine
}

// ChoosePlan subscribes the user to planID and moves to the profile step.
func (f *Flow) ChoosePlan(ctx context.Context, userID, planID uuid.UUID) (State, subscription.Subscription, error) {
	s, err := f.expect(ctx, userID, StepPlan)
	if err != nil {
		return s, subscription.Subscription{}, err
	}

	p, err := f.plans.QueryByID(ctx, planID)
	if err != nil {
		return s, subscription.Subscription{}, fmt.Errorf("query plan: %w", err)
	}

	sub, err := f.subs.Confirm(ctx, userID, p)
	if err != nil {
		return s, subscription.Subscription{}, fmt.Errorf("confirm: %w", err)
	}

	return f.machine.Advance(ctx, userID, StepNone), sub, nil
}

// CreateProfile saves the profile form and moves to the sms step. A form
// without a selected plan gets the tier the user confirmed last.
func (f *Flow) CreateProfile(ctx context.Context, userID uuid.UUID, up profile.UpsertProfile) (State, profile.Profile, error) {
	s, err := f.expect(ctx, userID, StepProfile)
	if err != nil {
		return s, profile.Profile{}, err
	}

	if up.SelectedPlan == "" {
		subs, err := f.subs.QueryByUser(ctx, userID)
		switch {
		case err != nil:
			f.log.ErrorContext(ctx, "query subscriptions", "user_id", userID, "ERROR", err)
		case len(subs) > 0:
			up.SelectedPlan = string(subs[0].Plan)
		}
	}

	p, err := f.profiles.Upsert(ctx, userID, up)
	if err != nil {
		return s, profile.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	return f.machine.Advance(ctx, userID, StepNone), p, nil
}

// SendCode sends a verification code to phone. The step does not change.
func (f *Flow) SendCode(ctx context.Context, userID uuid.UUID, phone string) (State, error) {
	s, err := f.expect(ctx, userID, StepSMS)
	if err != nil {
		return s, err
	}

	if err := f.verifier.Send(ctx, userID, phone); err != nil {
		return s, fmt.Errorf("send code: %w", err)
	}

	return s, nil
}

// VerifyCode checks the code and finishes the wizard.
func (f *Flow) VerifyCode(ctx context.Context, userID uuid.UUID, code string) (State, error) {
	s, err := f.expect(ctx, userID, StepSMS)
	if err != nil {
		return s, err
	}

	if err := f.verifier.Check(ctx, userID, code); err != nil {
		return s, fmt.Errorf("check code: %w", err)
	}

	return f.machine.Advance(ctx, userID, StepNone), nil
}

func (f *Flow) expect(ctx context.Context, userID uuid.UUID, step Step) (State, error) {
	s := f.machine.Load(ctx, userID)
	if s.CurrentStep != step {
		return s, fmt.Errorf("%w: current step %q, want %q", ErrWrongStep, s.CurrentStep, step)
	}
	return s, nil
}
