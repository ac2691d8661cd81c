// Package subscription records which plan a user subscribed to.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/web"
)

// Set of errors for subscription API.
var (
	ErrInvalidArgument = errors.New("subscription invalid argument")
)

// Status of a subscription.
type Status string

// Set of subscription statuses.
const (
	StatusActive Status = "active"
	StatusTrial  Status = "trial"
)

// Subscription ties a user to a plan for a billing period.
type Subscription struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	PlanID             uuid.UUID
	Plan               plan.Tier
	Status             Status
	Price              int64
	BillingPeriod      string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	DateCreated        time.Time
	DateUpdated        time.Time
}

// Store is used to persist subscriptions.
type Store interface {
	Upsert(ctx context.Context, s Subscription) (Subscription, error)
	QueryByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error)
}

// Core deals with subscription business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs a subscription core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Confirm subscribes the user to p. A second confirmation of the same plan
// restarts its period. The free tier starts active, every other tier
// starts as a trial.
func (c *Core) Confirm(ctx context.Context, userID uuid.UUID, p plan.Plan) (Subscription, error) {
	if userID == uuid.Nil || p.ID == uuid.Nil {
		return Subscription{}, fmt.Errorf("%w: user and plan are required", ErrInvalidArgument)
	}

	now := web.GetTime(ctx).Round(time.Microsecond)

	s := Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		PlanID:             p.ID,
		Plan:               p.Type,
		Status:             StatusTrial,
		Price:              p.Price,
		BillingPeriod:      p.BillingPeriod(),
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, p.DurationDays),
		DateCreated:        now,
		DateUpdated:        now,
	}
	if p.Type == plan.TierFree {
		s.Status = StatusActive
	}

	s, err := c.store.Upsert(ctx, s)
	if err != nil {
		return Subscription{}, fmt.Errorf("upsert: %w", err)
	}
	c.log.InfoContext(ctx, "subscription confirmed", "user_id", userID, "plan", p.Type, "status", s.Status)

	return s, nil
}

// QueryByUser lists the subscriptions of the user, the most recently
// confirmed first.
func (c *Core) QueryByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error) {
	return c.store.QueryByUser(ctx, userID)
}
