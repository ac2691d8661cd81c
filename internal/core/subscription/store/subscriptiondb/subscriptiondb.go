// Package subscriptiondb contains subscription related database access.
package subscriptiondb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/subscription"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbSubscription struct {
	ID                 uuid.UUID `db:"id"`
	UserID             uuid.UUID `db:"user_id"`
	PlanID             uuid.UUID `db:"plan_id"`
	Plan               string    `db:"plan"`
	Status             string    `db:"status"`
	Price              int64     `db:"price"`
	BillingPeriod      string    `db:"billing_period"`
	CurrentPeriodStart time.Time `db:"current_period_start"`
	CurrentPeriodEnd   time.Time `db:"current_period_end"`
	DateCreated        time.Time `db:"created_at"`
	DateUpdated        time.Time `db:"updated_at"`
}

func toSubscription(d dbSubscription) subscription.Subscription {
	return subscription.Subscription{
		ID:                 d.ID,
		UserID:             d.UserID,
		PlanID:             d.PlanID,
		Plan:               plan.Tier(d.Plan),
		Status:             subscription.Status(d.Status),
		Price:              d.Price,
		BillingPeriod:      d.BillingPeriod,
		CurrentPeriodStart: d.CurrentPeriodStart.In(time.UTC),
		CurrentPeriodEnd:   d.CurrentPeriodEnd.In(time.UTC),
		DateCreated:        d.DateCreated.In(time.UTC),
		DateUpdated:        d.DateUpdated.In(time.UTC),
	}
}

// Store manages the set of APIs for subscription database access.
type Store struct {
	log    *slog.Logger
	db     db.DB
	tables dbschema.Tables
}

// NewStore constructs the api for data access.
func NewStore(log *slog.Logger, database db.DB, tables dbschema.Tables) *Store {
	return &Store{
		log:    log,
		db:     database,
		tables: tables.WithDefaults(),
	}
}

// Upsert inserts the subscription, or refreshes the existing one for the
// same user and plan. It returns the stored row, which keeps the id and
// creation time of an existing subscription.
func (s *Store) Upsert(ctx context.Context, sub subscription.Subscription) (subscription.Subscription, error) {
	const q = `
	INSERT INTO {{.Subscriptions}}
		(id, user_id, plan_id, plan, status, price, billing_period,
		 current_period_start, current_period_end, created_at, updated_at)
	VALUES
		(@id, @user_id, @plan_id, @plan, @status, @price, @billing_period,
		 @current_period_start, @current_period_end, @created_at, @updated_at)
	ON CONFLICT (user_id, plan_id) DO UPDATE SET
		plan = EXCLUDED.plan,
		status = EXCLUDED.status,
		price = EXCLUDED.price,
		billing_period = EXCLUDED.billing_period,
		current_period_start = EXCLUDED.current_period_start,
		current_period_end = EXCLUDED.current_period_end,
		updated_at = EXCLUDED.updated_at
	RETURNING
		id, user_id, plan_id, plan, status, price, billing_period,
		current_period_start, current_period_end, created_at, updated_at`

	data := dbSubscription{
		ID:                 sub.ID,
		UserID:             sub.UserID,
		PlanID:             sub.PlanID,
		Plan:               string(sub.Plan),
		Status:             string(sub.Status),
		Price:              sub.Price,
		BillingPeriod:      sub.BillingPeriod,
		CurrentPeriodStart: sub.CurrentPeriodStart.UTC(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd.UTC(),
		DateCreated:        sub.DateCreated.UTC(),
		DateUpdated:        sub.DateUpdated.UTC(),
	}

	stored, err := db.NamedQueryStruct[dbSubscription](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toSubscription(stored), nil
}

// QueryByUser retrieves the subscriptions of a user, the most recently
// confirmed first.
func (s *Store) QueryByUser(ctx context.Context, userID uuid.UUID) ([]subscription.Subscription, error) {
	data := struct {
		UserID uuid.UUID `db:"user_id"`
	}{
		UserID: userID,
	}

	const q = `
	SELECT
		id, user_id, plan_id, plan, status, price, billing_period,
		current_period_start, current_period_end, created_at, updated_at
	FROM
		{{.Subscriptions}}
	WHERE
		user_id = @user_id
	ORDER BY
		updated_at DESC, created_at DESC`

	ds, err := db.NamedQuerySlice[dbSubscription](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	subs := make([]subscription.Subscription, len(ds))
	for i, d := range ds {
		subs[i] = toSubscription(d)
	}
	return subs, nil
}
