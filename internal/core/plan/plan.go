// Package plan loads the catalog of subscription plans, seeding the
// defaults into an empty table.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/web"
)

// Set of errors for plan API.
var (
	ErrNotFound        = errors.New("plan not found")
	ErrInvalidArgument = errors.New("plan invalid argument")
)

// Store is used to read and seed plans.
type Store interface {
	QueryAll(ctx context.Context) ([]Plan, error)
	QueryByID(ctx context.Context, planID uuid.UUID) (Plan, error)
	CreateMany(ctx context.Context, plans []Plan) error
}

// Locker serializes seeding across processes. Lock returns the function
// that releases the lock.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

type localLocker struct {
	mu sync.Mutex
}

func (l *localLocker) Lock(context.Context) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

// Core deals with the plan catalog.
type Core struct {
	log    *slog.Logger
	store  Store
	locker Locker
}

// NewCore constructs a plan core. A nil locker only serializes seeding
// inside this process.
func NewCore(log *slog.Logger, store Store, locker Locker) *Core {
	if locker == nil {
		locker = &localLocker{}
	}
	return &Core{
		log:    log,
		store:  store,
		locker: locker,
	}
}

// Load returns the plans sorted by ascending price. An empty table is
// seeded with the default catalog first.
func (c *Core) Load(ctx context.Context) ([]Plan, error) {
	plans, err := c.store.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(plans) > 0 {
		return plans, nil
	}

	release, err := c.locker.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed lock: %w", err)
	}
	defer release()

	// Another instance may have seeded while we waited.
	plans, err = c.store.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(plans) > 0 {
		return plans, nil
	}

	c.log.InfoContext(ctx, "plan catalog empty, seeding defaults")

	now := web.GetTime(ctx).Round(time.Microsecond)
	seed := seedPlans()
	for i := range seed {
		seed[i].ID = uuid.New()
		seed[i].DateCreated = now
	}
	if err := c.store.CreateMany(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	plans, err = c.store.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return plans, nil
}

// Catalog is Load that never fails: errors are logged and an empty
// catalog is returned.
func (c *Core) Catalog(ctx context.Context) []Plan {
	plans, err := c.Load(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "loading plan catalog", "err", err)
		return []Plan{}
	}
	return plans
}

// QueryByID finds the plan by its id.
func (c *Core) QueryByID(ctx context.Context, planID uuid.UUID) (Plan, error) {
	return c.store.QueryByID(ctx, planID)
}
