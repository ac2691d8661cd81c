// Package profile provides the business logic for user profiles filled
// during onboarding.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/contact"
	"github.com/rschio/pawnshop/internal/web"
)

// Set of errors for profile API.
var (
	ErrNotFound        = errors.New("profile not found")
	ErrInvalidArgument = errors.New("profile invalid argument")
)

// Profile is the personal information attached to a user.
type Profile struct {
	UserID       uuid.UUID
	FullName     string
	Email        string
	Phone        string
	SelectedPlan string
	DateCreated  time.Time
	DateUpdated  time.Time
}

// UpsertProfile is the data a user submits in the profile form.
type UpsertProfile struct {
	FullName     string
	Email        string
	Phone        string
	SelectedPlan string
}

// Store is used to persist profiles.
type Store interface {
	Upsert(ctx context.Context, p Profile) error
	QueryByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
}

// Core deals with profile business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs a profile core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Upsert creates the profile of userID or replaces its fields. An empty
// selected plan leaves the stored one in place.
func (c *Core) Upsert(ctx context.Context, userID uuid.UUID, up UpsertProfile) (Profile, error) {
	now := web.GetTime(ctx).Round(time.Microsecond)

	p := Profile{
		UserID:       userID,
		FullName:     strings.TrimSpace(up.FullName),
		Email:        strings.TrimSpace(up.Email),
		Phone:        strings.TrimSpace(up.Phone),
		SelectedPlan: strings.TrimSpace(up.SelectedPlan),
		DateCreated:  now,
		DateUpdated:  now,
	}

	switch {
	case userID == uuid.Nil:
		return Profile{}, fmt.Errorf("%w: user is required", ErrInvalidArgument)
	case p.FullName == "":
		return Profile{}, fmt.Errorf("%w: full name is required", ErrInvalidArgument)
	case p.Email != "" && !contact.ValidEmail(p.Email):
		return Profile{}, fmt.Errorf("%w: invalid email %q", ErrInvalidArgument, p.Email)
	}

	if err := c.store.Upsert(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("upsert: %w", err)
	}
	c.log.InfoContext(ctx, "profile saved", "user_id", userID)

	return c.store.QueryByUserID(ctx, userID)
}

// QueryByUserID returns the profile of the user.
func (c *Core) QueryByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	return c.store.QueryByUserID(ctx, userID)
}
