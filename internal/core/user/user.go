// Package user provides the business logic for back-office accounts.
package user

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
	"golang.org/x/crypto/bcrypt"
)

// Set of errors for user API.
var (
	ErrNotFound        = errors.New("user not found")
	ErrInvalidArgument = errors.New("user invalid argument")
	ErrUniqueEmail     = errors.New("email is not unique")
	ErrAuthFailure     = errors.New("authentication failed")
)

// Store is used to persist user data.
type Store interface {
	Create(ctx context.Context, u User) error
	QueryByID(ctx context.Context, userID uuid.UUID) (User, error)
	QueryByEmail(ctx context.Context, email string) (User, error)
	SetPhoneVerified(ctx context.Context, userID uuid.UUID, phone string, at time.Time) error
}

// Core deals with user business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs a user core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Create hashes the password and stores a new user.
func (c *Core) Create(ctx context.Context, nu NewUser) (User, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	if !contact.ValidEmail(email) {
		return User{}, fmt.Errorf("%w: invalid email %q", ErrInvalidArgument, nu.Email)
	}
	if len(nu.Password) < 6 {
		return User{}, fmt.Errorf("%w: password too short", ErrInvalidArgument)
	}
	role := nu.Role
	if role == "" {
		role = RoleUser
	}
	if !role.valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, nu.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("generatefrompassword: %w", err)
	}

	now := web.GetTime(ctx).Round(time.Microsecond)
	u := User{
		ID:           uuid.New(),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(nu.Phone),
		DateCreated:  now,
		DateUpdated:  now,
	}

	if err := c.store.Create(ctx, u); err != nil {
		return User{}, fmt.Errorf("create: %w", err)
	}
	c.log.InfoContext(ctx, "user created", "user_id", u.ID, "role", u.Role)

	return u, nil
}

// QueryByID finds the user by id.
func (c *Core) QueryByID(ctx context.Context, userID uuid.UUID) (User, error) {
	return c.store.QueryByID(ctx, userID)
}

// QueryByEmail finds the user by email.
func (c *Core) QueryByEmail(ctx context.Context, email string) (User, error) {
	return c.store.QueryByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Authenticate checks the password of the user with the given email.
func (c *Core) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := c.QueryByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrAuthFailure
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrAuthFailure
	}

	return u, nil
}

// MarkPhoneVerified records that the user proved ownership of phone.
func (c *Core) MarkPhoneVerified(ctx context.Context, userID uuid.UUID, phone string) error {
	now := web.GetTime(ctx).Round(time.Microsecond)
	if err := c.store.SetPhoneVerified(ctx, userID, strings.TrimSpace(phone), now); err != nil {
		return fmt.Errorf("setphoneverified: %w", err)
	}
	c.log.InfoContext(ctx, "phone verified", "user_id", userID)

	return nil
}
