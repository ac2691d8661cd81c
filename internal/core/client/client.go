// Package client provides the business logic for pawnshop clients.
package client

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

// Set of errors for client API.
var (
	ErrNotFound        = errors.New("client not found")
	ErrInvalidArgument = errors.New("client invalid argument")
	ErrInvalidEmail    = fmt.Errorf("%w: Email invalide", ErrInvalidArgument)
)

// Store is used to persist client's data.
type Store interface {
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	Delete(ctx context.Context, clientID uuid.UUID) error
	QueryAll(ctx context.Context) ([]Client, error)
	QueryByID(ctx context.Context, clientID uuid.UUID) (Client, error)
}

// Core deals with client's business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs a client core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Create validates and stores a new client.
func (c *Core) Create(ctx context.Context, nc NewClient) (Client, error) {
	now := web.GetTime(ctx).Round(time.Microsecond)

	cl := Client{
		ID:          uuid.New(),
		FirstName:   strings.TrimSpace(nc.FirstName),
		LastName:    strings.TrimSpace(nc.LastName),
		Email:       strings.TrimSpace(nc.Email),
		Phone:       strings.TrimSpace(nc.Phone),
		Address:     nc.Address,
		IDType:      nc.IDType,
		IDNumber:    nc.IDNumber,
		DateCreated: now,
		DateUpdated: now,
	}
	if err := cl.validate(); err != nil {
		return Client{}, err
	}

	if err := c.store.Create(ctx, cl); err != nil {
		return Client{}, fmt.Errorf("create: %w", err)
	}
	c.log.InfoContext(ctx, "client created", "client_id", cl.ID)

	return cl, nil
}

// Update applies the non-nil fields of uc to the client.
func (c *Core) Update(ctx context.Context, clientID uuid.UUID, uc UpdateClient) (Client, error) {
	cl, err := c.store.QueryByID(ctx, clientID)
	if err != nil {
		return Client{}, err
	}

	if uc.FirstName != nil {
		cl.FirstName = strings.TrimSpace(*uc.FirstName)
	}
	if uc.LastName != nil {
		cl.LastName = strings.TrimSpace(*uc.LastName)
	}
	if uc.Email != nil {
		cl.Email = strings.TrimSpace(*uc.Email)
	}
	if uc.Phone != nil {
		cl.Phone = strings.TrimSpace(*uc.Phone)
	}
	if uc.Address != nil {
		cl.Address = *uc.Address
	}
	if uc.IDType != nil {
		cl.IDType = *uc.IDType
	}
	if uc.IDNumber != nil {
		cl.IDNumber = *uc.IDNumber
	}
	cl.DateUpdated = web.GetTime(ctx).Round(time.Microsecond)

	if err := cl.validate(); err != nil {
		return Client{}, err
	}

	if err := c.store.Update(ctx, cl); err != nil {
		return Client{}, fmt.Errorf("update: %w", err)
	}
	c.log.InfoContext(ctx, "client updated", "client_id", cl.ID)

	return cl, nil
}

// Delete removes the client.
func (c *Core) Delete(ctx context.Context, clientID uuid.UUID) error {
	if err := c.store.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	c.log.InfoContext(ctx, "client deleted", "client_id", clientID)

	return nil
}

// QueryAll returns every client, newest first.
func (c *Core) QueryAll(ctx context.Context) ([]Client, error) {
	return c.store.QueryAll(ctx)
}

// QueryByID finds the client by its id.
func (c *Core) QueryByID(ctx context.Context, clientID uuid.UUID) (Client, error) {
	return c.store.QueryByID(ctx, clientID)
}

func (c Client) validate() error {
	switch {
	case c.FirstName == "" && c.LastName == "":
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	case c.Email != "" && !contact.ValidEmail(c.Email):
		return ErrInvalidEmail
	case !c.IDType.valid():
		return fmt.Errorf("%w: unknown id type %q", ErrInvalidArgument, c.IDType)
	}

	return nil
}
