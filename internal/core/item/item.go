// Package item provides the business logic for pawned items.
package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/web"
)

// Set of errors for item API.
var (
	ErrNotFound        = errors.New("item not found")
	ErrInvalidArgument = errors.New("item invalid argument")
)

// Store is used to persist item's data.
type Store interface {
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	QueryAll(ctx context.Context) ([]Item, error)
	QueryByID(ctx context.Context, itemID uuid.UUID) (Item, error)
	QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]Item, error)
}

// Core deals with item's business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs an item core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Create validates and stores a new item. A missing status means the item
// has just been stored.
func (c *Core) Create(ctx context.Context, ni NewItem) (Item, error) {
	now := web.GetTime(ctx).Round(time.Microsecond)

	it := Item{
		ID:             uuid.New(),
		ClientID:       ni.ClientID,
		Name:           strings.TrimSpace(ni.Name),
		Description:    ni.Description,
		Category:       ni.Category,
		Condition:      ni.Condition,
		EstimatedValue: ni.EstimatedValue,
		Status:         ni.Status,
		Images:         ni.Images,
		DateCreated:    now,
		DateUpdated:    now,
	}
	if it.Status == "" {
		it.Status = StatusStored
	}
	if it.Images == nil {
		it.Images = []string{}
	}
	if err := it.validate(); err != nil {
		return Item{}, err
	}

	if err := c.store.Create(ctx, it); err != nil {
		return Item{}, fmt.Errorf("create: %w", err)
	}
	c.log.InfoContext(ctx, "item created", "item_id", it.ID, "client_id", it.ClientID)

	return it, nil
}

// Update applies the non-nil fields of ui to the item.
func (c *Core) Update(ctx context.Context, itemID uuid.UUID, ui UpdateItem) (Item, error) {
	it, err := c.store.QueryByID(ctx, itemID)
	if err != nil {
		return Item{}, err
	}

	if ui.ClientID != nil {
		it.ClientID = *ui.ClientID
	}
	if ui.Name != nil {
		it.Name = strings.TrimSpace(*ui.Name)
	}
	if ui.Description != nil {
		it.Description = *ui.Description
	}
	if ui.Category != nil {
		it.Category = *ui.Category
	}
	if ui.Condition != nil {
		it.Condition = *ui.Condition
	}
	if ui.EstimatedValue != nil {
		it.EstimatedValue = *ui.EstimatedValue
	}
	if ui.Status != nil {
		it.Status = *ui.Status
	}
	if ui.Images != nil {
		it.Images = ui.Images
	}
	it.DateUpdated = web.GetTime(ctx).Round(time.Microsecond)

	if err := it.validate(); err != nil {
		return Item{}, err
	}

	if err := c.store.Update(ctx, it); err != nil {
		return Item{}, fmt.Errorf("update: %w", err)
	}
	c.log.InfoContext(ctx, "item updated", "item_id", it.ID, "status", it.Status)

	return it, nil
}

// Delete removes the item.
func (c *Core) Delete(ctx context.Context, itemID uuid.UUID) error {
	if err := c.store.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	c.log.InfoContext(ctx, "item deleted", "item_id", itemID)

	return nil
}

// QueryAll returns every item with its owner, newest first.
func (c *Core) QueryAll(ctx context.Context) ([]Item, error) {
	return c.store.QueryAll(ctx)
}

// QueryByID finds the item by its id.
func (c *Core) QueryByID(ctx context.Context, itemID uuid.UUID) (Item, error) {
	return c.store.QueryByID(ctx, itemID)
}

// QueryByClientID returns the items pawned by a client.
func (c *Core) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]Item, error) {
	return c.store.QueryByClientID(ctx, clientID)
}

func (it Item) validate() error {
	switch {
	case it.ClientID == uuid.Nil:
		return fmt.Errorf("%w: client is required", ErrInvalidArgument)
	case it.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	case it.EstimatedValue < 0:
		return fmt.Errorf("%w: negative estimated value", ErrInvalidArgument)
	case !it.Status.valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, it.Status)
	}

	return nil
}
