// Package transaction provides the business logic for pawn loans.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/web"
)

// Set of errors for transaction API.
var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvalidArgument = errors.New("transaction invalid argument")
)

// Store is used to persist loan data.
type Store interface {
	Create(ctx context.Context, t Transaction) error
	Update(ctx context.Context, t Transaction) error
	Delete(ctx context.Context, transactionID uuid.UUID) error
	QueryAll(ctx context.Context) ([]Transaction, error)
	QueryByID(ctx context.Context, transactionID uuid.UUID) (Transaction, error)
	QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]Transaction, error)
}

// Core deals with loan business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs a transaction core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Create validates and stores a new loan. The start date defaults to now,
// the due date may be derived from the loan duration and the total due
// defaults to the principal plus interest.
func (c *Core) Create(ctx context.Context, nt NewTransaction) (Transaction, error) {
	now := web.GetTime(ctx).Round(time.Microsecond)

	t := Transaction{
		ID:               uuid.New(),
		ClientID:         nt.ClientID,
		ItemID:           nt.ItemID,
		LoanAmount:       nt.LoanAmount,
		InterestRate:     nt.InterestRate,
		Status:           nt.Status,
		StartDate:        nt.StartDate,
		DueDate:          nt.DueDate,
		LoanDurationDays: nt.LoanDurationDays,
		TotalAmountDue:   nt.TotalAmountDue,
		DateCreated:      now,
		DateUpdated:      now,
	}
	if t.Status == "" {
		t.Status = StatusActive
	}
	if t.StartDate.IsZero() {
		t.StartDate = now
	}
	t.fillDerived()

	if err := t.validate(); err != nil {
		return Transaction{}, err
	}

	if err := c.store.Create(ctx, t); err != nil {
		return Transaction{}, fmt.Errorf("create: %w", err)
	}
	c.log.InfoContext(ctx, "transaction created", "transaction_id", t.ID, "item_id", t.ItemID, "loan_amount", t.LoanAmount)

	return t, nil
}

// Update applies the non-nil fields of ut to the loan.
func (c *Core) Update(ctx context.Context, transactionID uuid.UUID, ut UpdateTransaction) (Transaction, error) {
	t, err := c.store.QueryByID(ctx, transactionID)
	if err != nil {
		return Transaction{}, err
	}

	if ut.LoanAmount != nil {
		t.LoanAmount = *ut.LoanAmount
	}
	if ut.InterestRate != nil {
		t.InterestRate = *ut.InterestRate
	}
	if ut.Status != nil {
		t.Status = *ut.Status
	}
	if ut.StartDate != nil {
		t.StartDate = *ut.StartDate
	}
	if ut.DueDate != nil {
		t.DueDate = *ut.DueDate
	}
	if ut.LoanDurationDays != nil {
		t.LoanDurationDays = *ut.LoanDurationDays
		if ut.DueDate == nil {
			t.DueDate = time.Time{}
		}
	}
	if ut.TotalAmountDue != nil {
		t.TotalAmountDue = *ut.TotalAmountDue
	} else if ut.LoanAmount != nil || ut.InterestRate != nil {
		t.TotalAmountDue = 0
	}
	t.DateUpdated = web.GetTime(ctx).Round(time.Microsecond)
	t.fillDerived()

	if err := t.validate(); err != nil {
		return Transaction{}, err
	}

	if err := c.store.Update(ctx, t); err != nil {
		return Transaction{}, fmt.Errorf("update: %w", err)
	}
	c.log.InfoContext(ctx, "transaction updated", "transaction_id", t.ID, "status", t.Status)

	return t, nil
}

// Delete removes the loan.
func (c *Core) Delete(ctx context.Context, transactionID uuid.UUID) error {
	if err := c.store.Delete(ctx, transactionID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	c.log.InfoContext(ctx, "transaction deleted", "transaction_id", transactionID)

	return nil
}

// QueryAll returns every loan with its item and client, newest first.
func (c *Core) QueryAll(ctx context.Context) ([]Transaction, error) {
	return c.store.QueryAll(ctx)
}

// QueryByID finds the loan by its id.
func (c *Core) QueryByID(ctx context.Context, transactionID uuid.UUID) (Transaction, error) {
	return c.store.QueryByID(ctx, transactionID)
}

// QueryByClientID returns the loans of a client.
func (c *Core) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]Transaction, error) {
	return c.store.QueryByClientID(ctx, clientID)
}

func (t *Transaction) fillDerived() {
	if t.DueDate.IsZero() && t.LoanDurationDays > 0 {
		t.DueDate = t.StartDate.AddDate(0, 0, t.LoanDurationDays)
	}
	if t.LoanDurationDays == 0 && !t.DueDate.IsZero() && t.DueDate.After(t.StartDate) {
		t.LoanDurationDays = durationDays(t.StartDate, t.DueDate)
	}
	if t.TotalAmountDue == 0 {
		t.TotalAmountDue = totalDue(t.LoanAmount, t.InterestRate)
	}
}

func (t Transaction) validate() error {
	switch {
	case t.ClientID == uuid.Nil:
		return fmt.Errorf("%w: client is required", ErrInvalidArgument)
	case t.ItemID == uuid.Nil:
		return fmt.Errorf("%w: item is required", ErrInvalidArgument)
	case t.LoanAmount <= 0:
		return fmt.Errorf("%w: loan amount must be positive", ErrInvalidArgument)
	case t.InterestRate < 0 || t.InterestRate > 100:
		return fmt.Errorf("%w: interest rate out of range", ErrInvalidArgument)
	case t.DueDate.IsZero():
		return fmt.Errorf("%w: due date or loan duration is required", ErrInvalidArgument)
	case t.DueDate.Before(t.StartDate):
		return fmt.Errorf("%w: due date before start date", ErrInvalidArgument)
	case !t.Status.valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, t.Status)
	}

	return nil
}
