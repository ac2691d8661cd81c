// Package payment provides the business logic for loan payments.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/web"
)

// Set of errors for payment API.
var (
	ErrNotFound        = errors.New("payment not found")
	ErrInvalidArgument = errors.New("payment invalid argument")
)

// Store is used to persist payment data.
type Store interface {
	Create(ctx context.Context, p Payment) error
	Update(ctx context.Context, p Payment) error
	Delete(ctx context.Context, paymentID uuid.UUID) error
	QueryAll(ctx context.Context) ([]Payment, error)
	QueryByID(ctx context.Context, paymentID uuid.UUID) (Payment, error)
	QueryByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]Payment, error)
}

// Core deals with payment business logic.
type Core struct {
	log   *slog.Logger
	store Store
}

// NewCore constructs a payment core.
func NewCore(log *slog.Logger, store Store) *Core {
	return &Core{log: log, store: store}
}

// Create records a payment. Status defaults to completed, method to cash
// and the payment date to now.
func (c *Core) Create(ctx context.Context, np NewPayment) (Payment, error) {
	now := web.GetTime(ctx).Round(time.Microsecond)

	p := Payment{
		ID:            uuid.New(),
		TransactionID: np.TransactionID,
		Amount:        np.Amount,
		Type:          np.Type,
		Method:        np.Method,
		Status:        np.Status,
		PaymentDate:   np.PaymentDate,
		DateCreated:   now,
		DateUpdated:   now,
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	if p.Method == "" {
		p.Method = MethodCash
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = now
	}

	if err := p.validate(); err != nil {
		return Payment{}, err
	}

	if err := c.store.Create(ctx, p); err != nil {
		return Payment{}, fmt.Errorf("create: %w", err)
	}
	c.log.InfoContext(ctx, "payment recorded", "payment_id", p.ID, "transaction_id", p.TransactionID, "amount", p.Amount)

	return p, nil
}

// Update applies the non-nil fields of up to the payment.
func (c *Core) Update(ctx context.Context, paymentID uuid.UUID, up UpdatePayment) (Payment, error) {
	p, err := c.store.QueryByID(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}

	if up.Amount != nil {
		p.Amount = *up.Amount
	}
	if up.Type != nil {
		p.Type = *up.Type
	}
	if up.Method != nil {
		p.Method = *up.Method
	}
	if up.Status != nil {
		p.Status = *up.Status
	}
	if up.PaymentDate != nil {
		p.PaymentDate = *up.PaymentDate
	}
	p.DateUpdated = web.GetTime(ctx).Round(time.Microsecond)

	if err := p.validate(); err != nil {
		return Payment{}, err
	}

	if err := c.store.Update(ctx, p); err != nil {
		return Payment{}, fmt.Errorf("update: %w", err)
	}
	c.log.InfoContext(ctx, "payment updated", "payment_id", p.ID, "status", p.Status)

	return p, nil
}

// Delete removes the payment.
func (c *Core) Delete(ctx context.Context, paymentID uuid.UUID) error {
	if err := c.store.Delete(ctx, paymentID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	c.log.InfoContext(ctx, "payment deleted", "payment_id", paymentID)

	return nil
}

// QueryAll returns every payment, most recent payment date first.
func (c *Core) QueryAll(ctx context.Context) ([]Payment, error) {
	return c.store.QueryAll(ctx)
}

// QueryByID finds the payment by its id.
func (c *Core) QueryByID(ctx context.Context, paymentID uuid.UUID) (Payment, error) {
	return c.store.QueryByID(ctx, paymentID)
}

// QueryByTransactionID returns the payments made against a loan.
func (c *Core) QueryByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]Payment, error) {
	return c.store.QueryByTransactionID(ctx, transactionID)
}

func (p Payment) validate() error {
	switch {
	case p.TransactionID == uuid.Nil:
		return fmt.Errorf("%w: transaction is required", ErrInvalidArgument)
	case p.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	case !p.Type.valid():
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalidArgument, p.Type)
	case !p.Method.valid():
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, p.Method)
	case !p.Status.valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, p.Status)
	}

	return nil
}
