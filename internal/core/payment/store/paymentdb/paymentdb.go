// Package paymentdb contains payment related CRUD functionality.
package paymentdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

const selectPayments = `
	SELECT
		p.id, p.transaction_id, p.amount, p.payment_type, p.payment_method, p.status,
		p.payment_date, p.created_at, p.updated_at,
		t.loan_amount,
		c.first_name AS client_first_name,
		c.last_name AS client_last_name
	FROM
		{{.Payments}} AS p
		LEFT JOIN {{.Transactions}} AS t ON t.id = p.transaction_id
		LEFT JOIN {{.Clients}} AS c ON c.id = t.client_id`

// Store manages the set of APIs for payment database access.
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

// Create inserts a new payment into the database.
func (s *Store) Create(ctx context.Context, p payment.Payment) error {
	const q = `
	INSERT INTO {{.Payments}}
		(id, transaction_id, amount, payment_type, payment_method, status, payment_date, created_at, updated_at)
	VALUES
		(@id, @transaction_id, @amount, @payment_type, @payment_method, @status, @payment_date, @created_at, @updated_at)`

	if err := db.NamedExec(ctx, s.log, s.db, s.tables.Render(q), toDBPayment(p)); err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}

	return nil
}

// Update replaces a payment document in the database.
func (s *Store) Update(ctx context.Context, p payment.Payment) error {
	const q = `
	UPDATE
		{{.Payments}}
	SET
		amount = @amount,
		payment_type = @payment_type,
		payment_method = @payment_method,
		status = @status,
		payment_date = @payment_date,
		updated_at = @updated_at
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), toDBPayment(p))
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return payment.ErrNotFound
	}

	return nil
}

// Delete removes a payment from the database.
func (s *Store) Delete(ctx context.Context, paymentID uuid.UUID) error {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: paymentID,
	}

	const q = `
	DELETE FROM
		{{.Payments}}
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return payment.ErrNotFound
	}

	return nil
}

// QueryAll retrieves every payment, latest payment date first.
func (s *Store) QueryAll(ctx context.Context) ([]payment.Payment, error) {
	const q = selectPayments + `
	ORDER BY
		p.payment_date DESC`

	rs, err := db.NamedQuerySlice[dbPaymentRow](ctx, s.log, s.db, s.tables.Render(q), struct{}{})
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toPayments(rs), nil
}

// QueryByID gets the specified payment from the database.
func (s *Store) QueryByID(ctx context.Context, paymentID uuid.UUID) (payment.Payment, error) {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: paymentID,
	}

	const q = selectPayments + `
	WHERE
		p.id = @id`

	r, err := db.NamedQueryStruct[dbPaymentRow](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toPayment(r), nil
}

// QueryByTransactionID retrieves the payments made against a loan.
func (s *Store) QueryByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]payment.Payment, error) {
	data := struct {
		TransactionID uuid.UUID `db:"transaction_id"`
	}{
		TransactionID: transactionID,
	}

	const q = selectPayments + `
	WHERE
		p.transaction_id = @transaction_id
	ORDER BY
		p.payment_date DESC`

	rs, err := db.NamedQuerySlice[dbPaymentRow](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toPayments(rs), nil
}
