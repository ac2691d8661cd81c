// Package transactiondb contains loan related CRUD functionality.
package transactiondb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

const selectTransactions = `
	SELECT
		t.id, t.client_id, t.item_id, t.loan_amount, t.interest_rate, t.status,
		t.start_date, t.due_date, t.loan_duration_days, t.total_amount_due,
		t.created_at, t.updated_at,
		i.name AS item_name,
		i.estimated_value AS item_estimated_value,
		c.first_name AS client_first_name,
		c.last_name AS client_last_name
	FROM
		{{.Transactions}} AS t
		LEFT JOIN {{.Items}} AS i ON i.id = t.item_id
		LEFT JOIN {{.Clients}} AS c ON c.id = t.client_id`

// Store manages the set of APIs for loan database access.
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

// Create inserts a new loan into the database.
func (s *Store) Create(ctx context.Context, t transaction.Transaction) error {
	const q = `
	INSERT INTO {{.Transactions}}
		(id, client_id, item_id, loan_amount, interest_rate, status, start_date, due_date,
		 loan_duration_days, total_amount_due, created_at, updated_at)
	VALUES
		(@id, @client_id, @item_id, @loan_amount, @interest_rate, @status, @start_date, @due_date,
		 @loan_duration_days, @total_amount_due, @created_at, @updated_at)`

	if err := db.NamedExec(ctx, s.log, s.db, s.tables.Render(q), toDBTransaction(t)); err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}

	return nil
}

// Update replaces a loan document in the database.
func (s *Store) Update(ctx context.Context, t transaction.Transaction) error {
	const q = `
	UPDATE
		{{.Transactions}}
	SET
		loan_amount = @loan_amount,
		interest_rate = @interest_rate,
		status = @status,
		start_date = @start_date,
		due_date = @due_date,
		loan_duration_days = @loan_duration_days,
		total_amount_due = @total_amount_due,
		updated_at = @updated_at
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), toDBTransaction(t))
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// Delete removes a loan from the database.
func (s *Store) Delete(ctx context.Context, transactionID uuid.UUID) error {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: transactionID,
	}

	const q = `
	DELETE FROM
		{{.Transactions}}
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// QueryAll retrieves every loan, newest first.
func (s *Store) QueryAll(ctx context.Context) ([]transaction.Transaction, error) {
	const q = selectTransactions + `
	ORDER BY
		t.created_at DESC`

	rs, err := db.NamedQuerySlice[dbTransactionRow](ctx, s.log, s.db, s.tables.Render(q), struct{}{})
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toTransactions(rs), nil
}

// QueryByID gets the specified loan from the database.
func (s *Store) QueryByID(ctx context.Context, transactionID uuid.UUID) (transaction.Transaction, error) {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: transactionID,
	}

	const q = selectTransactions + `
	WHERE
		t.id = @id`

	r, err := db.NamedQueryStruct[dbTransactionRow](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return transaction.Transaction{}, transaction.ErrNotFound
		}
		return transaction.Transaction{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toTransaction(r), nil
}

// QueryByClientID retrieves the loans of a client.
func (s *Store) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]transaction.Transaction, error) {
	data := struct {
		ClientID uuid.UUID `db:"client_id"`
	}{
		ClientID: clientID,
	}

	const q = selectTransactions + `
	WHERE
		t.client_id = @client_id
	ORDER BY
		t.created_at DESC`

	rs, err := db.NamedQuerySlice[dbTransactionRow](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toTransactions(rs), nil
}
