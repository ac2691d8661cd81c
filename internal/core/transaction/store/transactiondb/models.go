package transactiondb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/transaction"
)

type dbTransaction struct {
	ID               uuid.UUID `db:"id"`
	ClientID         uuid.UUID `db:"client_id"`
	ItemID           uuid.UUID `db:"item_id"`
	LoanAmount       int64     `db:"loan_amount"`
	InterestRate     float64   `db:"interest_rate"`
	Status           string    `db:"status"`
	StartDate        time.Time `db:"start_date"`
	DueDate          time.Time `db:"due_date"`
	LoanDurationDays int       `db:"loan_duration_days"`
	TotalAmountDue   int64     `db:"total_amount_due"`
	DateCreated      time.Time `db:"created_at"`
	DateUpdated      time.Time `db:"updated_at"`
}

// dbTransactionRow carries the joined item and client columns, NULL when
// the related row is missing.
type dbTransactionRow struct {
	dbTransaction
	ItemName           *string `db:"item_name"`
	ItemEstimatedValue *int64  `db:"item_estimated_value"`
	ClientFirstName    *string `db:"client_first_name"`
	ClientLastName     *string `db:"client_last_name"`
}

func toDBTransaction(t transaction.Transaction) dbTransaction {
	return dbTransaction{
		ID:               t.ID,
		ClientID:         t.ClientID,
		ItemID:           t.ItemID,
		LoanAmount:       t.LoanAmount,
		InterestRate:     t.InterestRate,
		Status:           string(t.Status),
		StartDate:        t.StartDate.UTC(),
		DueDate:          t.DueDate.UTC(),
		LoanDurationDays: t.LoanDurationDays,
		TotalAmountDue:   t.TotalAmountDue,
		DateCreated:      t.DateCreated.UTC(),
		DateUpdated:      t.DateUpdated.UTC(),
	}
}

func toTransaction(r dbTransactionRow) transaction.Transaction {
	t := transaction.Transaction{
		ID:               r.ID,
		ClientID:         r.ClientID,
		ItemID:           r.ItemID,
		LoanAmount:       r.LoanAmount,
		InterestRate:     r.InterestRate,
		Status:           transaction.Status(r.Status),
		StartDate:        r.StartDate.In(time.UTC),
		DueDate:          r.DueDate.In(time.UTC),
		LoanDurationDays: r.LoanDurationDays,
		TotalAmountDue:   r.TotalAmountDue,
		DateCreated:      r.DateCreated.In(time.UTC),
		DateUpdated:      r.DateUpdated.In(time.UTC),
	}
	if r.ItemName != nil {
		t.Item = &transaction.ItemRef{Name: *r.ItemName}
		if r.ItemEstimatedValue != nil {
			t.Item.EstimatedValue = *r.ItemEstimatedValue
		}
	}
	if r.ClientFirstName != nil || r.ClientLastName != nil {
		t.Client = &transaction.ClientRef{}
		if r.ClientFirstName != nil {
			t.Client.FirstName = *r.ClientFirstName
		}
		if r.ClientLastName != nil {
			t.Client.LastName = *r.ClientLastName
		}
	}
	return t
}

func toTransactions(rs []dbTransactionRow) []transaction.Transaction {
	slice := make([]transaction.Transaction, len(rs))
	for i, r := range rs {
		slice[i] = toTransaction(r)
	}
	return slice
}
