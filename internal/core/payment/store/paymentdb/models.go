package paymentdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/payment"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbPayment struct {
	ID            uuid.UUID `db:"id"`
	TransactionID uuid.UUID `db:"transaction_id"`
	Amount        int64     `db:"amount"`
	Type          string    `db:"payment_type"`
	Method        string    `db:"payment_method"`
	Status        string    `db:"status"`
	PaymentDate   time.Time `db:"payment_date"`
	DateCreated   time.Time `db:"created_at"`
	DateUpdated   time.Time `db:"updated_at"`
}

type dbPaymentRow struct {
	dbPayment
	LoanAmount      *int64  `db:"loan_amount"`
	ClientFirstName *string `db:"client_first_name"`
	ClientLastName  *string `db:"client_last_name"`
}

func toDBPayment(p payment.Payment) dbPayment {
	return dbPayment{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Type:          string(p.Type),
		Method:        string(p.Method),
		Status:        string(p.Status),
		PaymentDate:   p.PaymentDate.UTC(),
		DateCreated:   p.DateCreated.UTC(),
		DateUpdated:   p.DateUpdated.UTC(),
	}
}

func toPayment(r dbPaymentRow) payment.Payment {
	p := payment.Payment{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		Type:          payment.Type(r.Type),
		Method:        payment.Method(r.Method),
		Status:        payment.Status(r.Status),
		PaymentDate:   r.PaymentDate.In(time.UTC),
		DateCreated:   r.DateCreated.In(time.UTC),
		DateUpdated:   r.DateUpdated.In(time.UTC),
	}
	if r.LoanAmount != nil {
		p.Loan = &payment.LoanRef{
			LoanAmount:      *r.LoanAmount,
			ClientFirstName: db.FromNullString(r.ClientFirstName),
			ClientLastName:  db.FromNullString(r.ClientLastName),
		}
	}
	return p
}

func toPayments(rs []dbPaymentRow) []payment.Payment {
	slice := make([]payment.Payment, len(rs))
	for i, r := range rs {
		slice[i] = toPayment(r)
	}
	return slice
}
