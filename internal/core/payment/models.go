package payment

import (
	"time"

	"github.com/google/uuid"
)

// Type is what a payment settles.
type Type string

// Set of payment types.
const (
	TypeInterest  Type = "interest"
	TypePrincipal Type = "principal"
	TypeFull      Type = "full"
)

// Method is how the money was received.
type Method string

// Set of payment methods.
const (
	MethodCash        Method = "cash"
	MethodTransfer    Method = "transfer"
	MethodMobileMoney Method = "mobile_money"
)

// Status is the settlement state of a payment.
type Status string

// Set of payment statuses.
const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

func (t Type) valid() bool {
	return t == TypeInterest || t == TypePrincipal || t == TypeFull
}

func (m Method) valid() bool {
	return m == MethodCash || m == MethodTransfer || m == MethodMobileMoney
}

func (s Status) valid() bool {
	return s == StatusCompleted || s == StatusPending || s == StatusFailed
}

// LoanRef is the loan data joined for display.
type LoanRef struct {
	LoanAmount      int64
	ClientFirstName string
	ClientLastName  string
}

// Payment is money received against a loan.
type Payment struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Amount        int64
	Type          Type
	Method        Method
	Status        Status
	PaymentDate   time.Time
	DateCreated   time.Time
	DateUpdated   time.Time
	Loan          *LoanRef
}

// NewPayment is what we require from callers when recording a payment.
type NewPayment struct {
	TransactionID uuid.UUID
	Amount        int64
	Type          Type
	Method        Method
	Status        Status
	PaymentDate   time.Time
}

// UpdatePayment holds the fields a caller may change.
type UpdatePayment struct {
	Amount      *int64
	Type        *Type
	Method      *Method
	Status      *Status
	PaymentDate *time.Time
}
