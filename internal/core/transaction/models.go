package transaction

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the state of a loan.
type Status string

// Set of loan statuses.
const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

func (s Status) valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusDefaulted:
		return true
	}
	return false
}

// ItemRef is the collateral data joined for display.
type ItemRef struct {
	Name           string
	EstimatedValue int64
}

// ClientRef is the borrower data joined for display.
type ClientRef struct {
	FirstName string
	LastName  string
}

// Transaction is a loan agreement against one item.
type Transaction struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	ItemID           uuid.UUID
	LoanAmount       int64
	InterestRate     float64
	Status           Status
	StartDate        time.Time
	DueDate          time.Time
	LoanDurationDays int
	TotalAmountDue   int64
	DateCreated      time.Time
	DateUpdated      time.Time
	Item             *ItemRef
	Client           *ClientRef
}

// Interest is the amount of interest owed on the loan.
func (t Transaction) Interest() float64 {
	return float64(t.LoanAmount) * t.InterestRate / 100
}

// Late reports whether an active loan is past its due date.
func (t Transaction) Late(now time.Time) bool {
	return t.Status == StatusActive && t.DueDate.Before(now)
}

// NewTransaction is what we require from callers when adding a loan.
type NewTransaction struct {
	ClientID         uuid.UUID
	ItemID           uuid.UUID
	LoanAmount       int64
	InterestRate     float64
	Status           Status
	StartDate        time.Time
	DueDate          time.Time
	LoanDurationDays int
	TotalAmountDue   int64
}

// UpdateTransaction holds the fields a caller may change. Nil fields are
// left untouched.
type UpdateTransaction struct {
	LoanAmount       *int64
	InterestRate     *float64
	Status           *Status
	StartDate        *time.Time
	DueDate          *time.Time
	LoanDurationDays *int
	TotalAmountDue   *int64
}

func totalDue(loan int64, rate float64) int64 {
	return int64(math.Round(float64(loan) * (1 + rate/100)))
}

func durationDays(start, due time.Time) int {
	return int(math.Ceil(due.Sub(start).Hours() / 24))
}
