package item

import (
	"time"

	"github.com/google/uuid"
)

// Status is where the pawned object currently is.
type Status string

// Set of item statuses.
const (
	StatusStored   Status = "stored"
	StatusReturned Status = "returned"
	StatusSold     Status = "sold"
)

func (s Status) valid() bool {
	switch s {
	case StatusStored, StatusReturned, StatusSold:
		return true
	}
	return false
}

// Owner is the client data joined for display. It is nil when the client
// row could not be found.
type Owner struct {
	FirstName string
	LastName  string
}

// Item is a physical object held as loan collateral.
type Item struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	Name           string
	Description    string
	Category       string
	Condition      string
	EstimatedValue int64
	Status         Status
	Images         []string
	DateCreated    time.Time
	DateUpdated    time.Time
	Owner          *Owner
}

// NewItem is what we require from callers when adding an Item.
type NewItem struct {
	ClientID       uuid.UUID
	Name           string
	Description    string
	Category       string
	Condition      string
	EstimatedValue int64
	Status         Status
	Images         []string
}

// UpdateItem holds the fields a caller may change. Nil fields are left
// untouched.
type UpdateItem struct {
	ClientID       *uuid.UUID
	Name           *string
	Description    *string
	Category       *string
	Condition      *string
	EstimatedValue *int64
	Status         *Status
	Images         []string
}
