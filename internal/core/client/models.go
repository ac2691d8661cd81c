package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/contact"
)

// IDType is the kind of identity document a client presented.
type IDType string

// Set of identity document kinds.
const (
	IDPassport       IDType = "passport"
	IDCard           IDType = "id_card"
	IDDriverLicense  IDType = "driver_license"
	IDOther          IDType = "other"
	IDTypeUnassigned IDType = ""
)

// Label returns the label shown in the client list.
func (t IDType) Label() string {
	switch t {
	case IDPassport:
		return "Passeport"
	case IDCard:
		return "Carte d'identité"
	case IDDriverLicense:
		return "Permis de conduire"
	case IDOther:
		return "Autre"
	}
	return ""
}

func (t IDType) valid() bool {
	switch t {
	case IDPassport, IDCard, IDDriverLicense, IDOther, IDTypeUnassigned:
		return true
	}
	return false
}

// Client is a person pawning items. Empty strings mean the value was not
// provided.
type Client struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	IDType      IDType
	IDNumber    string
	DateCreated time.Time
	DateUpdated time.Time
}

// WhatsApp returns the quick-action link for the client phone.
func (c Client) WhatsApp() (string, bool) {
	return contact.WhatsAppURL(c.Phone)
}

// NewClient is what we require from callers when adding a Client.
type NewClient struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	IDType    IDType
	IDNumber  string
}

// UpdateClient holds the fields a caller may change. Nil fields are left
// untouched.
type UpdateClient struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	IDType    *IDType
	IDNumber  *string
}
