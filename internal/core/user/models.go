package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a back-office user.
type Role string

// Set of roles.
const (
	RoleSuperAdmin Role = "super_admin"
	RoleUser       Role = "user"
)

func (r Role) valid() bool {
	return r == RoleSuperAdmin || r == RoleUser
}

// User is an account of the back-office.
type User struct {
	ID            uuid.UUID
	Email         string
	Role          Role
	PasswordHash  []byte
	Phone         string
	PhoneVerified bool
	DateCreated   time.Time
	DateUpdated   time.Time
}

// NewUser contains information needed to create a new user.
type NewUser struct {
	Email    string
	Password string
	Role     Role
	Phone    string
}
