package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/user"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbUser struct {
	ID            uuid.UUID `db:"id"`
	Email         string    `db:"email"`
	Role          string    `db:"role"`
	PasswordHash  string    `db:"password_hash"`
	Phone         *string   `db:"phone"`
	PhoneVerified bool      `db:"phone_verified"`
	DateCreated   time.Time `db:"created_at"`
	DateUpdated   time.Time `db:"updated_at"`
}

func toDBUser(u user.User) dbUser {
	return dbUser{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		PasswordHash:  string(u.PasswordHash),
		Phone:         db.ToNullString(u.Phone),
		PhoneVerified: u.PhoneVerified,
		DateCreated:   u.DateCreated.UTC(),
		DateUpdated:   u.DateUpdated.UTC(),
	}
}

func toUser(d dbUser) user.User {
	return user.User{
		ID:            d.ID,
		Email:         d.Email,
		Role:          user.Role(d.Role),
		PasswordHash:  []byte(d.PasswordHash),
		Phone:         db.FromNullString(d.Phone),
		PhoneVerified: d.PhoneVerified,
		DateCreated:   d.DateCreated.In(time.UTC),
		DateUpdated:   d.DateUpdated.In(time.UTC),
	}
}
