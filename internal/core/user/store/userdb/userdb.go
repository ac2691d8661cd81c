// Package userdb contains user related CRUD functionality.
package userdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/user"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

// Store manages the set of APIs for user database access.
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

// Create inserts a new user into the database.
func (s *Store) Create(ctx context.Context, u user.User) error {
	const q = `
	INSERT INTO {{.Users}}
		(id, email, role, password_hash, phone, phone_verified, created_at, updated_at)
	VALUES
		(@id, @email, @role, @password_hash, @phone, @phone_verified, @created_at, @updated_at)`

	if err := db.NamedExec(ctx, s.log, s.db, s.tables.Render(q), toDBUser(u)); err != nil {
		if errors.Is(err, db.ErrDBDuplicatedEntry) {
			return user.ErrUniqueEmail
		}
		return fmt.Errorf("namedexec: %w", err)
	}

	return nil
}

// QueryByID gets the specified user from the database.
func (s *Store) QueryByID(ctx context.Context, userID uuid.UUID) (user.User, error) {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: userID,
	}

	const q = `
	SELECT
		id, email, role, password_hash, phone, phone_verified, created_at, updated_at
	FROM
		{{.Users}}
	WHERE
		id = @id`

	return s.queryOne(ctx, q, data)
}

// QueryByEmail gets the user with the given email from the database.
func (s *Store) QueryByEmail(ctx context.Context, email string) (user.User, error) {
	data := struct {
		Email string `db:"email"`
	}{
		Email: email,
	}

	const q = `
	SELECT
		id, email, role, password_hash, phone, phone_verified, created_at, updated_at
	FROM
		{{.Users}}
	WHERE
		email = @email`

	return s.queryOne(ctx, q, data)
}

// SetPhoneVerified stores the verified phone of a user.
func (s *Store) SetPhoneVerified(ctx context.Context, userID uuid.UUID, phone string, at time.Time) error {
	data := struct {
		ID        uuid.UUID `db:"id"`
		Phone     *string   `db:"phone"`
		UpdatedAt time.Time `db:"updated_at"`
	}{
		ID:        userID,
		Phone:     db.ToNullString(phone),
		UpdatedAt: at.UTC(),
	}

	const q = `
	UPDATE
		{{.Users}}
	SET
		phone = COALESCE(@phone, phone),
		phone_verified = true,
		updated_at = @updated_at
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (s *Store) queryOne(ctx context.Context, q string, data any) (user.User, error) {
	u, err := db.NamedQueryStruct[dbUser](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toUser(u), nil
}
