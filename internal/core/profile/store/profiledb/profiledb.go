// Package profiledb contains profile related CRUD functionality.
package profiledb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbProfile struct {
	UserID       uuid.UUID `db:"user_id"`
	FullName     string    `db:"full_name"`
	Email        *string   `db:"email"`
	Phone        *string   `db:"phone"`
	SelectedPlan *string   `db:"selected_plan"`
	DateCreated  time.Time `db:"created_at"`
	DateUpdated  time.Time `db:"updated_at"`
}

// Store manages the set of APIs for profile database access.
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

// Upsert inserts the profile or updates the existing one. The creation
// date of an existing profile is kept, and so is its selected plan when p
// carries none.
func (s *Store) Upsert(ctx context.Context, p profile.Profile) error {
	const q = `
	INSERT INTO {{.Profiles}}
		(user_id, full_name, email, phone, selected_plan, created_at, updated_at)
	VALUES
		(@user_id, @full_name, @email, @phone, @selected_plan, @created_at, @updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		full_name = EXCLUDED.full_name,
		email = EXCLUDED.email,
		phone = EXCLUDED.phone,
		selected_plan = COALESCE(EXCLUDED.selected_plan, {{.Profiles}}.selected_plan),
		updated_at = EXCLUDED.updated_at`

	data := dbProfile{
		UserID:       p.UserID,
		FullName:     p.FullName,
		Email:        db.ToNullString(p.Email),
		Phone:        db.ToNullString(p.Phone),
		SelectedPlan: db.ToNullString(p.SelectedPlan),
		DateCreated:  p.DateCreated.UTC(),
		DateUpdated:  p.DateUpdated.UTC(),
	}

	if err := db.NamedExec(ctx, s.log, s.db, s.tables.Render(q), data); err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}

	return nil
}

// QueryByUserID gets the profile of the user.
func (s *Store) QueryByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	data := struct {
		UserID uuid.UUID `db:"user_id"`
	}{
		UserID: userID,
	}

	const q = `
	SELECT
		user_id, full_name, email, phone, selected_plan, created_at, updated_at
	FROM
		{{.Profiles}}
	WHERE
		user_id = @user_id`

	d, err := db.NamedQueryStruct[dbProfile](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return profile.Profile{
		UserID:       d.UserID,
		FullName:     d.FullName,
		Email:        db.FromNullString(d.Email),
		Phone:        db.FromNullString(d.Phone),
		SelectedPlan: db.FromNullString(d.SelectedPlan),
		DateCreated:  d.DateCreated.In(time.UTC),
		DateUpdated:  d.DateUpdated.In(time.UTC),
	}, nil
}
