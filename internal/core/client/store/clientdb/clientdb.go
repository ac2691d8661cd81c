// Package clientdb contains client related CRUD functionality.
package clientdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

// Store manages the set of APIs for client database access.
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

// Create inserts a new client into the database.
func (s *Store) Create(ctx context.Context, c client.Client) error {
	const q = `
	INSERT INTO {{.Clients}}
		(id, first_name, last_name, email, phone, address, id_type, id_number, created_at, updated_at)
	VALUES
		(@id, @first_name, @last_name, @email, @phone, @address, @id_type, @id_number, @created_at, @updated_at)`

	if err := db.NamedExec(ctx, s.log, s.db, s.tables.Render(q), toDBClient(c)); err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}

	return nil
}

// Update replaces a client document in the database.
func (s *Store) Update(ctx context.Context, c client.Client) error {
	const q = `
	UPDATE
		{{.Clients}}
	SET
		first_name = @first_name,
		last_name = @last_name,
		email = @email,
		phone = @phone,
		address = @address,
		id_type = @id_type,
		id_number = @id_number,
		updated_at = @updated_at
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), toDBClient(c))
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return client.ErrNotFound
	}

	return nil
}

// Delete removes a client from the database.
func (s *Store) Delete(ctx context.Context, clientID uuid.UUID) error {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: clientID,
	}

	const q = `
	DELETE FROM
		{{.Clients}}
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return client.ErrNotFound
	}

	return nil
}

// QueryAll retrieves every client, newest first.
func (s *Store) QueryAll(ctx context.Context) ([]client.Client, error) {
	const q = `
	SELECT
		id, first_name, last_name, email, phone, address, id_type, id_number, created_at, updated_at
	FROM
		{{.Clients}}
	ORDER BY
		created_at DESC`

	cs, err := db.NamedQuerySlice[dbClient](ctx, s.log, s.db, s.tables.Render(q), struct{}{})
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toClients(cs), nil
}

// QueryByID gets the specified client from the database.
func (s *Store) QueryByID(ctx context.Context, clientID uuid.UUID) (client.Client, error) {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: clientID,
	}

	const q = `
	SELECT
		id, first_name, last_name, email, phone, address, id_type, id_number, created_at, updated_at
	FROM
		{{.Clients}}
	WHERE
		id = @id`

	c, err := db.NamedQueryStruct[dbClient](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return client.Client{}, client.ErrNotFound
		}
		return client.Client{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toClient(c), nil
}
