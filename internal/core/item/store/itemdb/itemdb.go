// Package itemdb contains item related CRUD functionality.
package itemdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

const selectItems = `
	SELECT
		i.id, i.client_id, i.name, i.description, i.category, i.condition,
		i.estimated_value, i.status, i.images, i.created_at, i.updated_at,
		c.first_name AS client_first_name,
		c.last_name AS client_last_name
	FROM
		{{.Items}} AS i
		LEFT JOIN {{.Clients}} AS c ON c.id = i.client_id`

// Store manages the set of APIs for item database access.
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

// Create inserts a new item into the database.
func (s *Store) Create(ctx context.Context, it item.Item) error {
	const q = `
	INSERT INTO {{.Items}}
		(id, client_id, name, description, category, condition, estimated_value, status, images, created_at, updated_at)
	VALUES
		(@id, @client_id, @name, @description, @category, @condition, @estimated_value, @status, @images, @created_at, @updated_at)`

	if err := db.NamedExec(ctx, s.log, s.db, s.tables.Render(q), toDBItem(it)); err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}

	return nil
}

// Update replaces an item document in the database.
func (s *Store) Update(ctx context.Context, it item.Item) error {
	const q = `
	UPDATE
		{{.Items}}
	SET
		client_id = @client_id,
		name = @name,
		description = @description,
		category = @category,
		condition = @condition,
		estimated_value = @estimated_value,
		status = @status,
		images = @images,
		updated_at = @updated_at
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), toDBItem(it))
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}

	return nil
}

// Delete removes an item from the database.
func (s *Store) Delete(ctx context.Context, itemID uuid.UUID) error {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: itemID,
	}

	const q = `
	DELETE FROM
		{{.Items}}
	WHERE
		id = @id`

	n, err := db.NamedExecAffected(ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return fmt.Errorf("namedexec: %w", err)
	}
	if n == 0 {
		return item.ErrNotFound
	}

	return nil
}

// QueryAll retrieves every item with its owner, newest first.
func (s *Store) QueryAll(ctx context.Context) ([]item.Item, error) {
	const q = selectItems + `
	ORDER BY
		i.created_at DESC`

	rs, err := db.NamedQuerySlice[dbItemRow](ctx, s.log, s.db, s.tables.Render(q), struct{}{})
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toItems(rs), nil
}

// QueryByID gets the specified item from the database.
func (s *Store) QueryByID(ctx context.Context, itemID uuid.UUID) (item.Item, error) {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: itemID,
	}

	const q = selectItems + `
	WHERE
		i.id = @id`

	r, err := db.NamedQueryStruct[dbItemRow](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return item.Item{}, item.ErrNotFound
		}
		return item.Item{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toItem(r), nil
}

// QueryByClientID retrieves the items of a client.
func (s *Store) QueryByClientID(ctx context.Context, clientID uuid.UUID) ([]item.Item, error) {
	data := struct {
		ClientID uuid.UUID `db:"client_id"`
	}{
		ClientID: clientID,
	}

	const q = selectItems + `
	WHERE
		i.client_id = @client_id
	ORDER BY
		i.created_at DESC`

	rs, err := db.NamedQuerySlice[dbItemRow](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toItems(rs), nil
}
