// Package plandb contains subscription plan related database access.
package plandb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

// Store manages the set of APIs for plan database access.
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

// QueryAll retrieves the active plans ordered by ascending price.
func (s *Store) QueryAll(ctx context.Context) ([]plan.Plan, error) {
	const q = `
	SELECT
		id, name, type, price, duration_days, features, gradient, is_active, created_at
	FROM
		{{.Plans}}
	WHERE
		is_active
	ORDER BY
		price ASC, name ASC`

	ds, err := db.NamedQuerySlice[dbPlan](ctx, s.log, s.db, s.tables.Render(q), struct{}{})
	if err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toPlans(ds), nil
}

// QueryByID gets the specified plan from the database.
func (s *Store) QueryByID(ctx context.Context, planID uuid.UUID) (plan.Plan, error) {
	data := struct {
		ID uuid.UUID `db:"id"`
	}{
		ID: planID,
	}

	const q = `
	SELECT
		id, name, type, price, duration_days, features, gradient, is_active, created_at
	FROM
		{{.Plans}}
	WHERE
		id = @id`

	d, err := db.NamedQueryStruct[dbPlan](ctx, s.log, s.db, s.tables.Render(q), data)
	if err != nil {
		if errors.Is(err, db.ErrDBNotFound) {
			return plan.Plan{}, plan.ErrNotFound
		}
		return plan.Plan{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toPlan(d), nil
}

// CreateMany inserts the plans in a single transaction. Plans whose type
// already exists are skipped.
func (s *Store) CreateMany(ctx context.Context, plans []plan.Plan) error {
	const q = `
	INSERT INTO {{.Plans}}
		(id, name, type, price, duration_days, features, gradient, is_active, created_at)
	VALUES
		(@id, @name, @type, @price, @duration_days, @features, @gradient, @is_active, @created_at)
	ON CONFLICT (type) DO NOTHING`

	query := s.tables.Render(q)

	return db.WithinTx(ctx, s.db, func(tx db.DB) error {
		for _, p := range plans {
			d, err := toDBPlan(p)
			if err != nil {
				return fmt.Errorf("encode plan %s: %w", p.Type, err)
			}
			if err := db.NamedExec(ctx, s.log, tx, query, d); err != nil {
				return fmt.Errorf("namedexec: %w", err)
			}
		}
		return nil
	})
}
