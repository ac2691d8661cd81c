package plandb

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbPlan struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Type         string    `db:"type"`
	Price        int64     `db:"price"`
	DurationDays int       `db:"duration_days"`
	Features     []byte    `db:"features"`
	Gradient     *string   `db:"gradient"`
	IsActive     bool      `db:"is_active"`
	DateCreated  time.Time `db:"created_at"`
}

func toDBPlan(p plan.Plan) (dbPlan, error) {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return dbPlan{}, err
	}
	return dbPlan{
		ID:           p.ID,
		Name:         p.Name,
		Type:         string(p.Type),
		Price:        p.Price,
		DurationDays: p.DurationDays,
		Features:     features,
		Gradient:     db.ToNullString(p.Gradient),
		IsActive:     p.IsActive,
		DateCreated:  p.DateCreated.UTC(),
	}, nil
}

func toPlan(d dbPlan) plan.Plan {
	return plan.Plan{
		ID:           d.ID,
		Name:         d.Name,
		Type:         plan.Tier(d.Type),
		Price:        d.Price,
		DurationDays: d.DurationDays,
		Features:     plan.NormalizeFeatures(d.Features),
		Gradient:     db.FromNullString(d.Gradient),
		IsActive:     d.IsActive,
		DateCreated:  d.DateCreated.In(time.UTC),
	}
}

func toPlans(ds []dbPlan) []plan.Plan {
	slice := make([]plan.Plan, len(ds))
	for i, d := range ds {
		slice[i] = toPlan(d)
	}
	return slice
}
