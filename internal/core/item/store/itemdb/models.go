package itemdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/item"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbItem struct {
	ID             uuid.UUID `db:"id"`
	ClientID       uuid.UUID `db:"client_id"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	Category       *string   `db:"category"`
	Condition      *string   `db:"condition"`
	EstimatedValue int64     `db:"estimated_value"`
	Status         string    `db:"status"`
	Images         []string  `db:"images"`
	DateCreated    time.Time `db:"created_at"`
	DateUpdated    time.Time `db:"updated_at"`
}

// dbItemRow is an item joined with its owner. The owner columns are NULL
// when the client row is missing.
type dbItemRow struct {
	dbItem
	ClientFirstName *string `db:"client_first_name"`
	ClientLastName  *string `db:"client_last_name"`
}

func toDBItem(it item.Item) dbItem {
	images := it.Images
	if images == nil {
		images = []string{}
	}
	return dbItem{
		ID:             it.ID,
		ClientID:       it.ClientID,
		Name:           it.Name,
		Description:    it.Description,
		Category:       db.ToNullString(it.Category),
		Condition:      db.ToNullString(it.Condition),
		EstimatedValue: it.EstimatedValue,
		Status:         string(it.Status),
		Images:         images,
		DateCreated:    it.DateCreated.UTC(),
		DateUpdated:    it.DateUpdated.UTC(),
	}
}

func toItem(r dbItemRow) item.Item {
	it := item.Item{
		ID:             r.ID,
		ClientID:       r.ClientID,
		Name:           r.Name,
		Description:    r.Description,
		Category:       db.FromNullString(r.Category),
		Condition:      db.FromNullString(r.Condition),
		EstimatedValue: r.EstimatedValue,
		Status:         item.Status(r.Status),
		Images:         r.Images,
		DateCreated:    r.DateCreated.In(time.UTC),
		DateUpdated:    r.DateUpdated.In(time.UTC),
	}
	if it.Images == nil {
		it.Images = []string{}
	}
	if r.ClientFirstName != nil || r.ClientLastName != nil {
		it.Owner = &item.Owner{
			FirstName: db.FromNullString(r.ClientFirstName),
			LastName:  db.FromNullString(r.ClientLastName),
		}
	}
	return it
}

func toItems(rs []dbItemRow) []item.Item {
	slice := make([]item.Item, len(rs))
	for i, r := range rs {
		slice[i] = toItem(r)
	}
	return slice
}
