package clientdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

type dbClient struct {
	ID          uuid.UUID `db:"id"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	Email       *string   `db:"email"`
	Phone       *string   `db:"phone"`
	Address     *string   `db:"address"`
	IDType      *string   `db:"id_type"`
	IDNumber    *string   `db:"id_number"`
	DateCreated time.Time `db:"created_at"`
	DateUpdated time.Time `db:"updated_at"`
}

func toDBClient(c client.Client) dbClient {
	return dbClient{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       db.ToNullString(c.Email),
		Phone:       db.ToNullString(c.Phone),
		Address:     db.ToNullString(c.Address),
		IDType:      db.ToNullString(string(c.IDType)),
		IDNumber:    db.ToNullString(c.IDNumber),
		DateCreated: c.DateCreated.UTC(),
		DateUpdated: c.DateUpdated.UTC(),
	}
}

func toClient(c dbClient) client.Client {
	return client.Client{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       db.FromNullString(c.Email),
		Phone:       db.FromNullString(c.Phone),
		Address:     db.FromNullString(c.Address),
		IDType:      client.IDType(db.FromNullString(c.IDType)),
		IDNumber:    db.FromNullString(c.IDNumber),
		DateCreated: c.DateCreated.In(time.UTC),
		DateUpdated: c.DateUpdated.In(time.UTC),
	}
}

func toClients(cs []dbClient) []client.Client {
	slice := make([]client.Client, len(cs))
	for i, c := range cs {
		slice[i] = toClient(c)
	}
	return slice
}
