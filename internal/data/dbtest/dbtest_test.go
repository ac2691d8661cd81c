package dbtest

import (
	"context"
	"testing"

	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

func TestNewUnit(t *testing.T) {
	ctx := context.Background()
	log, database, teardown := NewUnit(t, WithMigrations())
	t.Cleanup(teardown)
	log.Info("Hello")

	if err := db.StatusCheck(ctx, database); err != nil {
		t.Fatal(err)
	}
}

func TestRenamedTables(t *testing.T) {
	ctx := context.Background()

	tables := dbschema.Tables{Clients: "pawn_clients"}
	_, database, teardown := NewUnit(t, WithTables(tables))
	t.Cleanup(teardown)

	var n int
	if err := database.QueryRow(ctx, `SELECT count(*) FROM pawn_clients`).Scan(&n); err != nil {
		t.Fatalf("query renamed table: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d rows, want 0", n)
	}
}
