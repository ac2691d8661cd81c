package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/client/store/clientdb"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	"github.com/rschio/pawnshop/internal/data/dbtest"
)

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	log, database, teardown := dbtest.NewUnit(t, dbtest.WithMigrations())
	t.Cleanup(teardown)

	core := client.NewCore(log, clientdb.NewStore(log, database, dbschema.DefaultTables()))

	c, err := core.Create(ctx, client.NewClient{FirstName: "Moussa", LastName: "Traoré"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	if c.Email != "" || c.Phone != "" {
		t.Fatalf("got email %q phone %q, want both empty", c.Email, c.Phone)
	}
	if _, ok := c.WhatsApp(); ok {
		t.Fatalf("client without phone must not have a WhatsApp link")
	}

	phone := "07 01 02 03 04"
	c, err = core.Update(ctx, c.ID, client.UpdateClient{Phone: &phone})
	if err != nil {
		t.Fatalf("updating client: %v", err)
	}

	got, err := core.QueryByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("querying client: %v", err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Fatalf("got different client: %s", diff)
	}

	link, ok := got.WhatsApp()
	if !ok || link != "https://wa.me/701020304" {
		t.Fatalf("got link %q, %v", link, ok)
	}

	if err := core.Delete(ctx, c.ID); err != nil {
		t.Fatalf("deleting client: %v", err)
	}
	cs, err := core.QueryAll(ctx)
	if err != nil {
		t.Fatalf("listing clients: %v", err)
	}
	if len(cs) != 0 {
		t.Fatalf("got %d clients after delete, want 0", len(cs))
	}
}

func TestCreateValidation(t *testing.T) {
	core := client.NewCore(discard(), &fakeStore{})

	tests := []struct {
		name string
		nc   client.NewClient
		want error
	}{
		{"no name", client.NewClient{Email: "a@b.com"}, client.ErrInvalidArgument},
		{"bad email", client.NewClient{FirstName: "A", Email: "not-an-email"}, client.ErrInvalidEmail},
		{"bad id type", client.NewClient{FirstName: "A", IDType: "visa"}, client.ErrInvalidArgument},
		{"first name only", client.NewClient{FirstName: "A"}, nil},
		{"full", client.NewClient{FirstName: "A", LastName: "B", Email: "a@b.ci", IDType: client.IDCard}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.Create(context.Background(), tt.nc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateRejectsInvalidEmail(t *testing.T) {
	store := &fakeStore{}
	core := client.NewCore(discard(), store)

	c, err := core.Create(context.Background(), client.NewClient{FirstName: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := "broken@"
	if _, err := core.Update(context.Background(), c.ID, client.UpdateClient{Email: &bad}); !errors.Is(err, client.ErrInvalidEmail) {
		t.Fatalf("got %v, want ErrInvalidEmail", err)
	}
	if store.updates != 0 {
		t.Fatalf("store updated %d times, want 0", store.updates)
	}
}

func TestIDTypeLabel(t *testing.T) {
	if got := client.IDCard.Label(); got != "Carte d'identité" {
		t.Errorf("got %q", got)
	}
	if got := client.IDTypeUnassigned.Label(); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
