package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	"github.com/spf13/cobra"
)

func TestBindTablesFromEnv(t *testing.T) {
	env := map[string]string{
		"PAWNSHOP_TABLES_CLIENTS":       "pawn_clients",
		"PAWNSHOP_TABLES_ITEMS":         "pawn_items",
		"PAWNSHOP_TABLES_TRANSACTIONS":  "pawn_transactions",
		"PAWNSHOP_TABLES_PAYMENTS":      "pawn_payments",
		"PAWNSHOP_TABLES_PLANS":         "pawn_plans",
		"PAWNSHOP_TABLES_SUBSCRIPTIONS": "pawn_subscriptions",
		"PAWNSHOP_TABLES_USERS":         "pawn_users",
		"PAWNSHOP_TABLES_PROFILES":      "pawn_profiles",
	}

	var got dbschema.Tables
	cmd := &cobra.Command{Use: "test"}
	bindTables(cmd, &got, func(k string) string { return env[k] })
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	want := dbschema.Tables{
		Clients:       "pawn_clients",
		Items:         "pawn_items",
		Transactions:  "pawn_transactions",
		Payments:      "pawn_payments",
		Plans:         "pawn_plans",
		Subscriptions: "pawn_subscriptions",
		Users:         "pawn_users",
		Profiles:      "pawn_profiles",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}

	q := `CREATE TABLE {{.Items}}`
	if got.Render(q) != "CREATE TABLE pawn_items" {
		t.Errorf("rendered %q", got.Render(q))
	}
}

func TestBindTablesFlagsWin(t *testing.T) {
	var got dbschema.Tables
	cmd := &cobra.Command{Use: "test"}
	bindTables(cmd, &got, func(string) string { return "" })

	if err := cmd.ParseFlags([]string{"--table-items", "stock", "--table-profiles", "people"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	got = got.WithDefaults()

	want := dbschema.DefaultTables()
	want.Items = "stock"
	want.Profiles = "people"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}
