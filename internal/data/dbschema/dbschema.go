// Package dbschema contains the database schema and migrations data.
package dbschema

import (
	"bytes"
	"database/sql"
	_ "embed" // Used to embed sql files.
	"fmt"
	"sync"
	"text/template"

	"github.com/ardanlabs/darwin/v3"
	"github.com/ardanlabs/darwin/v3/dialects/postgres"
	"github.com/ardanlabs/darwin/v3/drivers/generic"
)

var (
	//go:embed sql/migrations.sql
	migrations string
)

// Tables holds the table names used by the stores. They can be renamed
// through configuration, the migrations are rendered with the same names.
type Tables struct {
	Clients       string
	Items         string
	Transactions  string
	Payments      string
	Plans         string
	Subscriptions string
	Users         string
	Profiles      string
}

// DefaultTables returns the canonical table names.
func DefaultTables() Tables {
	return Tables{
		Clients:       "clients",
		Items:         "items",
		Transactions:  "transactions",
		Payments:      "payments",
		Plans:         "subscription_plans",
		Subscriptions: "subscriptions",
		Users:         "users",
		Profiles:      "profiles",
	}
}

// WithDefaults fills every empty name with its canonical value.
func (t Tables) WithDefaults() Tables {
	d := DefaultTables()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&t.Clients, d.Clients)
	fill(&t.Items, d.Items)
	fill(&t.Transactions, d.Transactions)
	fill(&t.Payments, d.Payments)
	fill(&t.Plans, d.Plans)
	fill(&t.Subscriptions, d.Subscriptions)
	fill(&t.Users, d.Users)
	fill(&t.Profiles, d.Profiles)
	return t
}

// parsed caches one template per query text.
var parsed sync.Map

func parse(q string) *template.Template {
	if tmpl, ok := parsed.Load(q); ok {
		return tmpl.(*template.Template)
	}
	tmpl := template.Must(template.New("").Option("missingkey=error").Parse(q))
	actual, _ := parsed.LoadOrStore(q, tmpl)
	return actual.(*template.Template)
}

// Render replaces the {{.Name}} table references in q. It panics on a
// malformed template, queries are constants written alongside the stores.
// Each distinct query is parsed once.
func (t Tables) Render(q string) string {
	tmpl := parse(q)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t.WithDefaults()); err != nil {
		panic(fmt.Sprintf("render query: %v", err))
	}
	return buf.String()
}

// Migrate brings the schema up to date using the default table names.
func Migrate(db *sql.DB) error {
	return MigrateTables(db, DefaultTables())
}

// MigrateTables brings the schema up to date using the given table names.
func MigrateTables(db *sql.DB, tables Tables) error {
	driver, err := generic.New(db, postgres.Dialect{})
	if err != nil {
		return err
	}

	d := darwin.New(driver, darwin.ParseMigrations(tables.Render(migrations)))
	if err := d.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	return nil
}
