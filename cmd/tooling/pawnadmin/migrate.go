package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres stdlib driver, used for migrations.
	"github.com/rschio/pawnshop/internal/data/dbschema"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		stdDB, err := sql.Open("pgx", dbURL)
		if err != nil {
			return fmt.Errorf("failed to open DB for migration: %w", err)
		}
		defer stdDB.Close()

		if err := dbschema.MigrateTables(stdDB, tables); err != nil {
			return fmt.Errorf("migrating error: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "migrations complete")
		return nil
	},
}
