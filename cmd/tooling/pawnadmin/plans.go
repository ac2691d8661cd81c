package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/plan/store/plandb"
	"github.com/rschio/pawnshop/internal/data/kvstore"
	"github.com/spf13/cobra"
)

var seedPlansCmd = &cobra.Command{
	Use:   "seed-plans",
	Short: "Insert the default plans when the catalog is empty",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, closeFn, err := planCore(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		plans, err := core.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("seeding plans: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d plans in the catalog\n", len(plans))
		return nil
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Print the active plans as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, closeFn, err := planCore(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		plans, err := core.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading plans: %w", err)
		}

		type planOut struct {
			ID           uuid.UUID     `json:"id"`
			Name         string        `json:"name"`
			Type         plan.Tier     `json:"type"`
			Price        int64         `json:"price"`
			DurationDays int           `json:"duration_days"`
			Features     plan.Features `json:"features"`
		}
		out := make([]planOut, len(plans))
		for i, p := range plans {
			out[i] = planOut{
				ID:           p.ID,
				Name:         p.Name,
				Type:         p.Type,
				Price:        p.Price,
				DurationDays: p.DurationDays,
				Features:     p.Features,
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// planCore wires the plan loader. The seed is locked through redis when
// an address is configured.
func planCore(cmd *cobra.Command) (*plan.Core, func(), error) {
	database, err := openDB(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	closeFn := database.Close

	var locker plan.Locker
	if redisAddr != "" {
		kv := kvstore.Open(kvstore.Config{Addr: redisAddr})
		locker = kvstore.NewMutex(kv, "pawnshop:plans:seed", 30*time.Second)
		closeFn = func() {
			kv.Close()
			database.Close()
		}
	}

	store := plandb.NewStore(log, database, tables)
	return plan.NewCore(log, store, locker), closeFn, nil
}
