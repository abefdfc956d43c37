package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosterhq/roster/modules/roster/domain/entities/catalog"
	"github.com/rosterhq/roster/modules/roster/infrastructure/persistence"
	"github.com/rosterhq/roster/pkg/composables"
)

var defaultRanks = []catalog.Rank{
	{Name: "Private", Level: 1, Abbreviation: "Pvt"},
	{Name: "Corporal", Level: 2, Abbreviation: "Cpl"},
	{Name: "Sergeant", Level: 3, Abbreviation: "Sgt"},
	{Name: "Lieutenant", Level: 4, Abbreviation: "Lt"},
	{Name: "Captain", Level: 5, Abbreviation: "Cpt"},
	{Name: "Major", Level: 6, Abbreviation: "Maj"},
	{Name: "Colonel", Level: 7, Abbreviation: "Col"},
}

var defaultSubdivisions = []catalog.Subdivision{
	{Name: "Headquarters", Abbreviation: "HQ"},
	{Name: "Operations", Abbreviation: "OPS"},
	{Name: "Logistics", Abbreviation: "LOG"},
	{Name: "Training", Abbreviation: "TRN"},
}

// defaultPositions maps each position to the subdivisions it is
// registered for.
var defaultPositions = map[string][]string{
	"Commander":     {"Headquarters"},
	"Instructor":    {"Training"},
	"Operative":     {"Operations", "Headquarters"},
	"Quartermaster": {"Logistics"},
	"Recruit":       {"Operations", "Logistics", "Training"},
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the rank, subdivision and position catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			repo := persistence.NewCatalogRepository()

			return composables.InTx(ctx, func(txCtx context.Context) error {
				for _, r := range defaultRanks {
					if _, err := repo.CreateRank(txCtx, r); err != nil {
						return fmt.Errorf("seed rank %q: %w", r.Name, err)
					}
				}

				subs := make(map[string]catalog.Subdivision, len(defaultSubdivisions))
				for _, s := range defaultSubdivisions {
					created, err := repo.CreateSubdivision(txCtx, s)
					if err != nil {
						return fmt.Errorf("seed subdivision %q: %w", s.Name, err)
					}
					subs[created.Name] = created
				}

				for name, subNames := range defaultPositions {
					pos, err := repo.CreatePosition(txCtx, catalog.Position{Name: name})
					if err != nil {
						return fmt.Errorf("seed position %q: %w", name, err)
					}
					for _, subName := range subNames {
						sub, ok := subs[subName]
						if !ok {
							return fmt.Errorf("position %q references unknown subdivision %q", name, subName)
						}
						if _, err := repo.CreatePairing(txCtx, pos.ID, sub.ID); err != nil {
							return fmt.Errorf("seed pairing %q/%q: %w", name, subName, err)
						}
					}
				}
				return nil
			})
		},
	}
	return cmd
}
