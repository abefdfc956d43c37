package main

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/rosterhq/roster/migrations"
	"github.com/rosterhq/roster/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply database migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) > 0 {
				direction = args[0]
			}

			conf := configuration.Use()
			db, err := sql.Open("postgres", conf.Database.Opts)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			ctx := cmd.Context()
			switch direction {
			case "up":
				return goose.UpContext(ctx, db, "roster")
			case "down":
				return goose.DownContext(ctx, db, "roster")
			case "status":
				return goose.StatusContext(ctx, db, "roster")
			default:
				return fmt.Errorf("unknown direction %q", direction)
			}
		},
	}
	return cmd
}
