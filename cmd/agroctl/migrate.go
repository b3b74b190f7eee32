package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		db, err := pool.DB(ctx)
		if err != nil {
			return err
		}
		n, err := database.Migrate(ctx, db, content.Migrations())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", n)
		return nil
	},
}

func init() { rootCmd.AddCommand(migrateCmd) }
