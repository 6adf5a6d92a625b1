package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/apota/mydms-sub010/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or update the database schema",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := db.Open(cmd.Context(), &cfg.DB)
		if err != nil {
			return err
		}

		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := db.Migrate(gdb); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated")

		return nil
	},
}
