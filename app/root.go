// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/logger"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "dms",
		Short: "DMS runs the dealership management services",
		Long: `DMS runs the dealership management services: settings, users, CRM,
inventory, sales, service, parts, financial, reporting, login and the
API gateway in front of them.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
}

// loadConfig reads the config and initializes the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
