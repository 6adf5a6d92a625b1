package app

import (
	"github.com/spf13/cobra"

	"github.com/apota/mydms-sub010/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")
	startCmd.Flags().StringSliceVarP(
		&serviceNames,
		"service",
		"s",
		nil,
		"Service to start, repeatable (default every configured service)",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	devMode      bool
	serviceNames []string

	startCmd = &cobra.Command{
		Use:     "start",
		Short:   "Start the DMS services",
		Example: "dms start --service gateway --service login",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(cmd.Context(), &cfg, serviceNames...)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
