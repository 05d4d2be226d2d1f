package cli

import (
	"os"
	"os/signal"
	"syscall"

	"taskPlanner/internal/app"
	"taskPlanner/internal/config"

	"github.com/spf13/cobra"
)

// NewServeCommand запускает HTTP API до SIGINT/SIGTERM
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		Args:  cobra.NoArgs,

		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(cfg).Init(ctx)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "путь к config.yml")
	return cmd
}
