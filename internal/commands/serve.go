package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"FinCast/internal/di"
	"FinCast/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forecast HTTP API",
	Long:  "Serve POST /api/forecast, GET /api/models, GET /healthz and GET /metrics until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		if verbose {
			cfg.Logger.Level = "debug"
			cfg.Forecast.Verbosity = max(cfg.Forecast.Verbosity, 1)
		}

		app, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization failed: %w", err)
		}
		return app.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "override server.port")
}
