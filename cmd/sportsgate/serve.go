package main

import (
	"fmt"

	"github.com/artpar/sportsgate/bootstrap"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long: `Start the sportsgate server.

Configuration comes from sportsgate.yaml (or --config) when present, then
.env, then SPORTSGATE_* environment variables. Every setting has a default,
so the server also starts with no configuration at all.

Environment variables (common):
  SPORTSGATE_PORT             - Listen port (default: 8000, PORT also accepted)
  SPORTSGATE_UPSTREAM_URL     - Fixtures source (default: none, catalog only)
  SPORTSGATE_ADMIN_TOKEN      - Admin token for /admin endpoints
  SPORTSGATE_CATALOG_PATH     - YAML fallback catalog (default: built-in)
  SPORTSGATE_LOG_LEVEL        - Log level: debug, info, warn, error

Examples:
  sportsgate serve
  sportsgate serve --config /etc/sportsgate/config.yaml
  SPORTSGATE_UPSTREAM_URL=https://fixtures.example.com sportsgate serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
