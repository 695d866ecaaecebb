package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/artpar/sportsgate/config"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "sportsgate.yaml"

var (
	// Global flags
	cfgFile string
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sportsgate",
	Short: "Sports fixtures gateway with API keys, plan limits and caching",
	Long: `sportsgate serves sports fixtures behind per-key authentication,
per-plan rate limits and monthly quotas. Results are cached briefly and a
local catalog is served when the upstream source is absent or failing.

Quick start:
  sportsgate serve        # Start the server
  sportsgate validate     # Validate configuration

Management (talks to a running server):
  sportsgate keys create --user=alice --plan=pro
  sportsgate keys revoke rz_...`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")
}

// loadConfig loads the configuration. The default config file may be absent;
// an explicitly named one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path := cfgFile
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
