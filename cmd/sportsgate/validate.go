package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/sportsgate/adapters/catalog"
	"github.com/artpar/sportsgate/adapters/upstream"
	"github.com/artpar/sportsgate/config"
	"github.com/artpar/sportsgate/domain/matches"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the sportsgate configuration.

Checks:
  - YAML syntax is valid
  - Values are in range (ports, timeouts, plan limits)
  - Fallback catalog file parses (when configured)
  - Upstream answers with a fixtures list (optional)

Examples:
  sportsgate validate
  sportsgate validate --config /etc/sportsgate/config.yaml --check-upstream`,
	RunE: runValidate,
}

var validateCheckUpstream bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckUpstream, "check-upstream", false, "fetch football fixtures from the upstream")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, path, err := loadConfig(cmd)
	if path == "" {
		fmt.Fprintln(out, "Validating defaults and environment (no config file)...")
	} else {
		fmt.Fprintf(out, "Validating %s...\n", path)
	}
	fmt.Fprintln(out)
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)

	// Show config summary
	upstreamURL := cfg.Upstream.URL
	if upstreamURL == "" {
		upstreamURL = "(none, fallback catalog only)"
	}
	fmt.Fprintf(out, "  %s Listen: %s\n", checkMark, cfg.Addr())
	fmt.Fprintf(out, "  %s Upstream: %s (timeout %s)\n", checkMark, upstreamURL, cfg.Upstream.Timeout)
	fmt.Fprintf(out, "  %s Cache TTL: %s\n", checkMark, cfg.Cache.TTL)
	fmt.Fprintf(out, "  %s Plans: %s\n", checkMark, strings.Join(cfg.PlanTable().IDs(), ", "))
	if cfg.UsesDefaultAdminToken() {
		fmt.Fprintf(out, "  %s Admin token is the development default\n", crossMark)
	}

	if cfg.Catalog.Path != "" {
		c, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			fmt.Fprintf(out, "  %s Catalog %s\n", crossMark, cfg.Catalog.Path)
			return fmt.Errorf("catalog error: %w", err)
		}
		fmt.Fprintf(out, "  %s Catalog: %d sports\n", checkMark, len(c))
	}

	if validateCheckUpstream {
		if err := checkUpstream(cmd.Context(), cfg); err != nil {
			fmt.Fprintf(out, "  %s Upstream reachable\n", crossMark)
			fmt.Fprintf(out, "      Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "  %s Upstream reachable\n", checkMark)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func checkUpstream(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := upstream.New(upstream.Config{
		URL:     cfg.Upstream.URL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return err
	}
	_, err = f.Fetch(ctx, matches.DefaultSport)
	return err
}
