// Package cli provides the cobra command and runtime wiring for subhunt.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vahedem/subhunt/internal/apperr"
	"github.com/vahedem/subhunt/internal/config"
	"github.com/vahedem/subhunt/internal/httpclient"
	"github.com/vahedem/subhunt/internal/resolver"
	"github.com/vahedem/subhunt/internal/validate"
	"github.com/vahedem/subhunt/internal/version"
)

// newRootCmd builds the subhunt command. Callers must set stdout/stderr via
// cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	var (
		configFile string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "subhunt <domain>",
		Short: "Fast subdomain enumeration from massive passive DNS datasets",
		Long: `Subhunt discovers subdomains of a target domain from passive reconnaissance
sources, resolves every candidate through a bounded worker pool, and prints the
hosts that are actually live. Wildcard DNS answers are detected up front and
suppressed from the output.

Validated hosts stream to stdout as they are found; diagnostics go to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configFile)
			if err != nil {
				return err
			}

			domain := validate.Normalize(args[0])
			if !validate.IsDomain(domain) {
				return fmt.Errorf("%w: must be a valid domain name: %q", apperr.ErrInvalidInput, args[0])
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			client, err := httpclient.New(cfg.Proxy, cfg.UserAgent, logger, cfg.Verbose)
			if err != nil {
				return err
			}
			retryOpts := httpclient.DefaultRetryOptions()
			retryOpts.Attempts = cfg.Attempts
			httpclient.AttachRetry(client, retryOpts)

			res, err := buildResolver(cfg)
			if err != nil {
				return err
			}

			entries, err := runDiscovery(cmd.Context(), cfg, client, res, domain, cmd.OutOrStdout(), outputPath != "", logger)
			if err != nil {
				return err
			}

			if outputPath != "" {
				saveReport(outputPath, entries, cfg.GeoIPDB, logger)
			}
			return nil
		},
	}

	cmd.Version = version.Version
	cmd.SetVersionTemplate("subhunt version {{.Version}}\n")

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write a report table to this file")
	cmd.Flags().BoolP("all-sources", "a", false, "enable secondary sources (broader but slower coverage)")
	cmd.Flags().Int("concurrency", config.NewDefaultConfig().Concurrency, "number of resolution workers")
	cmd.Flags().Int("max-in-flight", config.NewDefaultConfig().MaxInFlight, "cap on in-flight resolution tasks")
	cmd.Flags().Int("attempts", config.NewDefaultConfig().Attempts, "HTTP request budget (initial call + retries)")
	cmd.Flags().Int("page-size", config.NewDefaultConfig().PageSize, "per-page result limit for the primary source")
	cmd.Flags().String("nameserver", "", "resolve against this nameserver (host[:port]) instead of the system resolver")
	cmd.Flags().String("proxy", "", "proxy URL (http://, https://, or socks5://)")
	cmd.Flags().String("user-agent", "", "override the User-Agent header")
	cmd.Flags().String("geoip-db", "", "MaxMind database path for report country enrichment")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")

	return cmd
}

// Execute builds the root command and runs it with the given arguments
// (excluding the program name).
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// resolveConfig loads the config file and applies any explicitly-set flags on
// top of it. Flags always win over file values.
func resolveConfig(cmd *cobra.Command, configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile, os.UserConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	f := cmd.Flags()
	if f.Changed("all-sources") {
		cfg.AllSources, _ = f.GetBool("all-sources")
	}
	if f.Changed("concurrency") {
		cfg.Concurrency, _ = f.GetInt("concurrency")
	}
	if f.Changed("max-in-flight") {
		cfg.MaxInFlight, _ = f.GetInt("max-in-flight")
	}
	if f.Changed("attempts") {
		cfg.Attempts, _ = f.GetInt("attempts")
	}
	if f.Changed("page-size") {
		cfg.PageSize, _ = f.GetInt("page-size")
	}
	if f.Changed("nameserver") {
		cfg.Nameserver, _ = f.GetString("nameserver")
	}
	if f.Changed("proxy") {
		cfg.Proxy, _ = f.GetString("proxy")
	}
	if f.Changed("user-agent") {
		cfg.UserAgent, _ = f.GetString("user-agent")
	}
	if f.Changed("geoip-db") {
		cfg.GeoIPDB, _ = f.GetString("geoip-db")
	}
	if f.Changed("verbose") {
		cfg.Verbose, _ = f.GetBool("verbose")
	}

	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.MaxInFlight < 1 {
		return nil, fmt.Errorf("--max-in-flight must be at least 1, got %d", cfg.MaxInFlight)
	}
	if cfg.Attempts < 1 {
		return nil, fmt.Errorf("--attempts must be at least 1, got %d", cfg.Attempts)
	}
	return cfg, nil
}

// buildResolver picks the direct nameserver client when one is configured,
// falling back to the system resolver (SOCKS5-tunnelled when the proxy is
// socks5://).
func buildResolver(cfg *config.Config) (resolver.Resolver, error) {
	if cfg.Nameserver != "" {
		return resolver.NewDirect(cfg.Nameserver), nil
	}
	r, err := resolver.System(cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("creating DNS resolver: %w", err)
	}
	return r, nil
}
