package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/randori-export/internal/config"
	"github.com/Sternrassler/randori-export/pkg/credential"
)

// options holds flags that only affect a single invocation.
type options struct {
	dryRun bool
}

// newRootCmd builds the command tree. environ overrides the process
// environment when non-nil; lookup resolves the API key.
func newRootCmd(environ map[string]string, lookup credential.LookupFunc) (*cobra.Command, error) {
	cfg, err := config.LoadFrom(environ)
	if err != nil {
		return nil, err
	}
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "randori-export",
		Short:   "Export Randori recon entities to CSV",
		Version: config.Version,
		Long: `Exports the hostname, ip, target, service and network entities of a Randori
platform to one CSV file each. Only records with a target temptation of at
least 25 are included. The API key is read from RANDORI_API_KEY.`,
		Example: `  # Export every entity into the current directory
  $ RANDORI_API_KEY=... randori-export

  # Export only targets and services into /data
  $ randori-export --entity target --entity service --output-dir /data

  # Show what would be requested
  $ randori-export --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), cfg, opts, lookup)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Randori platform URL (env: RANDORI_PLATFORM_URL)")
	flags.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "records per request, 1-2000 (env: RANDORI_PAGE_SIZE)")
	flags.StringVar(&cfg.Sort, "sort", cfg.Sort, "sort order sent to the API (env: RANDORI_SORT)")
	flags.StringSliceVar(&cfg.Entities, "entity", cfg.Entities, "entity to export, repeatable; default all (env: RANDORI_ENTITIES)")
	flags.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "directory for CSV files (env: RANDORI_OUTPUT_DIR)")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request HTTP timeout (env: RANDORI_HTTP_TIMEOUT)")
	flags.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the run lock and summary (env: REDIS_URL)")
	flags.StringVar(&cfg.PushgatewayURL, "pushgateway-url", cfg.PushgatewayURL, "push run metrics to this Pushgateway (env: PUSHGATEWAY_URL)")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write run metrics to this textfile (env: RANDORI_METRICS_FILE)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the export plan without sending requests")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (env: LOG_LEVEL)")
	persistent.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human-readable logs (env: LOG_PRETTY)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(formatVersion())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), formatVersion())
			return err
		},
	}
}

func formatVersion() string {
	return fmt.Sprintf("randori-export version %s\n", config.Version)
}
