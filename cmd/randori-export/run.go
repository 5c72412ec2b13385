package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/randori-export/internal/config"
	"github.com/Sternrassler/randori-export/internal/ui"
	"github.com/Sternrassler/randori-export/pkg/client"
	"github.com/Sternrassler/randori-export/pkg/credential"
	"github.com/Sternrassler/randori-export/pkg/exporter"
	"github.com/Sternrassler/randori-export/pkg/logging"
	"github.com/Sternrassler/randori-export/pkg/metrics"
	"github.com/Sternrassler/randori-export/pkg/pagination"
	"github.com/Sternrassler/randori-export/pkg/query"
	"github.com/Sternrassler/randori-export/pkg/runstate"
)

const metricsPushTimeout = 10 * time.Second

func runExport(ctx context.Context, out io.Writer, cfg *config.Config, opts *options, lookup credential.LookupFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty || isTerminal(out),
		Output: out,
		RunID:  runID,
	})

	entities, err := cfg.SelectedEntities()
	if err != nil {
		return err
	}

	filter := query.Build(query.Threshold)
	encoded, err := filter.Encode()
	if err != nil {
		return err
	}

	if opts.dryRun {
		doc, err := filter.JSON()
		if err != nil {
			return err
		}
		ui.PrintPlan(cfg.BaseURL, cfg.OutputDir, entities, cfg.PageSize, cfg.Sort, string(doc))
		return nil
	}

	cred, err := credential.Load(lookup)
	if err != nil {
		return err
	}

	clientCfg := client.DefaultConfig(cred, cfg.UserAgent)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.Timeout = cfg.Timeout
	apiClient, err := client.New(clientCfg)
	if err != nil {
		return err
	}
	defer apiClient.Close()

	var store exporter.StateStore
	if cfg.RedisURL != "" {
		rc, err := runstate.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		store = runstate.NewManager(rc, cfg.LockTTL, logging.NewLogger("runstate"))
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("page_size", cfg.PageSize).
		Int("entities", len(entities)).
		Bool("redis", store != nil).
		Msg("Starting export")

	paginator := pagination.New(apiClient, pagination.Config{PageSize: cfg.PageSize})
	exp := exporter.New(paginator, store, exporter.Config{
		RunID:     runID,
		Entities:  entities,
		OutputDir: cfg.OutputDir,
		Query:     encoded,
		Sort:      cfg.Sort,
	})

	summary, runErr := exp.Run(ctx)
	ui.PrintSummary(summary)
	publishMetrics(ctx, cfg, logger)

	return runErr
}

// publishMetrics ships the run metrics. Failures are warnings and never
// change the exit status.
func publishMetrics(ctx context.Context, cfg *config.Config, logger zerolog.Logger) {
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("Failed to write metrics textfile")
			ui.PrintWarning("metrics textfile not written: %v", err)
		}
	}

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsPushTimeout)
		defer cancel()

		if err := metrics.Push(pushCtx, cfg.PushgatewayURL, hostname()); err != nil {
			logger.Warn().Err(err).Msg("Failed to push metrics")
			ui.PrintWarning("metrics push failed: %v", err)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return fmt.Sprintf("pid-%d", os.Getpid())
	}
	return name
}
