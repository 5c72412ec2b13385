// Package exporter runs a full export: every selected entity endpoint is
// paginated to completion and flushed to its own CSV file.
package exporter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Sternrassler/randori-export/pkg/csvwriter"
	"github.com/Sternrassler/randori-export/pkg/pagination"
	"github.com/Sternrassler/randori-export/pkg/record"
	"github.com/Sternrassler/randori-export/pkg/runstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	exportRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "randori_export_rows",
		Help: "Rows written per entity in the last run",
	}, []string{"entity"})

	exportDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "randori_export_duration_seconds",
		Help: "Duration of the last export run in seconds",
	})

	exportLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "randori_export_last_success_timestamp_seconds",
		Help: "Unix time of the last successful export run",
	})

	exportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "randori_export_runs_total",
		Help: "Export runs by result",
	}, []string{"result"})
)

// Fetcher returns every record of an endpoint. *pagination.Paginator implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, endpoint string, params pagination.Params) ([]record.Record, error)
}

// StateStore coordinates runs. *runstate.Manager implements it.
type StateStore interface {
	Acquire(ctx context.Context, owner string) (*runstate.Lock, error)
	RecordRun(ctx context.Context, s *runstate.Summary) error
}

// Config holds exporter configuration.
type Config struct {
	// RunID identifies this run in logs, the lock and the run summary.
	RunID string

	// Entities are exported in order.
	Entities []Entity

	// OutputDir receives the CSV files.
	OutputDir string

	// Query is the encoded filter sent as q.
	Query string

	// Sort is sent as the sort parameter.
	Sort string
}

// Exporter runs exports.
type Exporter struct {
	fetcher Fetcher
	store   StateStore
	config  Config
	logger  zerolog.Logger
}

// New creates an exporter. store may be nil to run without coordination.
func New(fetcher Fetcher, store StateStore, config Config) *Exporter {
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if len(config.Entities) == 0 {
		config.Entities = DefaultEntities()
	}

	return &Exporter{
		fetcher: fetcher,
		store:   store,
		config:  config,
		logger:  log.With().Str("component", "exporter").Logger(),
	}
}

// Run exports every configured entity. The first failure aborts the
// remaining entities. The returned summary is never nil and reflects the
// entities finished before any failure.
func (e *Exporter) Run(ctx context.Context) (*runstate.Summary, error) {
	summary := &runstate.Summary{
		RunID:     e.config.RunID,
		StartedAt: time.Now().UTC(),
	}

	if e.store != nil {
		lock, err := e.store.Acquire(ctx, e.config.RunID)
		if err != nil {
			return summary, fmt.Errorf("acquire export lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn().Err(err).Msg("Failed to release export lock")
			}
		}()
	}

	runErr := e.exportAll(ctx, summary)
	e.finish(ctx, summary, runErr)

	return summary, runErr
}

func (e *Exporter) exportAll(ctx context.Context, summary *runstate.Summary) error {
	for _, entity := range e.config.Entities {
		result, err := e.exportEntity(ctx, entity)
		if err != nil {
			return fmt.Errorf("export %s: %w", entity.Name, err)
		}
		summary.Entities = append(summary.Entities, result)
	}
	return nil
}

// exportEntity fetches and writes one entity. Params are built fresh here
// so no pagination state carries over between endpoints.
func (e *Exporter) exportEntity(ctx context.Context, entity Entity) (runstate.EntityResult, error) {
	logger := e.logger.With().
		Str("entity", entity.Name).
		Str("endpoint", entity.Endpoint).
		Logger()

	result := runstate.EntityResult{
		Entity:   entity.Name,
		Endpoint: entity.Endpoint,
	}

	logger.Info().Str("file", entity.FileName()).Msg("Exporting entity")

	params := pagination.NewParams(e.config.Query, e.config.Sort)
	records, err := e.fetcher.FetchAll(ctx, entity.Endpoint, params)
	if err != nil {
		return result, err
	}

	if len(records) == 0 {
		logger.Info().Msg("Entity skipped, no file written")
		result.Skipped = true
		exportRows.WithLabelValues(entity.Name).Set(0)
		return result, nil
	}

	path := filepath.Join(e.config.OutputDir, entity.FileName())
	if err := csvwriter.Write(path, records); err != nil {
		return result, err
	}

	result.Rows = len(records)
	result.Path = path
	exportRows.WithLabelValues(entity.Name).Set(float64(len(records)))

	logger.Info().
		Str("path", path).
		Int("rows", len(records)).
		Msgf("Completed writing %s", path)

	return result, nil
}

func (e *Exporter) finish(ctx context.Context, summary *runstate.Summary, runErr error) {
	summary.FinishedAt = time.Now().UTC()
	summary.Success = runErr == nil
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	exportDuration.Set(summary.Duration().Seconds())
	if summary.Success {
		exportRunsTotal.WithLabelValues("success").Inc()
		exportLastSuccess.Set(float64(summary.FinishedAt.Unix()))
	} else {
		exportRunsTotal.WithLabelValues("failure").Inc()
	}

	if e.store != nil {
		if err := e.store.RecordRun(context.WithoutCancel(ctx), summary); err != nil {
			e.logger.Warn().Err(err).Msg("Failed to record run summary")
		}
	}

	event := e.logger.Info()
	if runErr != nil {
		event = e.logger.Error().Err(runErr)
	}
	event.
		Int("entities", len(summary.Entities)).
		Int("rows", summary.TotalRows()).
		Dur("duration", summary.Duration()).
		Bool("success", summary.Success).
		Msg("Export run finished")
}
