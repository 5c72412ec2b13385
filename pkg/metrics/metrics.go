// Package metrics publishes the exporter's Prometheus metrics at the end of
// a run. Metrics are defined in their respective packages (client,
// pagination, exporter) and registered via promauto on the default registry.
//
// A batch job has no scrape endpoint, so the collected values are either
// pushed to a Pushgateway or written as a node_exporter textfile.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job label.
const JobName = "randori_export"

// Gatherer collects every metric registered via promauto.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// Push sends all gathered metrics to the Pushgateway at url, replacing the
// previous push of this job and instance.
func Push(ctx context.Context, url, instance string) error {
	pusher := push.New(url, JobName).Gatherer(Gatherer)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// WriteTextfile writes all gathered metrics in text exposition format to
// path, for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - randori_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - randori_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - randori_errors_total{class} (Counter): Errors by class (client, server, unexpected, network, malformed)
//
// Pagination Metrics (pkg/pagination):
//   - randori_pages_fetched_total{endpoint} (Counter): Non-empty pages fetched
//   - randori_records_fetched_total{endpoint} (Counter): Records fetched
//
// Export Metrics (pkg/exporter):
//   - randori_export_rows{entity} (Gauge): Rows written in the last run
//   - randori_export_duration_seconds (Gauge): Duration of the last run
//   - randori_export_last_success_timestamp_seconds (Gauge): Unix time of the last successful run
//   - randori_export_runs_total{result} (Counter): Runs by result (success, failure)
//
// Example Prometheus Queries:
//
//   # Export has not succeeded for a day
//   time() - randori_export_last_success_timestamp_seconds > 86400
//
//   # Rows per entity
//   randori_export_rows
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(randori_request_duration_seconds_bucket[1h]))
