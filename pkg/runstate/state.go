// Package runstate keeps export run coordination state in Redis: a lock
// that stops overlapping runs from clobbering each other's CSV files, and
// the summary of the last finished run.
package runstate

import (
	"time"
)

// Redis keys for run state storage.
const (
	RedisKeyLock    = "randori:export:lock"
	RedisKeyLastRun = "randori:export:last_run"
)

// DefaultLockTTL bounds how long a crashed run can block the next one.
const DefaultLockTTL = 30 * time.Minute

// EntityResult is the outcome for one endpoint.
type EntityResult struct {
	Entity   string `json:"entity"`
	Endpoint string `json:"endpoint"`
	Rows     int    `json:"rows"`
	Path     string `json:"path,omitempty"`

	// Skipped is true when the endpoint had no matching records.
	Skipped bool `json:"skipped"`
}

// Summary describes one export run.
type Summary struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Entities   []EntityResult `json:"entities"`
}

// Duration returns how long the run took.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// TotalRows returns the number of rows written across all entities.
func (s *Summary) TotalRows() int {
	n := 0
	for _, e := range s.Entities {
		n += e.Rows
	}
	return n
}

// IsStale returns true if the run finished longer ago than maxAge.
func (s *Summary) IsStale(maxAge time.Duration) bool {
	return time.Since(s.FinishedAt) > maxAge
}
