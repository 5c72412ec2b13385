package runstate

import (
	"testing"
	"time"
)

func TestSummary_Duration(t *testing.T) {
	start := time.Now().Add(-time.Minute)

	tests := []struct {
		name     string
		summary  Summary
		expected time.Duration
	}{
		{
			name:     "finished run",
			summary:  Summary{StartedAt: start, FinishedAt: start.Add(42 * time.Second)},
			expected: 42 * time.Second,
		},
		{
			name:     "unfinished run",
			summary:  Summary{StartedAt: start},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.Duration(); got != tt.expected {
				t.Errorf("Duration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSummary_TotalRows(t *testing.T) {
	s := Summary{Entities: []EntityResult{
		{Entity: "hostname", Rows: 10},
		{Entity: "ip", Skipped: true},
		{Entity: "target", Rows: 15},
	}}

	if got := s.TotalRows(); got != 25 {
		t.Errorf("TotalRows() = %d, want 25", got)
	}
}

func TestSummary_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		finished time.Time
		maxAge   time.Duration
		expected bool
	}{
		{"fresh", time.Now(), time.Hour, false},
		{"stale", time.Now().Add(-25 * time.Hour), 24 * time.Hour, true},
		{"just under max age", time.Now().Add(-23 * time.Hour), 24 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summary{FinishedAt: tt.finished}
			if got := s.IsStale(tt.maxAge); got != tt.expected {
				t.Errorf("IsStale() = %v, want %v", got, tt.expected)
			}
		})
	}
}
