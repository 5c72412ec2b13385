// Package ui prints the human-facing lines of a run. Structured diagnostics
// go through zerolog; this package only renders the end-of-run summary and
// command output.
package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/Sternrassler/randori-export/pkg/exporter"
	"github.com/Sternrassler/randori-export/pkg/runstate"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
	faintColor   = color.New(color.Faint)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	successColor.Fprintf(color.Output, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	errorColor.Fprintf(color.Output, "✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	warningColor.Fprintf(color.Output, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	infoColor.Fprintf(color.Output, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// PrintBold prints a bold message
func PrintBold(format string, args ...interface{}) {
	boldColor.Fprintln(color.Output, fmt.Sprintf(format, args...))
}

// PrintSummary prints one line per exported entity followed by the outcome.
func PrintSummary(s *runstate.Summary) {
	if s == nil {
		return
	}

	PrintBold("Run %s", s.RunID)
	for _, e := range s.Entities {
		if e.Skipped {
			faintColor.Fprintf(color.Output, "  %-9s skipped (no records)\n", e.Entity)
			continue
		}
		fmt.Fprintf(color.Output, "  %-9s %6d rows  %s\n", e.Entity, e.Rows, e.Path)
	}

	if s.Success {
		PrintSuccess("Exported %d rows in %s", s.TotalRows(), s.Duration().Round(time.Millisecond))
		return
	}
	PrintError("Export failed after %d entities: %s", len(s.Entities), s.Error)
}

// PrintPlan prints what an export would do without running it.
func PrintPlan(baseURL, outputDir string, entities []exporter.Entity, pageSize int, sort, filter string) {
	PrintBold("Export plan")
	fmt.Fprintf(color.Output, "  platform   %s\n", baseURL)
	fmt.Fprintf(color.Output, "  page size  %d\n", pageSize)
	fmt.Fprintf(color.Output, "  sort       %s\n", sort)
	fmt.Fprintf(color.Output, "  filter     %s\n", filter)
	for _, e := range entities {
		fmt.Fprintf(color.Output, "  %-9s  %s -> %s/%s\n", e.Name, e.Endpoint, outputDir, e.FileName())
	}
	PrintInfo("Dry run: no requests sent")
}
