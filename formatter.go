package allure

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/apiprobe/allure-reporter/types"
)

// ResultFormatter is responsible for formatting and displaying run results.
type ResultFormatter interface {
	FormatResults(results []RunResult) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
	}
}

// FormatResults prints a per-test summary table for the finished run.
func (f *ConsoleResultFormatter) FormatResults(results []RunResult) error {
	f.logger.Info("Printing run summary", "tests", len(results))
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Test Report Summary")

	t.AppendHeader(table.Row{
		"Project", "Module", "Test", "Duration", "Status", "Detail",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Detail", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	var passed, failed, broken int
	var total time.Duration
	for _, r := range results {
		d := r.Duration()
		total += d
		switch r.Status {
		case types.StatusPassed:
			passed++
		case types.StatusFailed:
			failed++
		default:
			broken++
		}
		t.AppendRow(table.Row{
			r.Key.Project,
			r.Key.Module,
			r.Key.Test,
			formatDuration(d),
			getResultString(r.Status),
			r.StatusMessage,
		})
	}

	if failed == 0 && broken == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		fmt.Sprintf("%d tests", len(results)),
		formatDuration(total),
		fmt.Sprintf("%d passed, %d failed, %d broken", passed, failed, broken),
		"",
	})

	t.Render()
	return nil
}

// getResultString returns a symbol-prefixed string representing the result
func getResultString(status types.Status) string {
	switch status {
	case types.StatusPassed:
		return "✓ passed"
	case types.StatusFailed:
		return "✗ failed"
	case types.StatusSkipped:
		return "- skipped"
	default:
		return "✗ broken"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
