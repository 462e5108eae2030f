// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/schema"
	"golang.org/x/term"
)

// PrintBranchReports outputs the branch report, dispatching based on the output format configured.
// The destination is cfg.OutputFile, or stdout when that is empty.
func PrintBranchReports(reports []schema.BranchReport, cfg *contract.Config, duration time.Duration) error {
	var successMsg string
	switch cfg.Output {
	case schema.TextOut:
		successMsg = "Wrote table"
	case schema.CSVOut:
		successMsg = "Wrote CSV"
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required when using parquet output")
		}
		successMsg = "Wrote Parquet"
	default:
		successMsg = "Wrote JSON"
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteBranchReports(w, reports, cfg, duration)
	}, successMsg, cfg.UseEmojis)
}

// PrintReportJSON writes an already serialized report followed by a newline.
// The destination is cfg.OutputFile, or stdout when that is empty.
func PrintReportJSON(text string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := io.WriteString(w, text+"\n")
		return err
	}, "Wrote JSON", cfg.UseEmojis)
}

// WriteBranchReports writes the branch report to w in the configured output format.
func WriteBranchReports(w io.Writer, reports []schema.BranchReport, cfg *contract.Config, duration time.Duration) error {
	if reports == nil {
		reports = []schema.BranchReport{}
	}

	switch cfg.Output {
	case schema.TextOut:
		if err := writeBranchTable(w, reports, cfg, duration, time.Now()); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVBranches(w, reports); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetBranches(w, reports); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// JSON is the default and matches the serialized report byte for byte
		if err := schema.EncodeBranchReports(w, reports); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	}
	return nil
}

// GetMaxTableNameWidth calculates the maximum width for branch names in table output
// based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Author + Committer + two timestamps + Status with borders/padding
	baseWidth := 20 + 20 + 22 + 22 + 12

	// Reserve space for table borders and separators
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
