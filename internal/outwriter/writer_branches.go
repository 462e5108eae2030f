package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/parquet"
	"github.com/huangsam/branchreport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// csvHeader mirrors the JSON keys of schema.BranchReport.
var csvHeader = []string{
	"name",
	"author",
	"committer",
	"first_commit_str",
	"last_commit_str",
	"first_commit_date",
	"last_commit_date",
}

// writeCSVBranches writes one CSV row per branch, in report order.
func writeCSVBranches(w io.Writer, reports []schema.BranchReport) error {
	return writeCSVWithHeader(w, csvHeader, func(cw *csv.Writer) error {
		for _, r := range reports {
			row := []string{
				r.Name,
				r.Author,
				r.Committer,
				r.FirstCommitStr,
				r.LastCommitStr,
				strconv.FormatInt(r.FirstCommitDate, 10),
				strconv.FormatInt(r.LastCommitDate, 10),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row for %s: %w", r.Name, err)
			}
		}
		return nil
	})
}

// writeParquetBranches writes the report as a single Parquet row group.
func writeParquetBranches(w io.Writer, reports []schema.BranchReport) error {
	return parquet.WriteBranches(w, parquet.ConvertBranchReports(reports))
}

// activityLabel renders the activity label of a branch, colored when enabled.
func activityLabel(r schema.BranchReport, cfg *contract.Config, now time.Time) string {
	label := schema.GetActivityLabel(r.LastCommitDate, now)
	if cfg.UseColors {
		return contract.GetColorLabel(label)
	}
	return string(label)
}

// writeBranchTable prints the report as a human-readable table using the tablewriter API.
func writeBranchTable(w io.Writer, reports []schema.BranchReport, cfg *contract.Config, duration time.Duration, now time.Time) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Branch", "Author", "Committer", "First Commit", "Last Commit", "Status"})

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	// 3. Prepare Data Rows
	maxNameWidth := GetMaxTableNameWidth(cfg)
	data := make([][]string, 0, len(reports))
	for _, r := range reports {
		data = append(data, []string{
			contract.TruncatePath(r.Name, maxNameWidth),
			r.Author,
			r.Committer,
			r.FirstCommitStr,
			r.LastCommitStr,
			activityLabel(r, cfg, now),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Showing %d branches\n", len(reports))
	_, _ = fmt.Fprintf(w, "Report completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}
