// Package parquet provides data structures and functions for exporting branch
// reports and report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/branchreport/schema"
	"github.com/parquet-go/parquet-go"
)

// Branch is one row of a branch report.
type Branch struct {
	Name            string `parquet:"name,snappy"`
	Author          string `parquet:"author,snappy"`
	Committer       string `parquet:"committer,snappy"`
	FirstCommitStr  string `parquet:"first_commit_str,snappy"`
	LastCommitStr   string `parquet:"last_commit_str,snappy"`
	FirstCommitDate int64  `parquet:"first_commit_date,snappy"`
	LastCommitDate  int64  `parquet:"last_commit_date,snappy"`
}

// ReportRun represents a single report run with metadata.
// This struct maps to the branchreport_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Source is the path or URL the report was built from
	Source string `parquet:"source,snappy"`

	// RepoPath is the resolved directory git ran against
	RepoPath string `parquet:"repo_path,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalBranches is the number of branches reported in this run
	TotalBranches int32 `parquet:"total_branches,snappy"`
}

// BranchRecord is a branch row tied to the run that reported it.
// This struct maps to the branchreport_branches database table.
type BranchRecord struct {
	RunID           int64  `parquet:"run_id,snappy"`
	Name            string `parquet:"branch_name,snappy"`
	Author          string `parquet:"author,snappy"`
	Committer       string `parquet:"committer,snappy"`
	FirstCommitStr  string `parquet:"first_commit_str,snappy"`
	LastCommitStr   string `parquet:"last_commit_str,snappy"`
	FirstCommitDate int64  `parquet:"first_commit_date,snappy"`
	LastCommitDate  int64  `parquet:"last_commit_date,snappy"`
}

// writeRows writes data to w with a schema derived from the struct tags of T.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes data to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return writeRows(file, data)
}

// WriteBranches writes branch report rows to w.
func WriteBranches(w io.Writer, data []Branch) error {
	return writeRows(w, data)
}

// WriteRunsParquet writes report runs to a Parquet file.
func WriteRunsParquet(data []ReportRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteBranchRecordsParquet writes recorded branches to a Parquet file.
func WriteBranchRecordsParquet(data []BranchRecord, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertBranchReports converts schema.BranchReport to Branch rows, keeping order.
func ConvertBranchReports(reports []schema.BranchReport) []Branch {
	result := make([]Branch, len(reports))
	for i, r := range reports {
		result[i] = Branch{
			Name:            r.Name,
			Author:          r.Author,
			Committer:       r.Committer,
			FirstCommitStr:  r.FirstCommitStr,
			LastCommitStr:   r.LastCommitStr,
			FirstCommitDate: r.FirstCommitDate,
			LastCommitDate:  r.LastCommitDate,
		}
	}
	return result
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:         record.RunID,
			Source:        record.Source,
			RepoPath:      record.RepoPath,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalBranches: record.TotalBranches,
		}
	}
	return result
}

// ConvertBranchRecords converts schema.BranchRecord to BranchRecord for Parquet export.
func ConvertBranchRecords(records []schema.BranchRecord) []BranchRecord {
	result := make([]BranchRecord, len(records))
	for i, record := range records {
		result[i] = BranchRecord{
			RunID:           record.RunID,
			Name:            record.Name,
			Author:          record.Author,
			Committer:       record.Committer,
			FirstCommitStr:  record.FirstCommitStr,
			LastCommitStr:   record.LastCommitStr,
			FirstCommitDate: record.FirstCommitDate,
			LastCommitDate:  record.LastCommitDate,
		}
	}
	return result
}
