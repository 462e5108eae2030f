package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/parquet"
)

// ExecuteHistoryExport writes the history of store to <outputFile>.runs.parquet
// and <outputFile>.branches.parquet.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total report runs: %d\n", status.TotalRuns)
	fmt.Printf("Total branch records: %d\n", status.TableSizes[branchesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}

	branches, err := store.GetAllBranches()
	if err != nil {
		return fmt.Errorf("failed to retrieve branches: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	runRows := parquet.ConvertReportRunRecords(runs)
	if err := parquet.WriteRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	fmt.Printf("Exported %d report runs to: %s\n", len(runRows), runsFile)

	branchesFile := outputFile + ".branches.parquet"
	branchRows := parquet.ConvertBranchRecords(branches)
	if err := parquet.WriteBranchRecordsParquet(branchRows, branchesFile); err != nil {
		return fmt.Errorf("failed to write branches: %w", err)
	}
	fmt.Printf("Exported %d branch records to: %s\n", len(branchRows), branchesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	return nil
}
