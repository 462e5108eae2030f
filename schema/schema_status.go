package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the report history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalBranches int              `json:"total_branches"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ReportRunRecord represents a row from the branchreport_runs table.
type ReportRunRecord struct {
	RunID         int64
	Source        string
	RepoPath      string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalBranches int32
}

// BranchRecord represents a row from the branchreport_branches table.
type BranchRecord struct {
	RunID int64
	BranchReport
}
