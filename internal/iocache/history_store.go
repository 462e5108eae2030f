package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/schema"
)

// Table names for report history.
const (
	runsTable     = "branchreport_runs"
	branchesTable = "branchreport_branches"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{runsTable, branchesTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the history tables when missing.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		runsTable:     getCreateRunsQuery(backend),
		branchesTable: getCreateBranchesQuery(backend),
	}
	for _, table := range historyTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for branchreport_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				source TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				total_branches INT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				source TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				total_branches INT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				source TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_branches INTEGER
			);
		`, quotedTableName)
	}
}

// getCreateBranchesQuery returns the CREATE TABLE query for branchreport_branches.
func getCreateBranchesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(branchesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				branch_name VARCHAR(255) NOT NULL,
				author VARCHAR(255) NOT NULL,
				committer VARCHAR(255) NOT NULL,
				first_commit_date BIGINT NOT NULL,
				last_commit_date BIGINT NOT NULL,
				first_commit_str VARCHAR(32) NOT NULL,
				last_commit_str VARCHAR(32) NOT NULL,
				PRIMARY KEY (run_id, branch_name)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				branch_name TEXT NOT NULL,
				author TEXT NOT NULL,
				committer TEXT NOT NULL,
				first_commit_date BIGINT NOT NULL,
				last_commit_date BIGINT NOT NULL,
				first_commit_str TEXT NOT NULL,
				last_commit_str TEXT NOT NULL,
				PRIMARY KEY (run_id, branch_name)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				branch_name TEXT NOT NULL,
				author TEXT NOT NULL,
				committer TEXT NOT NULL,
				first_commit_date INTEGER NOT NULL,
				last_commit_date INTEGER NOT NULL,
				first_commit_str TEXT NOT NULL,
				last_commit_str TEXT NOT NULL,
				PRIMARY KEY (run_id, branch_name)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, source, repoPath string) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (source, repo_path, start_time) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, source, repoPath, startTime).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (source, repo_path, start_time) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, source, repoPath, formatTime(startTime, hs.backend))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// RecordBranches stores every branch of a run in a single transaction.
func (hs *HistoryStoreImpl) RecordBranches(runID int64, reports []schema.BranchReport) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(reports) == 0 {
		return nil
	}

	placeholders := make([]string, 8)
	for i := range placeholders {
		placeholders[i] = placeholder(hs.backend, i+1)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, branch_name, author, committer, first_commit_date, last_commit_date, first_commit_str, last_commit_str)
		VALUES (%s)
	`, quoteTableName(branchesTable, hs.backend), strings.Join(placeholders, ", "))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare branch insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range reports {
		if _, err := stmt.Exec(runID, r.Name, r.Author, r.Committer,
			r.FirstCommitDate, r.LastCommitDate, r.FirstCommitStr, r.LastCommitStr); err != nil {
			return fmt.Errorf("failed to insert branch %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit branches: %w", err)
	}
	return nil
}

// EndRun updates the report run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalBranches int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	// First, get the start_time to calculate duration
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	startTime, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_branches = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalBranches, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// scanTime reads a single time column. SQLite stores RFC3339 text;
// MySQL and PostgreSQL store native datetimes.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)
	if err := hs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		idQuery := fmt.Sprintf("SELECT MAX(run_id) FROM %s", quotedRuns)
		if err := hs.db.QueryRow(idQuery).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		lastRunTime, err := hs.scanTime(hs.db.QueryRow(lastQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(oldestQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		branchesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_branches), 0) FROM %s", quotedRuns)
		if err := hs.db.QueryRow(branchesQuery).Scan(&status.TotalBranches); err != nil {
			return status, fmt.Errorf("failed to get total branches: %w", err)
		}
	}

	for _, table := range historyTables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all report runs ordered by run id.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, source, repo_path, start_time, end_time, run_duration_ms, COALESCE(total_branches, 0)
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.Source, &record.RepoPath, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TotalBranches); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Source, &record.RepoPath, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalBranches); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllBranches retrieves all recorded branches ordered by run id and branch name.
func (hs *HistoryStoreImpl) GetAllBranches() ([]schema.BranchRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, branch_name, author, committer, first_commit_str, last_commit_str,
		first_commit_date, last_commit_date FROM %s ORDER BY run_id, branch_name`, quoteTableName(branchesTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.BranchRecord
	for rows.Next() {
		var record schema.BranchRecord
		if err := rows.Scan(&record.RunID, &record.Name, &record.Author, &record.Committer,
			&record.FirstCommitStr, &record.LastCommitStr, &record.FirstCommitDate, &record.LastCommitDate); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branches: %w", err)
	}
	return results, nil
}
