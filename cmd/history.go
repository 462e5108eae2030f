package cmd

import (
	"fmt"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// When initStores is false, no store is opened and no tables are created,
// which lets migrations run against a fresh database.
func historySetup(initStores bool) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Empty backend is treated as NoneBackend
	backend := contract.ParseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if initStores {
		// No branch caching for history commands
		if err := iocache.InitStores("", "", backend, connStr); err != nil {
			return fmt.Errorf("failed to initialize history: %w", err)
		}
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyCmd focused on report history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by the report command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded report runs and exports",
	Long: `Manage the history of branch reports.

When --history-backend is set, every successful report is recorded:
- Run metadata (source, resolved path, start/end time, duration)
- One row per reported branch

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export history to Parquet for analytics
  clear   - Remove all recorded history
  migrate - Run database schema migrations`,
}

// historyClearCmd clears the report history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded report history",
	Long: `Delete all recorded report runs and branch rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  branchreport history export --output-file backup
  branchreport history clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historySetup(false)
	},
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := sqliteFilePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear report history", err)
		}
		fmt.Println("Report history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display report history statistics and connection details",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historySetup(true)
	},
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports report history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report history to Parquet files",
	Long: `Export recorded report runs and branches to two Parquet files:

  <output-file>.runs.parquet
  <output-file>.branches.parquet

Examples:
  branchreport history export --output-file history`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historySetup(true)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export report history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run report history schema migrations",
	Long: `Apply or roll back the report history schema.

Examples:
  # Migrate to latest version (default)
  branchreport history migrate

  # Migrate to specific version
  branchreport history migrate --target-version 1

  # Rollback to initial state
  branchreport history migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return historySetup(false)
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
