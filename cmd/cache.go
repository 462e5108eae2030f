package cmd

import (
	"fmt"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup(initStores bool) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := contract.ParseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if initStores {
		// No history tracking for cache commands
		if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// sqliteFilePath returns the SQLite file a store uses: the connection string when set, else the default.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the report command.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the branch enumeration cache",
	Long: `Manage the cache that stores branch enumeration results.

Entries are keyed by the source and the exact set of branch tips, so any
new commit, branch or deletion produces a fresh entry.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached branch data",
	Long: `Delete all cached branch enumeration data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  branchreport cache clear
  BRANCHREPORT_CACHE_BACKEND=mysql BRANCHREPORT_CACHE_DB_CONNECT="..." branchreport cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup(false)
	},
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := sqliteFilePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath())
		if err := iocache.ClearCache(cfg.CacheBackend, dbFilePath, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup(true)
	},
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetBranchStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache store is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
