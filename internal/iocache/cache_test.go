package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/branchreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetStores clears the global init state so each test starts fresh.
func resetStores(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite cache and history", func(t *testing.T) {
		resetStores(t)
		tmpDir := t.TempDir()
		cachePath := filepath.Join(tmpDir, "cache.db")
		historyPath := filepath.Join(tmpDir, "history.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err, "Failed to initialize stores")

		assert.NotNil(t, Manager.GetBranchStore(), "Branch store should not be nil")
		assert.NotNil(t, Manager.GetHistoryStore(), "History store should not be nil")

		CloseStores()

		// Verify database files were created
		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "Cache database file should be created")
		_, err = os.Stat(historyPath)
		assert.NoError(t, err, "History database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetStores(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, "", ""))
		assert.NoError(t, InitStores(schema.MySQLBackend, "invalid", "", ""), "Later calls are no-ops")

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("empty backends leave stores unset", func(t *testing.T) {
		resetStores(t)

		require.NoError(t, InitStores("", "", "", ""))
		assert.Nil(t, Manager.GetBranchStore())
		assert.Nil(t, Manager.GetHistoryStore())
	})

	t.Run("none backend", func(t *testing.T) {
		resetStores(t)

		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

		store := Manager.GetBranchStore()
		require.NotNil(t, store, "None backend still yields a no-op store")
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("invalid connection string", func(t *testing.T) {
		resetStores(t)

		// This should fail during database connection
		err := InitStores(schema.MySQLBackend, "invalid://connection", "", "")
		assert.ErrorContains(t, err, "failed to initialize branch caching")
		assert.Nil(t, Manager.GetBranchStore())
	})

	t.Run("history failure closes cache", func(t *testing.T) {
		resetStores(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		err := InitStores(schema.SQLiteBackend, cachePath, "unsupported", "")
		assert.ErrorContains(t, err, "failed to initialize history store")
		assert.Nil(t, Manager.GetBranchStore())
	})
}

// TestValidateTableName tests the validateTableName function with various inputs.
func TestCacheStoreManagerZeroValue(t *testing.T) {
	mgr := &CacheStoreManager{}
	assert.Nil(t, mgr.GetBranchStore())
	assert.Nil(t, mgr.GetHistoryStore())
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "branch_cache", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid name starting with underscore", "_test_table", false},
		{"valid mixed case", "TestTable_123", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "test-table", true},
		{"contains space", "test table", true},
		{"sql injection attempt", "test'; DROP TABLE users; --", true},
		{"contains dot", "test.table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		want    string
	}{
		{"SQLite backend", schema.SQLiteBackend, `"branch_cache"`},
		{"MySQL backend", schema.MySQLBackend, "`branch_cache`"},
		{"PostgreSQL backend", schema.PostgreSQLBackend, `"branch_cache"`},
		{"None backend defaults to SQLite style", schema.NoneBackend, `"branch_cache"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("branch_cache", tt.backend))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "$1", placeholder(schema.PostgreSQLBackend, 1))
	assert.Equal(t, "$4", placeholder(schema.PostgreSQLBackend, 4))
}

func TestDriverNameFor(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "sqlite", false},
		{schema.MySQLBackend, "mysql", false},
		{schema.PostgreSQLBackend, "pgx", false},
		{schema.NoneBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			got, err := driverNameFor(tt.backend)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSQLiteBackendOperations tests the full lifecycle of SQLite backend operations.
func TestSQLiteBackendOperations(t *testing.T) {
	newStore := func(t *testing.T) *CacheStoreImpl {
		t.Helper()
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err, "Failed to create SQLite store")
		t.Cleanup(func() { _ = store.Close() })
		return store
	}

	t.Run("set and get operations", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set("test_key", []byte("test_value_data"), 1, 1234567890))

		value, version, timestamp, err := store.Get("test_key")
		require.NoError(t, err)
		assert.Equal(t, "test_value_data", string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1234567890), timestamp)
	})

	t.Run("upsert behavior", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set("upsert_key", []byte("initial_value"), 1, 1000))
		require.NoError(t, store.Set("upsert_key", []byte("updated_value"), 2, 2000))

		value, version, timestamp, err := store.Get("upsert_key")
		require.NoError(t, err)
		assert.Equal(t, "updated_value", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), timestamp)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		store := newStore(t)

		_, _, _, err := store.Get("non_existent_key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("status", func(t *testing.T) {
		store := newStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("x"), 1, 1000))
		require.NoError(t, store.Set("b", []byte("y"), 1, 3000))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, int64(1000), status.OldestEntryTime.Unix())
		assert.Equal(t, int64(3000), status.LastEntryTime.Unix())
		assert.Positive(t, status.TableSizeBytes)
	})
}

func TestNoneBackendOperations(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err, "Failed to create none backend store")

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get on none backend")

	assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789), "Set is a no-op")

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get after Set on none backend")

	assert.NoError(t, store.Close())
}

// TestGetUpsertQuery tests the getUpsertQuery method for different backends.
func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		name         string
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{"SQLite backend", schema.SQLiteBackend, []string{"INSERT OR REPLACE", `"test_table"`}},
		{"MySQL backend", schema.MySQLBackend, []string{"INSERT INTO", "ON DUPLICATE KEY UPDATE", "`test_table`"}},
		{"PostgreSQL backend", schema.PostgreSQLBackend, []string{"ON CONFLICT", "DO UPDATE SET", `"test_table"`, "$1", "$4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &CacheStoreImpl{backend: tt.backend, tableName: "test_table"}
			got := store.getUpsertQuery()
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want, "getUpsertQuery() should contain %q", want)
			}
		})
	}
}

// TestGetCreateTableQuery tests the getCreateTableQuery function for different backends.
func TestGetCreateTableQuery(t *testing.T) {
	tests := []struct {
		name         string
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{"SQLite backend", schema.SQLiteBackend, []string{"CREATE TABLE IF NOT EXISTS", "cache_value BLOB", "cache_timestamp INTEGER"}},
		{"MySQL backend", schema.MySQLBackend, []string{"cache_key VARCHAR(255) PRIMARY KEY", "cache_value LONGBLOB", "cache_timestamp BIGINT"}},
		{"PostgreSQL backend", schema.PostgreSQLBackend, []string{"cache_key TEXT PRIMARY KEY", "cache_value BYTEA", "cache_version INTEGER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getCreateTableQuery("test_table", tt.backend)
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want, "getCreateTableQuery() should contain %q", want)
			}
		})
	}
}

// TestNewCacheStoreErrors tests error scenarios in NewCacheStore.
func TestNewCacheStoreErrors(t *testing.T) {
	t.Run("invalid table name", func(t *testing.T) {
		_, err := NewCacheStore("invalid-name", schema.SQLiteBackend, "")
		assert.Error(t, err)
	})

	t.Run("empty table name", func(t *testing.T) {
		_, err := NewCacheStore("", schema.SQLiteBackend, "")
		assert.Error(t, err)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewCacheStore("test_table", "unsupported", "")
		assert.ErrorContains(t, err, "unsupported cache backend")
	})
}

// TestClearCache tests the ClearCache function.
func TestClearCache(t *testing.T) {
	t.Run("SQLite backend", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test_clear.db")

		store, err := NewCacheStore(branchTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Set("k", []byte("v"), 1, 1))
		require.NoError(t, store.Close())

		_, err = os.Stat(dbPath)
		require.NoError(t, err, "Database file should exist before ClearCache")

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))

		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err), "Database file should be removed after ClearCache")
	})

	t.Run("SQLite backend - non-existent file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "non_existent.db")
		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("NoneBackend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("empty dbFilePath for SQLite", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.ErrorContains(t, ClearCache("unsupported", "", ""), "unsupported backend for clearing")
	})
}

// TestCacheStoreManagerConcurrency tests concurrent access to CacheStoreManager.
func TestCacheStoreManagerConcurrency(t *testing.T) {
	resetStores(t)
	require.NoError(t, InitStores(schema.SQLiteBackend, ":memory:", "", ""))

	const numGoroutines = 10
	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			store := Manager.GetBranchStore()
			if !assert.NotNil(t, store, "Goroutine %d: GetBranchStore returned nil", id) {
				return
			}
			assert.NoError(t, store.Set("concurrent_key", []byte("value"), 1, int64(1000+id)))
		}(i)
	}
	wg.Wait()

	_, version, _, err := Manager.GetBranchStore().Get("concurrent_key")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestCacheStoreImplWithNilDB(t *testing.T) {
	store := &CacheStoreImpl{backend: schema.SQLiteBackend, tableName: "test_table"}

	_, _, _, err := store.Get("key")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("key", []byte("v"), 1, 1))
	assert.NoError(t, store.Close())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
