package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// ActivityLabel represents how recently a branch saw a commit.
	ActivityLabel string
)

// All output modes supported.
const (
	JSONOut    OutputMode = "json" // default
	TextOut    OutputMode = "text"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Activity labels for the text table.
const (
	ActiveLabel  ActivityLabel = "Active"
	RecentLabel  ActivityLabel = "Recent"
	StaleLabel   ActivityLabel = "Stale"
	DormantLabel ActivityLabel = "Dormant"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	JSONOut:    {},
	TextOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
