package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/branchreport/schema"
)

// Default values for configuration.
const (
	DefaultCloneTimeout = 5 * time.Minute
	DefaultSource       = "."
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the final, validated, and processed configuration.
type Config struct {
	Source         string // Local path or clone URL as given by the user
	IsLocal        bool   // Source resolved to an existing local directory
	Workers        int
	IncludeRemotes bool
	CloneDir       string // Empty means clone into a throwaway temp dir
	CloneTimeout   time.Duration
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in stderr headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds all possible inputs from files, env, and flags.
// Viper will unmarshal into this struct.
type ConfigRawInput struct {
	SourceStr string

	Workers          int    `mapstructure:"workers"`
	Remotes          bool   `mapstructure:"remotes"`
	CloneDir         string `mapstructure:"clone-dir"`
	CloneTimeout     string `mapstructure:"clone-timeout"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
}

// Clone returns a copy of the config that can be modified independently.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw input.
// It populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCloneSettings(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	ResolveSource(cfg, input.SourceStr)
	return nil
}

// ValidateDatabaseConnectionString validates the connection string for a database backend.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	return nil
}

// ParseBackend lowercases a backend name and treats empty as NoneBackend.
func ParseBackend(s string) schema.DatabaseBackend {
	if s == "" {
		return schema.NoneBackend
	}
	return schema.DatabaseBackend(strings.ToLower(s))
}

// validateSimpleInputs processes simple fields and validates them.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.IncludeRemotes = input.Remotes
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required when using parquet output")
	}

	return nil
}

// processCloneSettings parses the clone timeout and normalizes the clone directory.
func processCloneSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.CloneTimeout = DefaultCloneTimeout
	if input.CloneTimeout != "" {
		timeout, err := time.ParseDuration(input.CloneTimeout)
		if err != nil {
			return fmt.Errorf("invalid clone timeout '%s': %w", input.CloneTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("clone timeout must be positive (received %s)", input.CloneTimeout)
		}
		cfg.CloneTimeout = timeout
	}

	cfg.CloneDir = strings.TrimSpace(input.CloneDir)
	if cfg.CloneDir != "" {
		abs, err := filepath.Abs(cfg.CloneDir)
		if err != nil {
			return fmt.Errorf("invalid clone directory '%s': %w", input.CloneDir, err)
		}
		cfg.CloneDir = abs
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.HistoryBackend = ParseBackend(input.HistoryBackend)
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Clearing either store deletes its SQLite file, so the two must never coincide
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// ResolveSource decides whether the source is a local directory or a clone URL.
// Local directories are made absolute; anything else is passed through untouched.
func ResolveSource(cfg *Config, source string) {
	if source == "" {
		source = DefaultSource
	}
	cfg.Source = source
	cfg.IsLocal = false

	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return
	}
	cfg.IsLocal = true
	if abs, err := filepath.Abs(source); err == nil {
		cfg.Source = filepath.Clean(abs)
	}
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
