package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/branchreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation; tests mutate a copy.
func validInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	return &ConfigRawInput{
		SourceStr:      t.TempDir(),
		Workers:        4,
		Output:         "json",
		CacheBackend:   "none",
		HistoryBackend: "",
		Emoji:          "no",
		Color:          "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: "workers must be greater than 0"},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: "width cannot be negative"},
		{name: "unknown output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "--output-file is required"},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "bad emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "sometimes" }, expectError: "invalid --emoji value"},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: "invalid --color value"},
		{name: "bad clone timeout", mutate: func(in *ConfigRawInput) { in.CloneTimeout = "soon" }, expectError: "invalid clone timeout"},
		{name: "non-positive clone timeout", mutate: func(in *ConfigRawInput) { in.CloneTimeout = "0s" }, expectError: "clone timeout must be positive"},
		{name: "unknown cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: "invalid cache backend"},
		{name: "unknown history backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, expectError: "invalid history backend"},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: "connection string is required"},
		{
			name: "shared sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.HistoryBackend = "sqlite"
				in.CacheDBConnect = "/tmp/same.db"
				in.HistoryDBConnect = "/tmp/same.db"
			},
			expectError: "must use different SQLite database files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(t)
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateValues(t *testing.T) {
	input := validInput(t)
	input.Output = "TEXT"
	input.Remotes = true
	input.CloneTimeout = "90s"
	input.CloneDir = "clones"
	input.HistoryBackend = "SQLite"
	input.HistoryDBConnect = filepath.Join(t.TempDir(), "history.db")

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.IncludeRemotes)
	assert.Equal(t, 90*time.Second, cfg.CloneTimeout)
	assert.True(t, filepath.IsAbs(cfg.CloneDir))
	assert.Equal(t, "clones", filepath.Base(cfg.CloneDir))
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.False(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, 4, cfg.Workers)
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput(t)

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, DefaultCloneTimeout, cfg.CloneTimeout)
	assert.Empty(t, cfg.CloneDir)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
}

func TestResolveSource(t *testing.T) {
	t.Run("existing directory is local and absolute", func(t *testing.T) {
		dir := t.TempDir()
		cfg := &Config{}
		ResolveSource(cfg, dir)
		assert.True(t, cfg.IsLocal)
		assert.Equal(t, filepath.Clean(dir), cfg.Source)
	})

	t.Run("empty source defaults to current directory", func(t *testing.T) {
		cfg := &Config{}
		ResolveSource(cfg, "")
		assert.True(t, cfg.IsLocal)
		assert.True(t, filepath.IsAbs(cfg.Source))
	})

	t.Run("url is passed through untouched", func(t *testing.T) {
		cfg := &Config{}
		ResolveSource(cfg, "https://github.com/inherd/coco.git")
		assert.False(t, cfg.IsLocal)
		assert.Equal(t, "https://github.com/inherd/coco.git", cfg.Source)
	})

	t.Run("missing path is not local", func(t *testing.T) {
		cfg := &Config{}
		ResolveSource(cfg, filepath.Join(t.TempDir(), "missing"))
		assert.False(t, cfg.IsLocal)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/branchreport", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/branchreport", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=postgres", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=postgres", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"unknown backend", schema.DatabaseBackend("redis"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Source: "/repo", Workers: 2}
	clone := cfg.Clone()
	clone.Source = "/other"
	assert.Equal(t, "/repo", cfg.Source)
	assert.Equal(t, 2, clone.Workers)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "br"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "br", profile.Prefix)
}
