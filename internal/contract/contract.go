// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/branchreport/schema"
)

// GitClient defines the git operations needed to report on branches.
// This allows the enumeration logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its standard output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// CloneMirror mirrors the repository at url into dest, which must not exist yet.
	CloneMirror(ctx context.Context, url string, dest string) error

	// UpdateMirror refreshes every ref of a mirror created by CloneMirror.
	UpdateMirror(ctx context.Context, repoPath string) error

	// --- Branch Data ---

	// ListBranchRefs returns the raw for-each-ref output for local branches,
	// plus remote-tracking branches when includeRemotes is set.
	ListBranchRefs(ctx context.Context, repoPath string, includeRemotes bool) ([]byte, error)

	// GetBranchLog returns the raw commit log (timestamp, author, committer) reachable from ref.
	GetBranchLog(ctx context.Context, repoPath string, ref string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetBranchStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and the branches they produced.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, source string, repoPath string) (int64, error)

	// RecordBranches stores the report rows produced by a run
	RecordBranches(runID int64, reports []schema.BranchReport) error

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, totalBranches int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllBranches returns every recorded branch row ordered by run and name
	GetAllBranches() ([]schema.BranchRecord, error)

	// Close closes the underlying connection
	Close() error
}
