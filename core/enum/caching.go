package enum

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/schema"
)

// currentCacheVersion defines the version of the cache schema.
const currentCacheVersion = 1

// cacheTTL bounds how long a cached enumeration is trusted.
const cacheTTL = 7 * 24 * time.Hour

// CachedListBranches behaves like ListBranches but consults the branch cache first.
// Any change to a branch tip changes the key, so stale entries are never served.
func CachedListBranches(ctx context.Context, client contract.GitClient, repoPath string, opts Options, mgr contract.CacheManager) ([]schema.BranchActivity, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetBranchStore()
	}
	if store == nil {
		// Fallback to direct computation
		return ListBranches(ctx, client, repoPath, opts)
	}

	out, err := client.ListBranchRefs(ctx, repoPath, opts.IncludeRemotes)
	if err != nil {
		return nil, fmt.Errorf("failed to list branch refs: %w", err)
	}

	key := generateCacheKey(repoPath, opts, out)
	if result, ok := checkCacheHit(store, key); ok {
		return result, nil
	}

	result, err := collectBranches(ctx, client, repoPath, parseBranchRefs(out), opts.Workers)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to store branch cache entry", err)
		}
	}
	return result, nil
}

// checkCacheHit attempts to retrieve and validate a cached result.
func checkCacheHit(store contract.CacheStore, key string) ([]schema.BranchActivity, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil, false // Cache miss
	}

	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil, false // Stale or version mismatch
	}

	var result []schema.BranchActivity
	if err := json.Unmarshal(data, &result); err != nil || result == nil {
		return nil, false
	}
	return result, true
}

// generateCacheKey hashes the source identity, the remotes flag and the ref listing.
func generateCacheKey(repoPath string, opts Options, refsOut []byte) string {
	source := opts.Source
	if source == "" {
		source = repoPath
	}
	key := fmt.Sprintf("%s:%t:%s", source, opts.IncludeRemotes, refsOut)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
