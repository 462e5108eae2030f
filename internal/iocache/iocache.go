// Package iocache persists enumeration results and report history in SQL databases.
package iocache

import (
	"sync"

	"github.com/huangsam/branchreport/internal/contract"
)

// CacheStoreManager manages the branch cache and report history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	branch       contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetBranchStore returns the branch CacheStore, or nil when caching is off.
func (mgr *CacheStoreManager) GetBranchStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.branch
}

// GetHistoryStore returns the HistoryStore, or nil when history is off.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
