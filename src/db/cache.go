package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures so all cached reads of one
// entity can be dropped when any row of that entity changes.
var (
	Cache                *ristretto.Cache
	TransactionCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	DebtCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Transaction Cache Functions
func SetTransactionCache(cacheKey string, value interface{}) {
	TransactionCacheKeys.Lock()
	TransactionCacheKeys.m[cacheKey] = struct{}{}
	TransactionCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllTransactionCaches() {
	TransactionCacheKeys.Lock()
	for key := range TransactionCacheKeys.m {
		Cache.Del(key)
	}
	TransactionCacheKeys.m = make(map[string]struct{})
	TransactionCacheKeys.Unlock()
}

// Debt Cache Functions
func SetDebtCache(cacheKey string, value interface{}) {
	DebtCacheKeys.Lock()
	DebtCacheKeys.m[cacheKey] = struct{}{}
	DebtCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllDebtCaches() {
	DebtCacheKeys.Lock()
	for key := range DebtCacheKeys.m {
		Cache.Del(key)
	}
	DebtCacheKeys.m = make(map[string]struct{})
	DebtCacheKeys.Unlock()
}
