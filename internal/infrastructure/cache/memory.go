package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/infrastructure/metrics"
)

// cacheItem holds a product record with its expiration time
type cacheItem struct {
	Record     domain.ProductRecord
	Expiration time.Time
}

// MemoryRepository is a thread-safe in-memory product store with TTL support
type MemoryRepository struct {
	data  map[string]cacheItem
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewMemoryRepository creates a new in-memory product repository
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	repo := &MemoryRepository{
		data: make(map[string]cacheItem),
		ttl:  ttl,
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go repo.cleanupExpired()

	return repo
}

// Get retrieves a product record by name
func (r *MemoryRepository) Get(ctx context.Context, productName string) (*domain.ProductRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[normalizeKey(productName)]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	metrics.ProductCacheHits.Inc()
	record := item.Record
	return &record, nil
}

// Put stores a product record, replacing any existing entry for the same name
func (r *MemoryRepository) Put(ctx context.Context, record *domain.ProductRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *record
	stored.CachedAt = time.Now()
	r.data[normalizeKey(stored.Name)] = cacheItem{
		Record:     stored,
		Expiration: time.Now().Add(r.ttl),
	}

	return nil
}

// Alternatives returns up to limit cached products with a safety score strictly
// below maxScore, excluding the named product, safest first.
func (r *MemoryRepository) Alternatives(ctx context.Context, maxScore float64, exclude string, limit int) ([]domain.ProductRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	excludeKey := normalizeKey(exclude)
	now := time.Now()

	candidates := make([]domain.ProductRecord, 0)
	for key, item := range r.data {
		if key == excludeKey || now.After(item.Expiration) {
			continue
		}
		if item.Record.SafetyScore < maxScore {
			candidates = append(candidates, item.Record)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].SafetyScore < candidates[j].SafetyScore
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Clear removes all product records
func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.data = make(map[string]cacheItem)
	return nil
}

// Size returns the current number of records (for debugging/monitoring)
func (r *MemoryRepository) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.data)
}

// cleanupExpired removes expired entries periodically
func (r *MemoryRepository) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mutex.Lock()
		now := time.Now()
		for key, item := range r.data {
			if now.After(item.Expiration) {
				delete(r.data, key)
			}
		}
		r.mutex.Unlock()
	}
}
