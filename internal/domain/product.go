package domain

import "time"

// ProductRecord is a previously resolved product as persisted by the cache.
type ProductRecord struct {
	Name        string    `json:"name"`
	Ingredients []string  `json:"ingredients"` // insertion order, deduplicated
	SafetyScore float64   `json:"safetyScore"`
	Category    string    `json:"category"`
	CachedAt    time.Time `json:"cachedAt,omitempty"`
}

// AnalyzeRequest is the body of an analysis request.
type AnalyzeRequest struct {
	ProductName string `json:"productName" binding:"required"`
}

// ClearCacheRequest carries the shared secret for the privileged cache-clear
// operation.
type ClearCacheRequest struct {
	Password string `json:"password" binding:"required"`
}
