package domain

import "errors"

var (
	// ErrInvalidRequest is returned when the product name is empty or too short.
	// This is the only error the analysis operation propagates to the caller.
	ErrInvalidRequest = errors.New("product name must be a non-empty string of at least 2 characters")

	// ErrNoIngredientData is returned when extraction produced no usable ingredients.
	ErrNoIngredientData = errors.New("no ingredient data available")

	// ErrCacheMiss is returned when a product is not in the cache.
	ErrCacheMiss = errors.New("product not found in cache")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrScrapeFailure is returned for transport errors and non-200 responses
	// from the ingredient source. Always absorbed into a fallback tier.
	ErrScrapeFailure = errors.New("ingredient source request failed")

	// ErrNarrativeUnavailable is returned when the narrative service is not
	// configured or erroring. Callers substitute local fallback text.
	ErrNarrativeUnavailable = errors.New("narrative service unavailable")
)
