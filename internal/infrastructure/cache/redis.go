package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/infrastructure/metrics"
)

const productKeyPrefix = "product:"

// RedisRepository stores product records as Redis hashes with TTL
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed product repository from a
// connection URL (redis://host:port/db).
func NewRedisRepository(redisURL string, ttl time.Duration) (*RedisRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return &RedisRepository{client: client, ttl: ttl}, nil
}

func productKey(productName string) string {
	return productKeyPrefix + normalizeKey(productName)
}

// Get retrieves a product record by name
func (r *RedisRepository) Get(ctx context.Context, productName string) (*domain.ProductRecord, error) {
	fields, err := r.client.HGetAll(ctx, productKey(productName)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrCacheMiss
	}

	record, err := recordFromFields(fields)
	if err != nil {
		return nil, err
	}

	metrics.ProductCacheHits.Inc()
	return record, nil
}

// Put stores a product record, replacing any existing entry for the same name
func (r *RedisRepository) Put(ctx context.Context, record *domain.ProductRecord) error {
	cachedAt := time.Now()
	key := productKey(record.Name)

	fields := map[string]interface{}{
		"name":         record.Name,
		"ingredients":  encodeIngredients(record.Ingredients),
		"safety_score": strconv.FormatFloat(record.SafetyScore, 'f', -1, 64),
		"category":     record.Category,
		"cached_at":    cachedAt.Format(time.RFC3339),
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Alternatives returns up to limit cached products with a safety score strictly
// below maxScore, excluding the named product, safest first.
func (r *RedisRepository) Alternatives(ctx context.Context, maxScore float64, exclude string, limit int) ([]domain.ProductRecord, error) {
	excludeKey := productKey(exclude)

	candidates := make([]domain.ProductRecord, 0)
	iter := r.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if key == excludeKey {
			continue
		}
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		record, err := recordFromFields(fields)
		if err != nil {
			continue
		}
		if record.SafetyScore < maxScore {
			candidates = append(candidates, *record)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
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
func (r *RedisRepository) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func recordFromFields(fields map[string]string) (*domain.ProductRecord, error) {
	score, err := strconv.ParseFloat(fields["safety_score"], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt safety score %q: %w", fields["safety_score"], err)
	}

	cachedAt, err := time.Parse(time.RFC3339, fields["cached_at"])
	if err != nil {
		cachedAt = time.Time{}
	}

	return &domain.ProductRecord{
		Name:        fields["name"],
		Ingredients: decodeIngredients(fields["ingredients"]),
		SafetyScore: score,
		Category:    fields["category"],
		CachedAt:    cachedAt,
	}, nil
}
