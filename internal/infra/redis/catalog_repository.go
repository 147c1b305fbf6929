package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"solo-quiz-service/internal/domain"
)

// CatalogLoader fetches catalog content from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// CatalogRepository caches catalogs in Redis (JSON per catalog) and falls back
// to a loader on cache miss. Cached as: SET quiz:catalog:{catalogID} {json}.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	key := r.catalogKey(catalogID)

	if data, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var catalog domain.Catalog
		if err := json.Unmarshal(data, &catalog); err == nil {
			return catalog, nil
		}
		// corrupt entry: fall through and reload
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if data, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var catalog domain.Catalog
			if err := json.Unmarshal(data, &catalog); err == nil {
				return catalog, nil
			}
		}

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}

		if data, err := json.Marshal(catalog); err == nil {
			// best-effort write-through
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) catalogKey(catalogID string) string {
	return "quiz:catalog:" + catalogID
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
