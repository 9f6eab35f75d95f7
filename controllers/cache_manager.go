package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-backend/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCachePrefix     = "product:detail:"
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"

	defaultCacheTTL = 5 * time.Minute
)

// CacheManager handles the Redis read-through cache for catalog reads. List
// keys are versioned: bumping the version on any stock-changing write makes
// every cached list stale at once.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(rdb *redis.Client) *CacheManager {
	return &CacheManager{redis: rdb, ttl: defaultCacheTTL}
}

type productListPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// GetProductList retrieves a cached product list page.
func (cm *CacheManager) GetProductList(ctx context.Context, page, limit int) ([]models.Product, int64, bool) {
	if cm == nil || cm.redis == nil {
		return nil, 0, false
	}
	version, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		return nil, 0, false
	}

	key := fmt.Sprintf("%s%d:p%d:l%d", productListCachePrefix, version, page, limit)
	cached, err := cm.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, 0, false
	}

	var entry productListPage
	if err := json.Unmarshal([]byte(cached), &entry); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, 0, false
	}
	return entry.Products, entry.Total, true
}

// SetProductList caches a product list page under the current version.
func (cm *CacheManager) SetProductList(ctx context.Context, page, limit int, products []models.Product, total int64) {
	if cm == nil || cm.redis == nil {
		return
	}
	version, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		version = 1
		cm.redis.Set(ctx, cacheVersionKey, version, 0)
	}

	data, err := json.Marshal(productListPage{Products: products, Total: total})
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s%d:p%d:l%d", productListCachePrefix, version, page, limit)
	cm.redis.Set(ctx, key, data, cm.ttl)
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}
	cached, err := cm.redis.Get(ctx, productCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProduct caches a product detail.
func (cm *CacheManager) SetProduct(ctx context.Context, product *models.Product) {
	if cm == nil || cm.redis == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	cm.redis.Set(ctx, productCachePrefix+product.ID.String(), data, cm.ttl)
}

// Invalidate drops the detail entries for the given products and bumps the
// list version. Called after order creation decrements stock. Best-effort:
// a missed invalidation only means staleness until the TTL expires.
func (cm *CacheManager) Invalidate(ctx context.Context, productIDs []string) {
	if cm == nil || cm.redis == nil {
		return
	}
	for _, id := range productIDs {
		cm.redis.Del(ctx, productCachePrefix+id)
	}
	if err := cm.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to bump product cache version", zap.Error(err))
	}
}
