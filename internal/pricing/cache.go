package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const priceKeyPrefix = "pricelab:optimized:"

// PriceCache stores the most recent optimized price per product so the
// nightly reprice job's output can be served without recomputing.
type PriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPriceCache constructs a PriceCache.
func NewPriceCache(client *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{client: client, ttl: ttl}
}

// Put stores the optimized price for a product.
func (c *PriceCache) Put(ctx context.Context, productID int64, price float64) error {
	key := priceKeyPrefix + strconv.FormatInt(productID, 10)
	if err := c.client.Set(ctx, key, strconv.FormatFloat(price, 'f', 2, 64), c.ttl).Err(); err != nil {
		return fmt.Errorf("pricing: cache price: %w", err)
	}
	return nil
}

// Get returns the cached price and whether one was present.
func (c *PriceCache) Get(ctx context.Context, productID int64) (float64, bool, error) {
	key := priceKeyPrefix + strconv.FormatInt(productID, 10)
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("pricing: read cached price: %w", err)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("pricing: decode cached price: %w", err)
	}
	return price, true, nil
}
