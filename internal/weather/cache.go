// In file: internal/weather/cache.go
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/version"

	"github.com/redis/go-redis/v9"
)

const (
	coordinatesCachePrefix = "geocode"
	DefaultCoordinatesTTL  = 7 * 24 * time.Hour
)

// CachedGeocoder memoizes coordinate lookups in Redis.
//
// Redis errors are logged and treated as cache misses so a Redis outage never
// fails a request. Only successful lookups are stored; a LocationNotFound
// answer always goes back to the provider.
type CachedGeocoder struct {
	inner Geocoder
	rdb   *redis.Client
	ttl   time.Duration
}

var _ Geocoder = (*CachedGeocoder)(nil)

func NewCachedGeocoder(inner Geocoder, rdb *redis.Client, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultCoordinatesTTL
	}
	return &CachedGeocoder{inner: inner, rdb: rdb, ttl: ttl}
}

func (g *CachedGeocoder) ResolveCoordinates(ctx context.Context, place string) (Coordinates, error) {
	key := version.GenerateVersionedCacheKey(coordinatesCachePrefix, place)

	cached, err := g.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var coords Coordinates
		jsonErr := json.Unmarshal(cached, &coords)
		if jsonErr == nil {
			log.Printf("✅ Coordinates cache HIT for '%s'", place)
			return coords, nil
		}
		log.Printf("WARNING: Discarding unreadable cached coordinates for '%s': %v", place, jsonErr)
	case errors.Is(err, redis.Nil):
		log.Printf("⚠️ Coordinates cache MISS for '%s'", place)
	default:
		log.Printf("WARNING: Redis GET error for coordinates cache: %v", err)
	}

	coords, err := g.inner.ResolveCoordinates(ctx, place)
	if err != nil {
		return Coordinates{}, err
	}

	if payload, err := json.Marshal(coords); err == nil {
		if err := g.rdb.Set(ctx, key, payload, g.ttl).Err(); err != nil {
			log.Printf("WARNING: Redis SET error for coordinates cache: %v", err)
		}
	}
	return coords, nil
}
