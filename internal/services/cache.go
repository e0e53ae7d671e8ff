package services

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
)

type CacheItem struct {
	Location  models.GeoLocation
	ExpiresAt time.Time
}

// GeocodeCache remembers resolved coordinates so a dashboard refresh does not
// geocode every city again. Entries expire after a fixed duration and the
// soonest-expiring entry is evicted when the cache is full.
type GeocodeCache struct {
	mu              sync.RWMutex
	items           map[string]CacheItem
	logger          *zap.Logger
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

func NewGeocodeCache(defaultDuration time.Duration, maxSize int, logger *zap.Logger) *GeocodeCache {
	cache := &GeocodeCache{
		items:           make(map[string]CacheItem),
		logger:          logger,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go cache.startCleanup()

	return cache
}

func cacheKey(city, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(country))
}

func (c *GeocodeCache) Set(city, country string, loc models.GeoLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(city, country)
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	expiresAt := time.Now().Add(c.defaultDuration)
	c.items[key] = CacheItem{
		Location:  loc,
		ExpiresAt: expiresAt,
	}

	c.logger.Debug("Geocode cached",
		zap.String("city", city),
		zap.String("country", country),
		zap.Time("expires_at", expiresAt))
}

func (c *GeocodeCache) Get(city, country string) (models.GeoLocation, bool) {
	key := cacheKey(city, country)

	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return models.GeoLocation{}, false
	}

	if time.Now().After(item.ExpiresAt) {
		c.deleteIfExpired(key)
		return models.GeoLocation{}, false
	}

	return item.Location, true
}

// deleteIfExpired re-checks under the write lock so an entry refreshed by a
// concurrent Set survives.
func (c *GeocodeCache) deleteIfExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists && time.Now().After(item.ExpiresAt) {
		delete(c.items, key)
	}
}

func (c *GeocodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *GeocodeCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
		c.logger.Debug("Evicted oldest geocode from cache", zap.String("key", oldestKey))
	}
}

func (c *GeocodeCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *GeocodeCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned expired cache items", zap.Int("count", expiredCount))
	}
}

func (c *GeocodeCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}
