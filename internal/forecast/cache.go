package forecast

import (
	"sync"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

// Cache holds the single most recent forecast cycle. There is never more
// than one entry: a successful fetch replaces the whole entry in one
// assignment, and nothing updates it in place. Stale entries are kept, not
// evicted, because the degraded path prefers old data over simulated data.
type Cache struct {
	mu        sync.RWMutex
	days      []models.ForecastDay
	fetchedAt time.Time
}

func NewCache() *Cache {
	return &Cache{}
}

// Fresh returns the cached days when an entry exists and its age is below
// ttl at the given instant.
func (c *Cache) Fresh(now time.Time, ttl time.Duration) ([]models.ForecastDay, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.days) == 0 || now.Sub(c.fetchedAt) >= ttl {
		return nil, time.Time{}, false
	}
	return c.days, c.fetchedAt, true
}

// Any returns the cached days regardless of age. Used on the degraded path,
// where stale data beats simulated data.
func (c *Cache) Any() ([]models.ForecastDay, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.days) == 0 {
		return nil, time.Time{}, false
	}
	return c.days, c.fetchedAt, true
}

// Replace swaps in a new entry. Last write wins; there is no ordering guard
// against a slow fetch landing after a newer one.
func (c *Cache) Replace(days []models.ForecastDay, fetchedAt time.Time) {
	c.mu.Lock()
	c.days = days
	c.fetchedAt = fetchedAt
	c.mu.Unlock()
}
