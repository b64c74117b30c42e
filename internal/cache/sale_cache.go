package cache

import (
	"sync"
	"time"

	"github.com/bookverse/bookverse-api/internal/pricing"
)

// DefaultSaleTTL bounds how stale the served sale list can get.
const DefaultSaleTTL = 30 * time.Second

// SaleCache keeps the active sale-event list in memory for a short TTL so
// every checkout does not re-query the table. Sales are store-wide, so one
// cached list serves all sessions.
type SaleCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	events  []pricing.SaleEvent
	fetched time.Time
}

func NewSaleCache(ttl time.Duration) *SaleCache {
	return &SaleCache{ttl: ttl}
}

func (c *SaleCache) Get() ([]pricing.SaleEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetched.IsZero() || time.Since(c.fetched) > c.ttl {
		return nil, false
	}
	return c.events, true
}

func (c *SaleCache) Set(events []pricing.SaleEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
	c.fetched = time.Now()
}

// Invalidate drops the cached list, forcing the next Get to miss. Admin
// sale-event writes call this.
func (c *SaleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
	c.fetched = time.Time{}
}
