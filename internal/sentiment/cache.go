package sentiment

import (
	"sync"
	"time"

	"marketintel/internal/types"
)

// verdictCache holds recent symbol reports so a page refresh does not
// re-run the whole pipeline. Entries expire after the TTL; a background
// sweep reclaims expired entries between reads.
type verdictCache struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

type cacheEntry struct {
	report   types.SymbolReport
	deadline time.Time
}

func newVerdictCache(ttl time.Duration) *verdictCache {
	c := &verdictCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

func (c *verdictCache) get(symbol string, now time.Time) (types.SymbolReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[symbol]
	if !ok || now.After(entry.deadline) {
		return types.SymbolReport{}, false
	}
	return entry.report, true
}

func (c *verdictCache) set(symbol string, report types.SymbolReport, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = cacheEntry{report: report, deadline: now.Add(c.ttl)}
}

func (c *verdictCache) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(time.Now())
		case <-c.stop:
			return
		}
	}
}

func (c *verdictCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for symbol, entry := range c.data {
		if now.After(entry.deadline) {
			delete(c.data, symbol)
		}
	}
}

func (c *verdictCache) close() {
	c.once.Do(func() { close(c.stop) })
}
