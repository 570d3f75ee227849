package report

import (
	"fmt"
	"sync"

	"github.com/savegress/wagerwatch/pkg/models"
)

// Cache memoizes assembled reports keyed by snapshot content hash and
// filter parameters. Because the snapshot hash is part of the key, a
// changed input snapshot can never serve a stale report.
type Cache struct {
	mu      sync.RWMutex
	maxSize int
	reports map[string]*models.RiskReport
}

// NewCache creates a memoization cache holding up to maxSize reports
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache{
		maxSize: maxSize,
		reports: make(map[string]*models.RiskReport),
	}
}

// Get returns the memoized report for a snapshot/params combination
func (c *Cache) Get(snapshotHash string, params Params) (*models.RiskReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rpt, ok := c.reports[cacheKey(snapshotHash, params)]
	return rpt, ok
}

// Put stores a report. When the cache is full it is cleared wholesale:
// entries are cheap to recompute and the interactive caller typically
// flips between a handful of parameter combinations.
func (c *Cache) Put(snapshotHash string, params Params, rpt *models.RiskReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reports) >= c.maxSize {
		c.reports = make(map[string]*models.RiskReport)
	}
	c.reports[cacheKey(snapshotHash, params)] = rpt
}

// Len returns the number of memoized reports
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reports)
}

func cacheKey(snapshotHash string, params Params) string {
	return fmt.Sprintf("%s|%d|%d|%s|%d",
		snapshotHash,
		params.Start.UTC().Unix(),
		params.End.UTC().Unix(),
		params.Provider,
		params.TopN,
	)
}
