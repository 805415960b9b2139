package health

import (
	"context"
	"fmt"

	"github.com/stellarcade/querycache/cache"
)

// StoreCheckerConfig configures the cache store health checker.
type StoreCheckerConfig struct {
	// StaleWarning is the stale-entry ratio that triggers degraded
	// status. Value should be between 0 and 1. Default: 0.5 (50%)
	StaleWarning float64

	// StaleCritical is the stale-entry ratio that triggers unhealthy
	// status. Value should be between 0 and 1. Default: 0.9 (90%)
	StaleCritical float64
}

// StoreChecker reports the health of a cache store. A store serving
// mostly fresh entries is healthy; one dominated by stale entries is
// degraded, since every read past StaleAt costs a refetch or risks
// showing outdated game state.
type StoreChecker struct {
	store  *cache.Store
	config StoreCheckerConfig
}

// NewStoreChecker creates a health checker for store.
func NewStoreChecker(store *cache.Store, config ...StoreCheckerConfig) *StoreChecker {
	cfg := StoreCheckerConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.StaleWarning <= 0 || cfg.StaleWarning >= 1 {
		cfg.StaleWarning = 0.5
	}
	if cfg.StaleCritical <= 0 || cfg.StaleCritical >= 1 {
		cfg.StaleCritical = 0.9
	}
	if cfg.StaleCritical < cfg.StaleWarning {
		cfg.StaleCritical = cfg.StaleWarning
	}

	return &StoreChecker{store: store, config: cfg}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return "querycache"
}

// Check inspects the store's snapshot and counters.
func (c *StoreChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if c.store == nil {
		return Unhealthy("store not configured", ErrCheckFailed)
	}

	details, staleRatio := c.inspect()

	switch {
	case staleRatio >= c.config.StaleCritical:
		return Unhealthy(
			fmt.Sprintf("stale entries critical: %.1f%%", staleRatio*100),
			ErrCheckFailed,
		).WithDetails(details)

	case staleRatio >= c.config.StaleWarning:
		return Degraded(
			fmt.Sprintf("stale entries high: %.1f%%", staleRatio*100),
		).WithDetails(details)

	default:
		return Healthy(
			fmt.Sprintf("%d entries, %.1f%% stale", details["entries"], staleRatio*100),
		).WithDetails(details)
	}
}

// Info returns the store counters without a status judgment.
func (c *StoreChecker) Info(ctx context.Context) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if c.store == nil {
		return nil, ErrCheckFailed
	}

	details, _ := c.inspect()
	return details, nil
}

func (c *StoreChecker) inspect() (map[string]any, float64) {
	snapshot := c.store.Snapshot()
	stats := c.store.Stats()

	stale := 0
	for _, key := range snapshot.Keys {
		if c.store.IsStale(key) {
			stale++
		}
	}

	staleRatio := 0.0
	if snapshot.Size > 0 {
		staleRatio = float64(stale) / float64(snapshot.Size)
	}

	reads := stats.Hits + stats.Misses
	hitRatio := 0.0
	if reads > 0 {
		hitRatio = float64(stats.Hits) / float64(reads)
	}

	return map[string]any{
		"entries":       snapshot.Size,
		"max_entries":   stats.MaxEntries,
		"stale_entries": stale,
		"stale_percent": staleRatio * 100,
		"hits":          stats.Hits,
		"misses":        stats.Misses,
		"hit_percent":   hitRatio * 100,
		"sets":          stats.Sets,
		"invalidations": stats.Invalidations,
		"evictions":     stats.Evictions,
		"removals":      stats.Removals,
	}, staleRatio
}

// StoreChecker implements InfoChecker for diagnostic endpoints.
var _ InfoChecker = (*StoreChecker)(nil)
