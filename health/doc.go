// Package health provides health checking for the query cache and its
// surroundings.
//
// The central check is StoreChecker, which inspects a cache store's
// snapshot and counters: a store dominated by stale entries is
// degraded, an unusable store is unhealthy. Generic checkers, an
// aggregator, and HTTP probe handlers round out the package so an
// embedding app can expose its cache state on the usual endpoints.
//
// # Checking the store
//
//	check := health.NewStoreChecker(store, health.StoreCheckerConfig{
//	    StaleWarning:  0.5,
//	    StaleCritical: 0.9,
//	})
//
//	result := check.Check(ctx)
//	if result.Status == health.StatusDegraded {
//	    log.Printf("cache mostly stale: %s", result.Message)
//	}
//
// # Aggregating checks
//
// Use Aggregator to combine checks into a single composite check:
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewStoreChecker(store))
//	agg.Register(health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP endpoints
//
// The package provides HTTP handlers for common probe patterns:
//
//	// Liveness probe
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(agg))
//
//	// Detailed health status with store counters
//	http.Handle("/health", health.DetailedHandler(agg))
package health
