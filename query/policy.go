package query

import "time"

// Policy controls when a cached entry counts as stale and whether
// invalidating it schedules a background refetch.
type Policy struct {
	// StaleTime is how long after a write the entry stays fresh.
	// Negative values are treated as zero (immediately stale).
	StaleTime time.Duration

	// RefetchOnInvalidate schedules a background refetch when the
	// entry is invalidated.
	RefetchOnInvalidate bool
}

// FallbackPolicy returns the policy applied to namespaces with no
// registered default.
func FallbackPolicy() Policy {
	return Policy{StaleTime: 30 * time.Second, RefetchOnInvalidate: true}
}

// DefaultPolicies returns the per-namespace defaults. Balances and
// game records churn with every bet; rewards and profile data only
// move on achievement events, so they tolerate longer staleness.
func DefaultPolicies() map[Namespace]Policy {
	return map[Namespace]Policy{
		NamespaceBalances:    {StaleTime: 30 * time.Second, RefetchOnInvalidate: true},
		NamespaceGames:       {StaleTime: 15 * time.Second, RefetchOnInvalidate: true},
		NamespaceTournaments: {StaleTime: 30 * time.Second, RefetchOnInvalidate: true},
		NamespaceRewards:     {StaleTime: time.Minute, RefetchOnInvalidate: true},
		NamespaceProfile:     {StaleTime: 5 * time.Minute, RefetchOnInvalidate: false},
	}
}

// PolicyFor resolves the policy for ns from overrides, falling back
// to FallbackPolicy for namespaces the map does not cover. A nil map
// resolves everything to the fallback.
func PolicyFor(ns Namespace, overrides map[Namespace]Policy) Policy {
	if p, ok := overrides[ns]; ok {
		return p
	}
	return FallbackPolicy()
}

// StaleAt computes the staleness deadline for a write at updated.
func (p Policy) StaleAt(updated time.Time) time.Time {
	staleTime := p.StaleTime
	if staleTime < 0 {
		staleTime = 0
	}
	return updated.Add(staleTime)
}
