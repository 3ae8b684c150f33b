package monitor

import "time"

// Registry manages per-facility lists of monitor subscriptions.
//
// The server runs a single-threaded cooperative loop (no request is
// handled concurrently with another), so Registry does not lock.
type Registry struct {
	byFacility map[string][]Subscription
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{byFacility: make(map[string][]Subscription)}
}

// Register adds sub to its facility's subscriber list.
func (r *Registry) Register(sub Subscription) {
	r.byFacility[sub.Facility] = append(r.byFacility[sub.Facility], sub)
}

// Subscribers returns a copy of the current, non-expired subscriptions for
// facility, so the caller can fan out updates while Prune may run later.
func (r *Registry) Subscribers(facility string, now time.Time) []Subscription {
	all := r.byFacility[facility]
	if len(all) == 0 {
		return nil
	}
	result := make([]Subscription, 0, len(all))
	for _, s := range all {
		if !s.Expired(now) {
			result = append(result, s)
		}
	}
	return result
}

// Prune removes every expired subscription across all facilities and
// returns how many were removed, for the expiry-reaping metric.
func (r *Registry) Prune(now time.Time) int {
	removed := 0
	for facility, subs := range r.byFacility {
		kept := subs[:0]
		for _, s := range subs {
			if s.Expired(now) {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(r.byFacility, facility)
		} else {
			r.byFacility[facility] = kept
		}
	}
	return removed
}

// TotalSubscriptions returns the subscriber count across every facility,
// for the subscriber-count gauge.
func (r *Registry) TotalSubscriptions() int {
	total := 0
	for _, subs := range r.byFacility {
		total += len(subs)
	}
	return total
}

// FacilityCount returns the number of facilities with at least one
// subscriber.
func (r *Registry) FacilityCount() int {
	return len(r.byFacility)
}
