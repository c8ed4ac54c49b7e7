package domain

import "time"

// IsActive reports whether a warning is in effect at the given instant.
// An absent issued time never blocks activity (already in effect) and an
// absent expiry never blocks it either (never expires); both are fail-open
// so incomplete upstream data over-reports rather than hides warnings.
// A warning expiring exactly at now is already expired.
func IsActive(w Warning, now time.Time) bool {
	if w.IssuedAt != nil && w.IssuedAt.After(now) {
		return false
	}
	if w.ExpiresAt != nil && !w.ExpiresAt.After(now) {
		return false
	}
	return true
}

// ActiveWarnings returns the subset of warnings active at now, in input order.
func ActiveWarnings(warnings []Warning, now time.Time) []Warning {
	active := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if IsActive(w, now) {
			active = append(active, w)
		}
	}
	return active
}
