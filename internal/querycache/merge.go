package querycache

import (
	"pricewatch/internal/domain"
	"pricewatch/internal/idhash"
)

// MergeChecks appends newly observed checks to a product's cached
// history for a time range, dropping observations the cache already
// holds. The same check can arrive twice, once from a list query and
// once from a push event after a bulk run; duplicates are detected by
// fingerprint, not record id, since the two paths may assign ids
// independently. Returns the number of checks actually appended.
func MergeChecks(c *Cache, productID string, r domain.TimeRange, incoming []*domain.AvailabilityCheck) int {
	existing, _ := Checks(c, productID, r)

	seen := make(map[string]bool, len(existing))
	for _, check := range existing {
		seen[idhash.ComputeCheckID(check)] = true
	}

	merged := existing
	appended := 0
	for _, check := range incoming {
		id := idhash.ComputeCheckID(check)
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, check)
		appended++
	}

	if appended > 0 {
		SetChecks(c, productID, r, merged)
	}
	return appended
}
