package chart

import (
	"time"

	"pricewatch/internal/domain"
)

// FilterByTimeRange keeps checks whose CheckedAt falls within the last
// 7 or 30 days from now, boundary instant inclusive. RangeAll (and any
// unrecognized range) returns the input unchanged. Input order is
// preserved and the input slice is never mutated.
func FilterByTimeRange(checks []*domain.AvailabilityCheck, r domain.TimeRange, now time.Time) []*domain.AvailabilityCheck {
	var days int
	switch r {
	case domain.Range7d:
		days = 7
	case domain.Range30d:
		days = 30
	default:
		return checks
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	result := make([]*domain.AvailabilityCheck, 0, len(checks))
	for _, c := range checks {
		if !c.CheckedAt.Before(cutoff) {
			result = append(result, c)
		}
	}
	return result
}
