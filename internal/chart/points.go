package chart

import (
	"sort"
	"time"

	"pricewatch/internal/domain"
)

// TransformToPricePoints converts checks into single-series chart points.
// Checks without a usable price are dropped; the rest map to points and
// sort ascending by check time. The sort is stable, so checks sharing a
// timestamp keep their input order.
func TransformToPricePoints(checks []*domain.AvailabilityCheck) []domain.PriceDataPoint {
	var points []domain.PriceDataPoint
	for _, c := range checks {
		if !c.HasPrice() {
			continue
		}
		points = append(points, domain.PriceDataPoint{
			Date:             c.CheckedAt,
			PriceMinorUnits:  *c.PriceMinorUnits,
			Currency:         *c.Currency,
			CurrencyExponent: domain.ExponentOrDefault(c.CurrencyExponent),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// DateRangeLabel renders the covered span of a sorted point series:
// empty -> "", one point -> its date, otherwise "{first} - {last}".
func DateRangeLabel(points []domain.PriceDataPoint, formatDate func(time.Time) string) string {
	switch len(points) {
	case 0:
		return ""
	case 1:
		return formatDate(points[0].Date)
	default:
		return formatDate(points[0].Date) + " - " + formatDate(points[len(points)-1].Date)
	}
}
