package pricing

import (
	"fmt"
	"math"
)

// Direction classifies a price movement between two observations.
type Direction string

// Price change directions
const (
	DirectionUp        Direction = "up"
	DirectionDown      Direction = "down"
	DirectionUnchanged Direction = "unchanged"
	DirectionUnknown   Direction = "unknown"
)

// ChangeDirection compares two nullable minor-unit prices. Either side
// missing yields DirectionUnknown.
func ChangeDirection(current, previous *int64) Direction {
	if current == nil || previous == nil {
		return DirectionUnknown
	}
	switch {
	case *current == *previous:
		return DirectionUnchanged
	case *current < *previous:
		return DirectionDown
	default:
		return DirectionUp
	}
}

// ChangePercent computes the signed percentage change from previous to
// current, rounded to the nearest integer (half away from zero). Returns
// nil when either side is missing or previous is exactly zero, guarding
// the division.
func ChangePercent(current, previous *int64) *int {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	pct := int(math.Round(rawChangePercent(*current, *previous)))
	return &pct
}

// FormatChangePercent renders a rounded percentage with an explicit sign:
// 15 -> "+15%", -12 -> "-12%", 0 -> "+0%". Nil renders as the empty
// string.
func FormatChangePercent(percent *int) string {
	if percent == nil {
		return ""
	}
	if *percent >= 0 {
		return fmt.Sprintf("+%d%%", *percent)
	}
	return fmt.Sprintf("%d%%", *percent)
}

// IsRoundedZero reports whether the unrounded change is non-zero but
// rounds to 0 (a sub-half-percent move). The UI uses this to show a trend
// icon without a misleading "+0%" label. False whenever either input is
// missing, yesterday is zero, or the raw change is exactly zero.
func IsRoundedZero(today, yesterday *int64) bool {
	if today == nil || yesterday == nil || *yesterday == 0 {
		return false
	}
	raw := rawChangePercent(*today, *yesterday)
	return raw != 0 && math.Round(raw) == 0
}

func rawChangePercent(current, previous int64) float64 {
	return (float64(current) - float64(previous)) / float64(previous) * 100
}
