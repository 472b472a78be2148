package querycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pricewatch/internal/domain"
)

func mergeCheck(id string, at time.Time, price int64) *domain.AvailabilityCheck {
	currency := "USD"
	return &domain.AvailabilityCheck{
		ID:              id,
		ProductID:       "p1",
		Status:          domain.StatusInStock,
		PriceMinorUnits: &price,
		Currency:        &currency,
		CheckedAt:       at,
	}
}

func TestMergeChecks_AppendsNewObservations(t *testing.T) {
	c := New()
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	SetChecks(c, "p1", domain.RangeAll, []*domain.AvailabilityCheck{
		mergeCheck("a", base, 100),
	})

	n := MergeChecks(c, "p1", domain.RangeAll, []*domain.AvailabilityCheck{
		mergeCheck("b", base.Add(time.Minute), 110),
	})
	require.Equal(t, 1, n)

	checks, ok := Checks(c, "p1", domain.RangeAll)
	require.True(t, ok)
	require.Len(t, checks, 2)
	require.Equal(t, "b", checks[1].ID)
}

func TestMergeChecks_DropsDuplicatesByFingerprint(t *testing.T) {
	c := New()
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	SetChecks(c, "p1", domain.RangeAll, []*domain.AvailabilityCheck{
		mergeCheck("query-id", base, 100),
	})

	// The push path delivers the same observation under a different id.
	n := MergeChecks(c, "p1", domain.RangeAll, []*domain.AvailabilityCheck{
		mergeCheck("event-id", base, 100),
		mergeCheck("c", base.Add(time.Minute), 105),
	})
	require.Equal(t, 1, n)

	checks, _ := Checks(c, "p1", domain.RangeAll)
	require.Len(t, checks, 2)
}

func TestMergeChecks_NoNewObservationsLeavesCacheUntouched(t *testing.T) {
	var sets int
	c := New(WithHooks(Hooks{OnSet: func(Key) { sets++ }}))
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	SetChecks(c, "p1", domain.RangeAll, []*domain.AvailabilityCheck{
		mergeCheck("a", base, 100),
	})
	setsBefore := sets

	n := MergeChecks(c, "p1", domain.RangeAll, []*domain.AvailabilityCheck{
		mergeCheck("a-again", base, 100),
	})
	require.Zero(t, n)
	require.Equal(t, setsBefore, sets)
}

func TestMergeChecks_EmptyCacheStartsFresh(t *testing.T) {
	c := New()
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	n := MergeChecks(c, "p1", domain.Range7d, []*domain.AvailabilityCheck{
		mergeCheck("a", base, 100),
	})
	require.Equal(t, 1, n)

	checks, ok := Checks(c, "p1", domain.Range7d)
	require.True(t, ok)
	require.Len(t, checks, 1)
}
