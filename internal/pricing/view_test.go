package pricing

import "testing"

func TestComputeView_FullTuple(t *testing.T) {
	v := ComputeView(ViewInput{
		CurrentPriceMinorUnits: i64(8000),
		TodayAvgMinorUnits:     i64(8000),
		YesterdayAvgMinorUnits: i64(10000),
		Currency:               sptr("USD"),
	})

	if v.FormattedCurrentPrice != "$80.00" {
		t.Errorf("current: expected $80.00, got %q", v.FormattedCurrentPrice)
	}
	// Previous price formats the yesterday average, not any raw check price
	if v.FormattedPreviousPrice != "$100.00" {
		t.Errorf("previous: expected $100.00, got %q", v.FormattedPreviousPrice)
	}
	if v.Direction != DirectionDown {
		t.Errorf("direction: expected down, got %q", v.Direction)
	}
	if v.PercentChange == nil || *v.PercentChange != -20 {
		t.Errorf("percent: expected -20, got %v", v.PercentChange)
	}
	if v.FormattedPercentChange != "-20%" {
		t.Errorf("formatted percent: expected -20%%, got %q", v.FormattedPercentChange)
	}
	if !v.HasComparison {
		t.Error("expected HasComparison true for a directional move")
	}
	if v.IsRoundedZero {
		t.Error("expected IsRoundedZero false for a 20% move")
	}
}

func TestComputeView_NoAverages(t *testing.T) {
	v := ComputeView(ViewInput{
		CurrentPriceMinorUnits: i64(9999),
		Currency:               sptr("USD"),
	})

	if v.Direction != DirectionUnknown {
		t.Errorf("expected unknown direction, got %q", v.Direction)
	}
	if v.HasComparison {
		t.Error("expected HasComparison false without averages")
	}
	if v.FormattedPreviousPrice != "-" {
		t.Errorf("expected placeholder previous price, got %q", v.FormattedPreviousPrice)
	}
	if v.FormattedPercentChange != "" {
		t.Errorf("expected empty percent label, got %q", v.FormattedPercentChange)
	}
}

func TestComputeView_UnchangedHasNoComparison(t *testing.T) {
	v := ComputeView(ViewInput{
		CurrentPriceMinorUnits: i64(10000),
		TodayAvgMinorUnits:     i64(10000),
		YesterdayAvgMinorUnits: i64(10000),
		Currency:               sptr("USD"),
	})

	if v.Direction != DirectionUnchanged {
		t.Errorf("expected unchanged, got %q", v.Direction)
	}
	if v.HasComparison {
		t.Error("expected HasComparison false when unchanged")
	}
}

func TestComputeView_ExponentDefaultsToTwo(t *testing.T) {
	v := ComputeView(ViewInput{
		CurrentPriceMinorUnits: i64(1500),
		Currency:               sptr("USD"),
	})
	if v.FormattedCurrentPrice != "$15.00" {
		t.Errorf("expected $15.00, got %q", v.FormattedCurrentPrice)
	}
}

func TestViewCache_StableForUnchangedInputs(t *testing.T) {
	var cache ViewCache

	// Distinct pointers with equal values must not force recomputation
	first := cache.View(ViewInput{
		CurrentPriceMinorUnits: i64(9999),
		TodayAvgMinorUnits:     i64(10100),
		YesterdayAvgMinorUnits: i64(10000),
		Currency:               sptr("USD"),
	})
	second := cache.View(ViewInput{
		CurrentPriceMinorUnits: i64(9999),
		TodayAvgMinorUnits:     i64(10100),
		YesterdayAvgMinorUnits: i64(10000),
		Currency:               sptr("USD"),
	})

	if first != second {
		t.Error("expected identical view pointer across no-op recomputation")
	}
}

func TestViewCache_RecomputesOnChange(t *testing.T) {
	var cache ViewCache

	first := cache.View(ViewInput{
		CurrentPriceMinorUnits: i64(9999),
		Currency:               sptr("USD"),
	})
	second := cache.View(ViewInput{
		CurrentPriceMinorUnits: i64(8999),
		Currency:               sptr("USD"),
	})

	if first == second {
		t.Error("expected recomputation when an input changed")
	}
	if second.FormattedCurrentPrice != "$89.99" {
		t.Errorf("expected $89.99, got %q", second.FormattedCurrentPrice)
	}
}
