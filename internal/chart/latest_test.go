package chart

import (
	"testing"
	"time"

	"pricewatch/internal/domain"
)

func TestDisplayPriceOf_NilCheck(t *testing.T) {
	p := DisplayPriceOf(nil)

	if p.PriceMinorUnits != nil || p.Currency != nil {
		t.Errorf("expected absent price, got %+v", p)
	}
	if p.CurrencyExponent != 2 {
		t.Errorf("expected default exponent 2, got %d", p.CurrencyExponent)
	}
}

func TestDisplayPriceOf_LowestPriceWins(t *testing.T) {
	c := pricedCheck("c1", time.Now(), 9999)
	c.LowestPriceMinorUnits = i64(8999)
	c.LowestPriceCurrency = sptr("EUR")
	c.LowestPriceExponent = iptr(2)

	p := DisplayPriceOf(c)

	if p.PriceMinorUnits == nil || *p.PriceMinorUnits != 8999 {
		t.Errorf("expected lowest price 8999, got %v", p.PriceMinorUnits)
	}
	if p.Currency == nil || *p.Currency != "EUR" {
		t.Errorf("expected EUR, got %v", p.Currency)
	}
}

func TestDisplayPriceOf_FallsBackToOwnPrice(t *testing.T) {
	c := pricedCheck("c1", time.Now(), 9999)

	p := DisplayPriceOf(c)

	if p.PriceMinorUnits == nil || *p.PriceMinorUnits != 9999 {
		t.Errorf("expected own price 9999, got %v", p.PriceMinorUnits)
	}
	if p.CurrencyExponent != 2 {
		t.Errorf("expected default exponent, got %d", p.CurrencyExponent)
	}
}

func TestLatestPriceByRetailer(t *testing.T) {
	retailers := []*domain.ProductRetailerLink{
		link("l1", "https://shop-a.example.com"),
		link("l2", "https://shop-b.example.com"),
	}
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	unknownLink := linkedCheck("unknown", "l9", base.Add(3*time.Hour), 100)
	legacy := pricedCheck("legacy", base.Add(3*time.Hour), 200)
	priceless := checkAt("priceless", base.Add(3*time.Hour))
	priceless.RetailerLinkID = sptr("l1")

	checks := []*domain.AvailabilityCheck{
		linkedCheck("old-l1", "l1", base, 9999),
		linkedCheck("new-l1", "l1", base.Add(time.Hour), 9499),
		linkedCheck("only-l2", "l2", base, 8999),
		unknownLink,
		legacy,
		priceless,
	}

	entries := LatestPriceByRetailer(checks, retailers)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Entry order follows the retailers slice
	if entries[0].RetailerLinkID != "l1" || entries[1].RetailerLinkID != "l2" {
		t.Errorf("expected [l1 l2], got [%s %s]", entries[0].RetailerLinkID, entries[1].RetailerLinkID)
	}
	if *entries[0].Price.PriceMinorUnits != 9499 {
		t.Errorf("l1: expected latest price 9499, got %d", *entries[0].Price.PriceMinorUnits)
	}
	if *entries[1].Price.PriceMinorUnits != 8999 {
		t.Errorf("l2: expected 8999, got %d", *entries[1].Price.PriceMinorUnits)
	}
}

func TestLatestPriceByRetailer_ExponentDefault(t *testing.T) {
	retailers := []*domain.ProductRetailerLink{link("l1", "https://shop-a.example.com")}
	entries := LatestPriceByRetailer(
		[]*domain.AvailabilityCheck{linkedCheck("c1", "l1", time.Now(), 9999)},
		retailers,
	)

	if len(entries) != 1 || entries[0].Price.CurrencyExponent != 2 {
		t.Fatalf("expected default exponent 2, got %+v", entries)
	}
}

func TestCheapestRetailerID_RequiresTwoPricedEntries(t *testing.T) {
	if _, ok := CheapestRetailerID(nil); ok {
		t.Error("empty: expected no cheapest retailer")
	}

	one := []domain.RetailerPriceEntry{
		{RetailerLinkID: "l1", Price: domain.RetailerPrice{PriceMinorUnits: i64(100)}},
	}
	if _, ok := CheapestRetailerID(one); ok {
		t.Error("single entry: expected no cheapest retailer")
	}
}

func TestCheapestRetailerID_Minimum(t *testing.T) {
	entries := []domain.RetailerPriceEntry{
		{RetailerLinkID: "l1", Price: domain.RetailerPrice{PriceMinorUnits: i64(9999)}},
		{RetailerLinkID: "l2", Price: domain.RetailerPrice{PriceMinorUnits: i64(8999)}},
		{RetailerLinkID: "l3", Price: domain.RetailerPrice{PriceMinorUnits: i64(9499)}},
	}

	id, ok := CheapestRetailerID(entries)
	if !ok || id != "l2" {
		t.Fatalf("expected l2, got %q ok=%v", id, ok)
	}
}

func TestCheapestRetailerID_TieFirstWins(t *testing.T) {
	entries := []domain.RetailerPriceEntry{
		{RetailerLinkID: "l1", Price: domain.RetailerPrice{PriceMinorUnits: i64(8999)}},
		{RetailerLinkID: "l2", Price: domain.RetailerPrice{PriceMinorUnits: i64(8999)}},
	}

	id, ok := CheapestRetailerID(entries)
	if !ok || id != "l1" {
		t.Fatalf("tie: expected first entry l1, got %q ok=%v", id, ok)
	}
}
