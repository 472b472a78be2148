package chart

import "pricewatch/internal/domain"

// DisplayPriceOf resolves the price a check renders with. The
// lowest-across-retailers fields take precedence over the check's own
// price when present; a nil check yields an all-absent price with the
// default exponent.
func DisplayPriceOf(check *domain.AvailabilityCheck) domain.DisplayPrice {
	if check == nil {
		return domain.DisplayPrice{CurrencyExponent: domain.DefaultCurrencyExponent}
	}

	exponent := domain.DefaultCurrencyExponent
	switch {
	case check.LowestPriceExponent != nil:
		exponent = *check.LowestPriceExponent
	case check.CurrencyExponent != nil:
		exponent = *check.CurrencyExponent
	}

	if check.LowestPriceMinorUnits != nil && check.LowestPriceCurrency != nil {
		return domain.DisplayPrice{
			PriceMinorUnits:  check.LowestPriceMinorUnits,
			Currency:         check.LowestPriceCurrency,
			CurrencyExponent: exponent,
		}
	}

	return domain.DisplayPrice{
		PriceMinorUnits:  check.PriceMinorUnits,
		Currency:         check.Currency,
		CurrencyExponent: exponent,
	}
}

// LatestPriceByRetailer derives the most recent valid price per retailer
// link. Checks without a retailer link, without a usable price, or
// referencing a link absent from retailers are ignored. Entries keep the
// order of the retailers slice; on equal check times the earlier-scanned
// check wins.
func LatestPriceByRetailer(checks []*domain.AvailabilityCheck, retailers []*domain.ProductRetailerLink) []domain.RetailerPriceEntry {
	latest := make(map[string]*domain.AvailabilityCheck, len(retailers))
	known := make(map[string]bool, len(retailers))
	for _, r := range retailers {
		known[r.ID] = true
	}

	for _, c := range checks {
		if c.RetailerLinkID == nil || !c.HasPrice() || !known[*c.RetailerLinkID] {
			continue
		}
		id := *c.RetailerLinkID
		prev, ok := latest[id]
		if !ok || c.CheckedAt.After(prev.CheckedAt) {
			latest[id] = c
		}
	}

	var entries []domain.RetailerPriceEntry
	for _, r := range retailers {
		c, ok := latest[r.ID]
		if !ok {
			continue
		}
		entries = append(entries, domain.RetailerPriceEntry{
			RetailerLinkID: r.ID,
			Price: domain.RetailerPrice{
				PriceMinorUnits:  c.PriceMinorUnits,
				Currency:         c.Currency,
				CurrencyExponent: domain.ExponentOrDefault(c.CurrencyExponent),
			},
		})
	}
	return entries
}

// CheapestRetailerID returns the retailer link with the strictly lowest
// latest price. Comparison needs at least two priced entries; fewer
// yields ok=false. On an exact tie the first entry wins.
func CheapestRetailerID(entries []domain.RetailerPriceEntry) (string, bool) {
	priced := 0
	var cheapest *domain.RetailerPriceEntry
	for i := range entries {
		e := &entries[i]
		if e.Price.PriceMinorUnits == nil {
			continue
		}
		priced++
		if cheapest == nil || *e.Price.PriceMinorUnits < *cheapest.Price.PriceMinorUnits {
			cheapest = e
		}
	}
	if priced < 2 {
		return "", false
	}
	return cheapest.RetailerLinkID, true
}
