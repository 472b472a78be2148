package domain

import "time"

// AvailabilityCheck is one point-in-time observation of a product at a
// retailer, produced by the backend on each check. The client only reads
// and transforms these records.
//
// Invariant: PriceMinorUnits and Currency are both-or-neither nil. A price
// without a currency is meaningless and is treated as absent.
type AvailabilityCheck struct {
	ID                     string    `json:"id"`
	ProductID              string    `json:"product_id"`
	RetailerLinkID         *string   `json:"retailer_link_id"` // nil = legacy single-retailer record
	Status                 Status    `json:"status"`
	Error                  *string   `json:"error,omitempty"`
	CheckedAt              time.Time `json:"checked_at"`
	PriceMinorUnits        *int64    `json:"price_minor_units"`     // integer minor units, e.g. cents
	Currency               *string   `json:"currency"`              // ISO 4217 code
	CurrencyExponent       *int      `json:"currency_exponent"`     // decimal places, nil defaults to 2
	RawPrice               *string   `json:"raw_price,omitempty"`   // diagnostic, as scraped
	TodayAvgMinorUnits     *int64    `json:"today_avg_minor_units"` // rolling average, trend comparison
	YesterdayAvgMinorUnits *int64    `json:"yesterday_avg_minor_units"`
	LowestPriceMinorUnits  *int64    `json:"lowest_price_minor_units"` // lowest across retailers, overrides for display
	LowestPriceCurrency    *string   `json:"lowest_price_currency"`
	LowestPriceExponent    *int      `json:"lowest_price_exponent"`
	IsPriceDrop            bool      `json:"is_price_drop"`
}

// HasPrice reports whether the check carries a usable price. Both fields
// must be present; a lone price or a lone currency counts as absent.
func (c *AvailabilityCheck) HasPrice() bool {
	return c.PriceMinorUnits != nil && c.Currency != nil
}

// Status is the availability outcome of a check.
type Status string

// Availability status constants
const (
	StatusInStock    Status = "in_stock"
	StatusOutOfStock Status = "out_of_stock"
	StatusBackOrder  Status = "back_order"
	StatusUnknown    Status = "unknown"
)

// DefaultCurrencyExponent applies when a check carries no exponent.
const DefaultCurrencyExponent = 2

// ExponentOrDefault resolves a nullable currency exponent.
func ExponentOrDefault(exponent *int) int {
	if exponent == nil {
		return DefaultCurrencyExponent
	}
	return *exponent
}
