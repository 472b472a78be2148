package domain

import "time"

// PriceDataPoint is a single-series chart point derived from one check.
// Produced only from checks where price and currency are both present.
type PriceDataPoint struct {
	Date             time.Time `json:"date"`
	PriceMinorUnits  int64     `json:"price_minor_units"`
	Currency         string    `json:"currency"`
	CurrencyExponent int       `json:"currency_exponent"`
}

// ChartSeries describes one line of a multi-retailer chart. Series order
// determines color assignment.
type ChartSeries struct {
	ID    string `json:"id"`    // retailer link id, or "legacy"
	Label string `json:"label"` // URL host, " (label)" suffix when the link has one
	Color string `json:"color"` // chart color token, cyclic by series index
}

// ChartRow is one minute bucket of a multi-retailer chart. Checks for
// different retailers falling in the same minute merge into one row.
type ChartRow struct {
	Date   time.Time        `json:"date"`   // bucket start, truncated to the minute
	Prices map[string]int64 `json:"prices"` // series id -> price minor units
}

// MultiRetailerChartData is the chart-ready form of a product's checks.
// Currency metadata is taken from one valid check; mixed-currency input
// is not reconciled.
type MultiRetailerChartData struct {
	Data             []ChartRow    `json:"data"`
	Series           []ChartSeries `json:"series"`
	Currency         *string       `json:"currency"`
	CurrencyExponent *int          `json:"currency_exponent"`
}

// RetailerPrice is the most recent valid price observed for one retailer
// link.
type RetailerPrice struct {
	PriceMinorUnits  *int64  `json:"price_minor_units"`
	Currency         *string `json:"currency"`
	CurrencyExponent int     `json:"currency_exponent"`
}

// RetailerPriceEntry pairs a retailer link id with its latest price.
// Entries keep the order of the supplied retailer list so derivations
// over them are deterministic.
type RetailerPriceEntry struct {
	RetailerLinkID string        `json:"retailer_link_id"`
	Price          RetailerPrice `json:"price"`
}

// DisplayPrice is the price a check should render with: the
// lowest-across-retailers fields when present, the check's own price
// otherwise.
type DisplayPrice struct {
	PriceMinorUnits  *int64
	Currency         *string
	CurrencyExponent int
}

// TimeRange selects how far back chart data reaches.
type TimeRange string

// Supported time ranges
const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	RangeAll TimeRange = "all"
)

// SeriesLegacyID is the synthetic series for checks without a retailer
// link. All such checks collapse into this one series.
const SeriesLegacyID = "legacy"

// SeriesLegacyLabel is the display label of the legacy series.
const SeriesLegacyLabel = "Price"
