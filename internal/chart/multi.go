package chart

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"pricewatch/internal/domain"
)

// chartColors is the fixed palette of chart color tokens. Series take
// colors cyclically by index.
var chartColors = []string{
	"var(--chart-1)",
	"var(--chart-2)",
	"var(--chart-3)",
	"var(--chart-4)",
	"var(--chart-5)",
}

// BuildMultiRetailerChartData groups a product's checks into minute
// buckets with one series per referenced retailer link.
//
// Series appear in the order their retailer link is first seen among the
// price-valid checks; checks without a retailer link collapse into the
// single synthetic "legacy" series. Currency metadata comes from the
// first valid check — mixed-currency input is not reconciled, the chart
// assumes one display currency.
func BuildMultiRetailerChartData(checks []*domain.AvailabilityCheck, retailers []*domain.ProductRetailerLink) domain.MultiRetailerChartData {
	linksByID := make(map[string]*domain.ProductRetailerLink, len(retailers))
	for _, r := range retailers {
		linksByID[r.ID] = r
	}

	var series []domain.ChartSeries
	seen := make(map[string]bool)
	buckets := make(map[time.Time]domain.ChartRow)

	var currency *string
	var currencyExponent *int

	for _, c := range checks {
		if !c.HasPrice() {
			continue
		}

		if currency == nil {
			cur := *c.Currency
			exp := domain.ExponentOrDefault(c.CurrencyExponent)
			currency = &cur
			currencyExponent = &exp
		}

		seriesID := domain.SeriesLegacyID
		if c.RetailerLinkID != nil {
			seriesID = *c.RetailerLinkID
		}

		if !seen[seriesID] {
			seen[seriesID] = true
			series = append(series, domain.ChartSeries{
				ID:    seriesID,
				Label: seriesLabel(seriesID, linksByID),
			})
		}

		bucket := c.CheckedAt.Truncate(time.Minute)
		row, ok := buckets[bucket]
		if !ok {
			row = domain.ChartRow{Date: bucket, Prices: make(map[string]int64)}
		}
		// Same retailer twice in one minute: the later check wins
		row.Prices[seriesID] = *c.PriceMinorUnits
		buckets[bucket] = row
	}

	// Series order determines color assignment
	for i := range series {
		series[i].Color = chartColors[i%len(chartColors)]
	}

	data := make([]domain.ChartRow, 0, len(buckets))
	for _, row := range buckets {
		data = append(data, row)
	}
	sort.Slice(data, func(i, j int) bool {
		return data[i].Date.Before(data[j].Date)
	})
	if len(data) == 0 {
		data = nil
	}

	return domain.MultiRetailerChartData{
		Data:             data,
		Series:           series,
		Currency:         currency,
		CurrencyExponent: currencyExponent,
	}
}

// seriesLabel derives the display label of a series: the URL host of its
// retailer link, suffixed with " (label)" when the link carries one.
func seriesLabel(seriesID string, linksByID map[string]*domain.ProductRetailerLink) string {
	if seriesID == domain.SeriesLegacyID {
		return domain.SeriesLegacyLabel
	}
	link, ok := linksByID[seriesID]
	if !ok {
		return seriesID
	}
	label := ExtractHost(link.URL)
	if link.Label != nil {
		label = fmt.Sprintf("%s (%s)", label, *link.Label)
	}
	return label
}

// ExtractHost returns the hostname of a URL. Strings that do not parse to
// a URL with a host come back verbatim; this never fails.
func ExtractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Hostname()
}
