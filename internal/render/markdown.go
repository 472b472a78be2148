// Package render produces human-readable snapshots of tracked products.
package render

import (
	"fmt"
	"strings"
	"time"

	"pricewatch/internal/chart"
	"pricewatch/internal/domain"
	"pricewatch/internal/pricing"
)

// ProductRow is everything the snapshot needs about one product.
type ProductRow struct {
	Product *domain.Product
	Latest  *domain.AvailabilityCheck     // nil when never checked
	Links   []*domain.ProductRetailerLink // display order
	Checks  []*domain.AvailabilityCheck   // history, feeds per-retailer latest
}

// Snapshot is one rendering of the full product list.
type Snapshot struct {
	GeneratedAt time.Time
	Rows        []ProductRow
}

// statusLabels maps check statuses to table text.
var statusLabels = map[domain.Status]string{
	domain.StatusInStock:    "In stock",
	domain.StatusOutOfStock: "Out of stock",
	domain.StatusBackOrder:  "Back order",
	domain.StatusUnknown:    "Unknown",
}

// RenderMarkdown renders the snapshot as a Markdown document with one
// table row per product and a per-retailer breakdown for products with
// more than one link.
func RenderMarkdown(s *Snapshot) string {
	var sb strings.Builder

	sb.WriteString("# Price Watch Snapshot\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Products: %d\n\n", len(s.Rows)))

	sb.WriteString("| Product | Status | Price | Trend | Checked |\n")
	sb.WriteString("|---------|--------|-------|-------|--------|\n")
	for _, row := range s.Rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			row.Product.Name,
			statusLabel(row.Latest),
			priceLabel(row.Latest),
			trendLabel(row.Latest),
			checkedLabel(row.Latest),
		))
	}
	sb.WriteString("\n")

	for _, row := range s.Rows {
		if len(row.Links) < 2 {
			continue
		}
		sb.WriteString(renderRetailerBreakdown(row))
	}

	return sb.String()
}

// statusLabel renders the availability column.
func statusLabel(latest *domain.AvailabilityCheck) string {
	if latest == nil {
		return "Never checked"
	}
	if label, ok := statusLabels[latest.Status]; ok {
		return label
	}
	return string(latest.Status)
}

// priceLabel renders the display price, lowest-across-retailers when
// present.
func priceLabel(latest *domain.AvailabilityCheck) string {
	return pricing.FormatDisplayPrice(chart.DisplayPriceOf(latest))
}

// trendLabel renders the rolling-average comparison, empty when there is
// nothing to compare.
func trendLabel(latest *domain.AvailabilityCheck) string {
	if latest == nil {
		return ""
	}
	view := pricing.ComputeView(pricing.ViewInput{
		CurrentPriceMinorUnits: latest.PriceMinorUnits,
		TodayAvgMinorUnits:     latest.TodayAvgMinorUnits,
		YesterdayAvgMinorUnits: latest.YesterdayAvgMinorUnits,
		Currency:               latest.Currency,
		CurrencyExponent:       latest.CurrencyExponent,
	})
	if !view.HasComparison {
		return ""
	}
	arrow := "↑"
	if view.Direction == pricing.DirectionDown {
		arrow = "↓"
	}
	return arrow + " " + view.FormattedPercentChange
}

func checkedLabel(latest *domain.AvailabilityCheck) string {
	if latest == nil {
		return "-"
	}
	return latest.CheckedAt.UTC().Format("2006-01-02 15:04")
}

// renderRetailerBreakdown renders the latest price per retailer for one
// multi-retailer product, marking the cheapest.
func renderRetailerBreakdown(row ProductRow) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s\n\n", row.Product.Name))

	entries := chart.LatestPriceByRetailer(row.Checks, row.Links)
	if len(entries) == 0 {
		sb.WriteString("No priced checks yet.\n\n")
		return sb.String()
	}

	cheapestID, hasCheapest := chart.CheapestRetailerID(entries)

	labels := make(map[string]string, len(row.Links))
	for _, link := range row.Links {
		label := chart.ExtractHost(link.URL)
		if link.Label != nil {
			label = label + " (" + *link.Label + ")"
		}
		labels[link.ID] = label
	}

	sb.WriteString("| Retailer | Price | |\n")
	sb.WriteString("|----------|-------|--|\n")
	for _, e := range entries {
		marker := ""
		if hasCheapest && e.RetailerLinkID == cheapestID {
			marker = "cheapest"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			labels[e.RetailerLinkID],
			pricing.FormatPrice(e.Price.PriceMinorUnits, e.Price.Currency, e.Price.CurrencyExponent),
			marker,
		))
	}
	sb.WriteString("\n")
	return sb.String()
}
