package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"pricewatch/internal/domain"
)

// ComputeCheckID computes a deterministic fingerprint for one
// availability observation.
// Formula: SHA256(product_id|retailer_link_id|status|price|currency|checked_at_unix)
// Returns the base58-encoded hash.
//
// The same observation can reach a consumer twice, once from a list
// query and once from a push event. The fingerprint identifies the
// duplicate regardless of which path delivered it.
func ComputeCheckID(check *domain.AvailabilityCheck) string {
	linkID := ""
	if check.RetailerLinkID != nil {
		linkID = *check.RetailerLinkID
	}

	priceStr := ""
	if check.PriceMinorUnits != nil {
		priceStr = fmt.Sprintf("%d", *check.PriceMinorUnits)
	}

	currency := ""
	if check.Currency != nil {
		currency = *check.Currency
	}

	data := fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		check.ProductID,
		linkID,
		string(check.Status),
		priceStr,
		currency,
		check.CheckedAt.UTC().Unix(),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// ComputeRunItemID computes a deterministic id for one item of a bulk
// run.
// Formula: SHA256(run_id|product_id|started_at_unix)
func ComputeRunItemID(runID, productID string, startedAt time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", runID, productID, startedAt.UTC().Unix())

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
