// Package backend holds the clients for the two tracker-backend
// boundaries: the request/response invoke boundary (JSON-RPC over HTTP)
// and the push-event boundary (WebSocket).
package backend

import (
	"context"

	"pricewatch/internal/domain"
)

// Invoker issues one backend command: a command name plus a
// JSON-serializable argument object, decoded into result on success.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any, result any) error
}

// Client is the typed surface over the invoke boundary.
type Client interface {
	// ListProducts retrieves all products ordered by sort_order.
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	// ListRetailerLinks retrieves a product's retailer links ordered by sort_order.
	ListRetailerLinks(ctx context.Context, productID string) ([]*domain.ProductRetailerLink, error)

	// ListChecks retrieves a product's availability checks for a time range.
	ListChecks(ctx context.Context, productID string, r domain.TimeRange) ([]*domain.AvailabilityCheck, error)

	// LatestCheck retrieves a product's most recent check, nil when none exists.
	LatestCheck(ctx context.Context, productID string) (*domain.AvailabilityCheck, error)

	// ReorderProducts persists a new product ordering and returns the authoritative list.
	ReorderProducts(ctx context.Context, items []domain.ReorderItem) ([]*domain.Product, error)

	// ReorderRetailerLinks persists a new link ordering within a product.
	ReorderRetailerLinks(ctx context.Context, productID string, items []domain.ReorderItem) ([]*domain.ProductRetailerLink, error)

	// RunBulkCheck checks every listed product and returns a per-item summary.
	RunBulkCheck(ctx context.Context, runID string, productIDs []string) (*domain.BulkCheckSummary, error)

	// ConfirmVerification reports a completed manual verification for a URL.
	ConfirmVerification(ctx context.Context, url string) error
}

// Backend commands
const (
	CmdListProducts         = "products.list"
	CmdListRetailerLinks    = "retailerLinks.list"
	CmdListChecks           = "checks.list"
	CmdLatestCheck          = "checks.latest"
	CmdReorderProducts      = "products.reorder"
	CmdReorderRetailerLinks = "retailerLinks.reorder"
	CmdRunBulkCheck         = "checks.runBulk"
	CmdConfirmVerification  = "verification.confirm"
)
