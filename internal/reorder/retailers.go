package reorder

import (
	"context"
	"fmt"

	"pricewatch/internal/backend"
	"pricewatch/internal/domain"
	"pricewatch/internal/notify"
	"pricewatch/internal/querycache"
)

// LinkReorderer persists a new retailer-link ordering within one product,
// with the same optimistic-then-reconcile shape as ProductReorderer.
type LinkReorderer struct {
	settings
	cache    *querycache.Cache
	client   backend.Client
	notifier notify.Notifier
}

// NewLinkReorderer creates a LinkReorderer. A nil notifier discards
// notices.
func NewLinkReorderer(cache *querycache.Cache, client backend.Client, notifier notify.Notifier, opts ...Option) *LinkReorderer {
	if notifier == nil {
		notifier = notify.Discard
	}
	r := &LinkReorderer{cache: cache, client: client, notifier: notifier}
	for _, opt := range opts {
		opt(&r.settings)
	}
	return r
}

// Reorder applies ordered as the new link order of productID. Sort
// orders stay a dense 0-based sequence among the product's links.
func (r *LinkReorderer) Reorder(ctx context.Context, productID string, ordered []*domain.ProductRetailerLink) error {
	if len(ordered) == 0 {
		return nil
	}

	optimistic := make([]*domain.ProductRetailerLink, len(ordered))
	items := make([]domain.ReorderItem, len(ordered))
	for i, l := range ordered {
		updated := *l
		updated.SortOrder = i
		optimistic[i] = &updated
		items[i] = domain.ReorderItem{ID: l.ID, SortOrder: i}
	}
	querycache.SetRetailerLinks(r.cache, productID, optimistic)

	authoritative, err := r.client.ReorderRetailerLinks(ctx, productID, items)
	if err != nil {
		r.rollback(ctx, productID)
		r.notifier.Notify(notify.Notice{
			Kind:    notify.KindRequestFailed,
			Message: "Failed to save retailer order",
		})
		wrapped := fmt.Errorf("reorder retailer links: %w", err)
		if r.observe != nil {
			r.observe(wrapped)
		}
		return wrapped
	}

	querycache.SetRetailerLinks(r.cache, productID, authoritative)
	if r.observe != nil {
		r.observe(nil)
	}
	return nil
}

func (r *LinkReorderer) rollback(ctx context.Context, productID string) {
	links, err := r.client.ListRetailerLinks(ctx, productID)
	if err != nil {
		r.cache.Invalidate(querycache.RetailerLinksKey(productID))
		return
	}
	querycache.SetRetailerLinks(r.cache, productID, links)
}
