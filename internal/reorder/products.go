// Package reorder implements the optimistic drag-reorder mutations. The
// cached list is rewritten synchronously before any network round trip,
// so the UI re-renders the new order while the request is in flight;
// settlement reconciles against backend truth.
package reorder

import (
	"context"
	"fmt"

	"pricewatch/internal/backend"
	"pricewatch/internal/domain"
	"pricewatch/internal/notify"
	"pricewatch/internal/querycache"
)

// Option configures a reorderer.
type Option func(*settings)

type settings struct {
	observe func(err error)
}

// WithObserver installs a settlement observer, called once per reorder
// with the settlement error (nil on success).
func WithObserver(fn func(err error)) Option {
	return func(s *settings) { s.observe = fn }
}

// ProductReorderer persists a new product ordering optimistically.
type ProductReorderer struct {
	settings
	cache    *querycache.Cache
	client   backend.Client
	notifier notify.Notifier
}

// NewProductReorderer creates a ProductReorderer. A nil notifier
// discards notices.
func NewProductReorderer(cache *querycache.Cache, client backend.Client, notifier notify.Notifier, opts ...Option) *ProductReorderer {
	if notifier == nil {
		notifier = notify.Discard
	}
	r := &ProductReorderer{cache: cache, client: client, notifier: notifier}
	for _, opt := range opts {
		opt(&r.settings)
	}
	return r
}

// Reorder applies ordered as the new product order. The cache is
// rewritten first — each product's sort_order becomes its index — then a
// single request carries the {id, sort_order} pairs in the same order.
// Success stores the authoritative list; failure refetches it and
// discards the optimistic write.
func (r *ProductReorderer) Reorder(ctx context.Context, ordered []*domain.Product) error {
	if len(ordered) == 0 {
		return nil
	}

	optimistic := make([]*domain.Product, len(ordered))
	items := make([]domain.ReorderItem, len(ordered))
	for i, p := range ordered {
		updated := *p
		updated.SortOrder = i
		optimistic[i] = &updated
		items[i] = domain.ReorderItem{ID: p.ID, SortOrder: i}
	}
	querycache.SetProducts(r.cache, optimistic)

	authoritative, err := r.client.ReorderProducts(ctx, items)
	if err != nil {
		r.rollback(ctx)
		r.notifier.Notify(notify.Notice{
			Kind:    notify.KindRequestFailed,
			Message: "Failed to save product order",
		})
		wrapped := fmt.Errorf("reorder products: %w", err)
		if r.observe != nil {
			r.observe(wrapped)
		}
		return wrapped
	}

	querycache.SetProducts(r.cache, authoritative)
	if r.observe != nil {
		r.observe(nil)
	}
	return nil
}

// rollback discards the optimistic write by restoring backend truth.
// When even the refetch fails the entry is invalidated so the next
// reader refetches instead of trusting a stale optimistic order.
func (r *ProductReorderer) rollback(ctx context.Context) {
	products, err := r.client.ListProducts(ctx)
	if err != nil {
		r.cache.Invalidate(querycache.ProductsKey())
		return
	}
	querycache.SetProducts(r.cache, products)
}
