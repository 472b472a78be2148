// Package stub provides in-memory implementations of the backend
// boundaries for tests and offline demo runs.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"pricewatch/internal/backend"
	"pricewatch/internal/domain"
)

// Backend implements backend.Client and backend.EventStream against
// in-memory state. A bulk run emits the same progress events a real
// backend would push.
type Backend struct {
	mu       sync.Mutex
	products []*domain.Product
	links    map[string][]*domain.ProductRetailerLink
	checks   map[string][]*domain.AvailabilityCheck

	subsMu  sync.Mutex
	subs    map[int]*subscription
	nextSub int
	closed  bool

	// CheckErr, when set for a product id, fails that item of a bulk run.
	CheckErr map[string]string
}

type subscription struct {
	event string
	ch    chan backend.Event
}

// New creates an empty stub backend.
func New() *Backend {
	return &Backend{
		links:    make(map[string][]*domain.ProductRetailerLink),
		checks:   make(map[string][]*domain.AvailabilityCheck),
		subs:     make(map[int]*subscription),
		CheckErr: make(map[string]string),
	}
}

var (
	_ backend.Client      = (*Backend)(nil)
	_ backend.EventStream = (*Backend)(nil)
)

// SeedProducts replaces the product list.
func (b *Backend) SeedProducts(products []*domain.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = products
}

// SeedRetailerLinks replaces the retailer links of one product.
func (b *Backend) SeedRetailerLinks(productID string, links []*domain.ProductRetailerLink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.links[productID] = links
}

// SeedChecks replaces the checks of one product.
func (b *Backend) SeedChecks(productID string, checks []*domain.AvailabilityCheck) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checks[productID] = checks
}

// ListProducts returns the seeded products ordered by sort_order.
func (b *Backend) ListProducts(_ context.Context) ([]*domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]*domain.Product, len(b.products))
	copy(result, b.products)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

// ListRetailerLinks returns the seeded links ordered by sort_order.
func (b *Backend) ListRetailerLinks(_ context.Context, productID string) ([]*domain.ProductRetailerLink, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	links := b.links[productID]
	result := make([]*domain.ProductRetailerLink, len(links))
	copy(result, links)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

// ListChecks returns the seeded checks of a product. Range filtering is
// left to the caller's transformation layer.
func (b *Backend) ListChecks(_ context.Context, productID string, _ domain.TimeRange) ([]*domain.AvailabilityCheck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	checks := b.checks[productID]
	result := make([]*domain.AvailabilityCheck, len(checks))
	copy(result, checks)
	return result, nil
}

// LatestCheck returns the most recent seeded check, nil when none.
func (b *Backend) LatestCheck(_ context.Context, productID string) (*domain.AvailabilityCheck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var latest *domain.AvailabilityCheck
	for _, c := range b.checks[productID] {
		if latest == nil || c.CheckedAt.After(latest.CheckedAt) {
			latest = c
		}
	}
	return latest, nil
}

// ReorderProducts applies the given ordering and returns the list.
func (b *Backend) ReorderProducts(_ context.Context, items []domain.ReorderItem) ([]*domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	byID := make(map[string]*domain.Product, len(b.products))
	for _, p := range b.products {
		byID[p.ID] = p
	}

	result := make([]*domain.Product, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ID]
		if !ok {
			return nil, fmt.Errorf("unknown product %q", item.ID)
		}
		updated := *p
		updated.SortOrder = item.SortOrder
		result = append(result, &updated)
	}
	b.products = result
	return result, nil
}

// ReorderRetailerLinks applies the given ordering within a product.
func (b *Backend) ReorderRetailerLinks(_ context.Context, productID string, items []domain.ReorderItem) ([]*domain.ProductRetailerLink, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	byID := make(map[string]*domain.ProductRetailerLink)
	for _, l := range b.links[productID] {
		byID[l.ID] = l
	}

	result := make([]*domain.ProductRetailerLink, 0, len(items))
	for _, item := range items {
		l, ok := byID[item.ID]
		if !ok {
			return nil, fmt.Errorf("unknown retailer link %q", item.ID)
		}
		updated := *l
		updated.SortOrder = item.SortOrder
		result = append(result, &updated)
	}
	b.links[productID] = result
	return result, nil
}

// RunBulkCheck walks the listed products, emitting one check-progress
// event per item and a check-complete event at the end.
func (b *Backend) RunBulkCheck(_ context.Context, runID string, productIDs []string) (*domain.BulkCheckSummary, error) {
	summary := &domain.BulkCheckSummary{
		RunID: runID,
		Total: len(productIDs),
	}

	for i, productID := range productIDs {
		if msg, failed := b.CheckErr[productID]; failed {
			summary.Failed++
			summary.Failures = append(summary.Failures, domain.BulkCheckFailure{
				ProductID: productID,
				Error:     msg,
			})
		} else {
			summary.Succeeded++
			b.appendCheck(productID)
		}

		b.Emit(backend.EventCheckProgress, backend.CheckProgress{
			RunID:     runID,
			Current:   i + 1,
			Total:     len(productIDs),
			ProductID: productID,
		})
	}

	b.Emit(backend.EventCheckComplete, summary)
	return summary, nil
}

// appendCheck records a synthetic in-stock observation.
func (b *Backend) appendCheck(productID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checks[productID] = append(b.checks[productID], &domain.AvailabilityCheck{
		ID:        fmt.Sprintf("check-%s-%d", productID, len(b.checks[productID])+1),
		ProductID: productID,
		Status:    domain.StatusInStock,
		CheckedAt: time.Now().UTC(),
	})
}

// ConfirmVerification accepts any confirmation.
func (b *Backend) ConfirmVerification(_ context.Context, _ string) error {
	return nil
}

// Subscribe implements backend.EventStream.
func (b *Backend) Subscribe(_ context.Context, event string) (<-chan backend.Event, func(), error) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	if b.closed {
		return nil, nil, fmt.Errorf("event stream closed")
	}

	sub := &subscription{event: event, ch: make(chan backend.Event, 256)}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = sub

	var once sync.Once
	release := func() {
		once.Do(func() {
			b.subsMu.Lock()
			delete(b.subs, id)
			b.subsMu.Unlock()
		})
	}
	return sub.ch, release, nil
}

// Emit pushes one named event to all its subscribers. Payloads that fail
// to marshal are dropped; the stub only carries its own types.
func (b *Backend) Emit(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	for _, sub := range b.subs {
		if sub.event != event {
			continue
		}
		select {
		case sub.ch <- backend.Event{Name: event, Payload: raw}:
		default:
		}
	}
}

// Close implements backend.EventStream.
func (b *Backend) Close() error {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
	return nil
}
