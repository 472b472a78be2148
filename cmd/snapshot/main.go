// Package main renders a one-shot Markdown snapshot of every tracked
// product: availability, display price, trend, and a per-retailer
// breakdown where a product has multiple links.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pricewatch/internal/backend"
	"pricewatch/internal/backend/stub"
	"pricewatch/internal/config"
	"pricewatch/internal/domain"
	"pricewatch/internal/render"
)

func main() {
	configPath := flag.String("config", os.Getenv("PRICEWATCH_CONFIG"), "Path to YAML config file")
	backendURL := flag.String("backend-url", os.Getenv("PRICEWATCH_BACKEND_URL"), "Backend invoke endpoint")
	output := flag.String("output", "", "Output file (default stdout)")
	useStub := flag.Bool("use-stub", false, "Use an in-memory stub backend with demo data")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}

	ctx := context.Background()

	var client backend.Client
	if *useStub {
		be := stub.New()
		seedFixtures(be)
		client = be
	} else {
		client = backend.NewHTTPClient(cfg.BackendURL,
			backend.WithTimeout(cfg.InvokeTimeout),
			backend.WithMaxRetries(cfg.MaxRetries),
		)
	}

	snapshot, err := buildSnapshot(ctx, client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building snapshot: %v\n", err)
		os.Exit(1)
	}

	doc := render.RenderMarkdown(snapshot)
	if *output == "" {
		fmt.Print(doc)
		return
	}
	if err := os.WriteFile(*output, []byte(doc), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
}

// buildSnapshot pulls everything a snapshot renders from the backend.
func buildSnapshot(ctx context.Context, client backend.Client) (*render.Snapshot, error) {
	products, err := client.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	snapshot := &render.Snapshot{GeneratedAt: time.Now().UTC()}
	for _, p := range products {
		links, err := client.ListRetailerLinks(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list links of %s: %w", p.ID, err)
		}
		checks, err := client.ListChecks(ctx, p.ID, domain.RangeAll)
		if err != nil {
			return nil, fmt.Errorf("list checks of %s: %w", p.ID, err)
		}
		latest, err := client.LatestCheck(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("latest check of %s: %w", p.ID, err)
		}

		snapshot.Rows = append(snapshot.Rows, render.ProductRow{
			Product: p,
			Latest:  latest,
			Links:   links,
			Checks:  checks,
		})
	}
	return snapshot, nil
}

// seedFixtures loads demo data so the command produces output without a
// backend.
func seedFixtures(be *stub.Backend) {
	now := time.Now().UTC()
	usd := "USD"
	linkA := "link-a"
	linkB := "link-b"
	price := func(v int64) *int64 { return &v }

	be.SeedProducts([]*domain.Product{
		{ID: "demo-camera", Name: "Mirrorless Camera", SortOrder: 0, CreatedAt: now},
		{ID: "demo-lens", Name: "50mm Lens", SortOrder: 1, CreatedAt: now},
	})
	be.SeedRetailerLinks("demo-camera", []*domain.ProductRetailerLink{
		{ID: linkA, ProductID: "demo-camera", RetailerID: "r1", URL: "https://shop-a.example/camera", SortOrder: 0, CreatedAt: now},
		{ID: linkB, ProductID: "demo-camera", RetailerID: "r2", URL: "https://shop-b.example/camera", SortOrder: 1, CreatedAt: now},
	})
	be.SeedChecks("demo-camera", []*domain.AvailabilityCheck{
		{
			ID: "c1", ProductID: "demo-camera", RetailerLinkID: &linkA,
			Status: domain.StatusInStock, PriceMinorUnits: price(109999), Currency: &usd,
			CheckedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: "c2", ProductID: "demo-camera", RetailerLinkID: &linkB,
			Status: domain.StatusInStock, PriceMinorUnits: price(104999), Currency: &usd,
			CheckedAt: now.Add(-1 * time.Hour),
		},
	})
	be.SeedChecks("demo-lens", []*domain.AvailabilityCheck{
		{
			ID: "c3", ProductID: "demo-lens",
			Status:    domain.StatusOutOfStock,
			CheckedAt: now.Add(-30 * time.Minute),
		},
	})
}
