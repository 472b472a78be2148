// Package main runs the price watch daemon: it keeps the query cache
// fresh, runs periodic bulk availability checks, and surfaces
// verification prompts, exposing Prometheus metrics while it runs.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricewatch/internal/backend"
	"pricewatch/internal/backend/stub"
	"pricewatch/internal/bulkcheck"
	"pricewatch/internal/config"
	"pricewatch/internal/domain"
	"pricewatch/internal/notify"
	"pricewatch/internal/observability"
	"pricewatch/internal/querycache"
	"pricewatch/internal/uistate"
)

func main() {
	configPath := flag.String("config", os.Getenv("PRICEWATCH_CONFIG"), "Path to YAML config file")
	backendURL := flag.String("backend-url", os.Getenv("PRICEWATCH_BACKEND_URL"), "Backend invoke endpoint")
	eventsURL := flag.String("events-url", os.Getenv("PRICEWATCH_EVENTS_URL"), "Backend event stream endpoint")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address")
	checkInterval := flag.Duration("check-interval", 1*time.Hour, "Bulk check interval")
	useStub := flag.Bool("use-stub", false, "Use an in-memory stub backend instead of a real one")

	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	// Flags and env override file values.
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *eventsURL != "" {
		cfg.EventsURL = *eventsURL
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	cache := querycache.New(querycache.WithHooks(metrics.CacheHooks()))
	notifier := notify.NewLogNotifier(logger)
	dialogs := uistate.NewStore()
	dialogs.OnChange(func(d uistate.Dialog) {
		if v, ok := d.(uistate.DialogVerification); ok {
			logger.Printf("Verification required for %s: open %s in a browser", v.Domain, v.URL)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		client backend.Client
		events backend.EventStream
	)
	if *useStub {
		be := stub.New()
		seedDemoData(be)
		client = be
		events = be
		logger.Println("Using in-memory stub backend")
	} else {
		client = backend.NewHTTPClient(cfg.BackendURL,
			backend.WithTimeout(cfg.InvokeTimeout),
			backend.WithMaxRetries(cfg.MaxRetries),
			backend.WithObserver(metrics.InvokeObserver()),
		)
		wsCfg := backend.DefaultWSConfig()
		wsCfg.OnReconnect = metrics.WSReconnects.Inc
		stream, err := backend.NewWSEventStream(ctx, cfg.EventsURL, &wsCfg, logger)
		if err != nil {
			logger.Fatalf("Failed to connect event stream: %v", err)
		}
		events = stream
	}
	defer events.Close()

	runner := bulkcheck.NewRunner(bulkcheck.RunnerOptions{
		Client:   client,
		Events:   events,
		Notifier: notifier,
		Logger:   logger,
	})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Printf("Metrics listening on %s", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Printf("Metrics server stopped: %v", err)
		}
	}()

	// Verification prompts arrive at any time, not only during runs.
	go func() {
		err := runner.WatchVerification(ctx, func(v backend.VerificationRequired) {
			metrics.RecordEvent(backend.EventVerificationRequired)
			dialogs.Open(uistate.DialogVerification{URL: v.URL, Domain: v.Domain})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("Verification watcher stopped: %v", err)
		}
	}()

	if err := run(ctx, logger, metrics, cache, client, runner, dialogs, *checkInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Watch error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// run executes one bulk check immediately and then on every tick.
func run(
	ctx context.Context,
	logger *log.Logger,
	metrics *observability.Metrics,
	cache *querycache.Cache,
	client backend.Client,
	runner *bulkcheck.Runner,
	dialogs *uistate.Store,
	interval time.Duration,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := runOnce(ctx, logger, metrics, cache, client, runner, dialogs); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Printf("Bulk check failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runOnce refreshes the product list, runs a bulk check across all
// products, and folds the fresh checks back into the cache.
func runOnce(
	ctx context.Context,
	logger *log.Logger,
	metrics *observability.Metrics,
	cache *querycache.Cache,
	client backend.Client,
	runner *bulkcheck.Runner,
	dialogs *uistate.Store,
) error {
	products, err := client.ListProducts(ctx)
	if err != nil {
		return err
	}
	querycache.SetProducts(cache, products)

	if len(products) == 0 {
		logger.Println("No products to check")
		return nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	started := time.Now()
	summary, err := runner.Run(ctx, ids, func(p bulkcheck.Progress) {
		metrics.RecordEvent(backend.EventCheckProgress)
		dialogs.Open(uistate.DialogBulkProgress{RunID: p.RunID, Current: p.Current, Total: p.Total})
	})
	dialogs.Close()
	if err != nil {
		metrics.RecordBulkRun(0, time.Since(started), err)
		return err
	}
	metrics.RecordBulkRun(summary.Failed, time.Since(started), nil)

	// Fold the run's observations back into the cache.
	for _, p := range products {
		latest, err := client.LatestCheck(ctx, p.ID)
		if err != nil {
			logger.Printf("Failed to fetch latest check for %s: %v", p.ID, err)
			continue
		}
		if latest == nil {
			continue
		}
		querycache.SetLatestCheck(cache, p.ID, latest)
		querycache.MergeChecks(cache, p.ID, domain.RangeAll, []*domain.AvailabilityCheck{latest})
	}

	logger.Printf("Run %s settled: %d/%d succeeded", summary.RunID, summary.Succeeded, summary.Total)
	return nil
}

// seedDemoData populates the stub backend so a stub run has something
// to check.
func seedDemoData(be *stub.Backend) {
	now := time.Now().UTC()
	be.SeedProducts([]*domain.Product{
		{ID: "demo-camera", Name: "Mirrorless Camera", SortOrder: 0, CreatedAt: now},
		{ID: "demo-lens", Name: "50mm Lens", SortOrder: 1, CreatedAt: now},
	})
	be.SeedRetailerLinks("demo-camera", []*domain.ProductRetailerLink{
		{ID: "link-a", ProductID: "demo-camera", RetailerID: "r1", URL: "https://shop-a.example/camera", SortOrder: 0, CreatedAt: now},
		{ID: "link-b", ProductID: "demo-camera", RetailerID: "r2", URL: "https://shop-b.example/camera", SortOrder: 1, CreatedAt: now},
	})
}
