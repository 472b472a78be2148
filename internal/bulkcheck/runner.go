// Package bulkcheck drives a bulk availability run against the backend
// and relays per-item progress to the caller while the run is in flight.
package bulkcheck

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pricewatch/internal/backend"
	"pricewatch/internal/domain"
	"pricewatch/internal/idhash"
	"pricewatch/internal/notify"
)

// Progress is delivered once per completed item during a run. ItemID is
// the deterministic fingerprint of the item within its run, stable
// across redeliveries of the same event.
type Progress struct {
	RunID     string
	ItemID    string
	Current   int
	Total     int
	ProductID string
}

// Runner starts bulk availability runs and tracks their progress events.
type Runner struct {
	client   backend.Client
	events   backend.EventStream
	notifier notify.Notifier
	logger   *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Client   backend.Client
	Events   backend.EventStream
	Notifier notify.Notifier
	Logger   *log.Logger
}

// NewRunner creates a bulk-check runner.
func NewRunner(opts RunnerOptions) *Runner {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		client:   opts.Client,
		events:   opts.Events,
		notifier: notifier,
		logger:   logger,
	}
}

// Run checks every product in productIDs in a single backend run.
//
// Progress events for the run are forwarded to onProgress (which may be
// nil) as they arrive. The subscription is registered before the run is
// started so no event can be missed, and released on every exit path.
// A run where some items failed still returns a summary; the error is
// non-nil only when the run itself could not be executed.
func (r *Runner) Run(ctx context.Context, productIDs []string, onProgress func(Progress)) (*domain.BulkCheckSummary, error) {
	if len(productIDs) == 0 {
		return &domain.BulkCheckSummary{}, nil
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC()

	progressCh, release, err := r.events.Subscribe(ctx, backend.EventCheckProgress)
	if err != nil {
		return nil, fmt.Errorf("subscribe to progress events: %w", err)
	}
	defer release()

	forward := func(ev backend.Event) {
		p, err := backend.DecodeProgress(ev)
		if err != nil {
			r.logger.Printf("[bulkcheck] malformed progress event: %v", err)
			return
		}
		// Events for other concurrent runs share the channel.
		if p.RunID != runID {
			return
		}
		if onProgress != nil {
			onProgress(Progress{
				RunID:     p.RunID,
				ItemID:    idhash.ComputeRunItemID(p.RunID, p.ProductID, startedAt),
				Current:   p.Current,
				Total:     p.Total,
				ProductID: p.ProductID,
			})
		}
	}

	stop := make(chan struct{})
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-progressCh:
				if !ok {
					return
				}
				forward(ev)
			case <-stop:
				// The run has settled. Drain events already buffered so
				// callers see every item before Run returns.
				for {
					select {
					case ev, ok := <-progressCh:
						if !ok {
							return
						}
						forward(ev)
					default:
						return
					}
				}
			}
		}
	}()

	summary, err := r.client.RunBulkCheck(ctx, runID, productIDs)

	close(stop)
	<-forwardDone
	release()

	if err != nil {
		r.notifier.Notify(notify.Notice{
			Kind:    notify.KindRequestFailed,
			Message: "Bulk check failed to start",
		})
		return nil, fmt.Errorf("run bulk check: %w", err)
	}

	if summary.Failed > 0 {
		r.notifier.Notify(notify.Notice{
			Kind:    notify.KindPartialFailure,
			Message: fmt.Sprintf("%d of %d checks failed", summary.Failed, summary.Total),
		})
	}
	r.logger.Printf("[bulkcheck] run %s finished: %d succeeded, %d failed", runID, summary.Succeeded, summary.Failed)

	return summary, nil
}

// WatchVerification forwards verification prompts from the backend until
// ctx is cancelled. Checks against some retailers stall on an
// anti-bot interstitial; the backend asks the operator to resolve it in
// a browser and confirm.
func (r *Runner) WatchVerification(ctx context.Context, onPrompt func(backend.VerificationRequired)) error {
	ch, release, err := r.events.Subscribe(ctx, backend.EventVerificationRequired)
	if err != nil {
		return fmt.Errorf("subscribe to verification events: %w", err)
	}
	defer release()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			v, err := backend.DecodeVerification(ev)
			if err != nil {
				r.logger.Printf("[bulkcheck] malformed verification event: %v", err)
				continue
			}
			if onPrompt != nil {
				onPrompt(v)
			}
		}
	}
}

// ConfirmVerification tells the backend the operator has completed the
// verification challenge for domain.
func (r *Runner) ConfirmVerification(ctx context.Context, domain string) error {
	if err := r.client.ConfirmVerification(ctx, domain); err != nil {
		return fmt.Errorf("confirm verification for %s: %w", domain, err)
	}
	return nil
}
