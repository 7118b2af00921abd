package api

import (
	"context"
	"log"
	"time"

	"github.com/ignite/footprint/internal/mail"
	"github.com/ignite/footprint/internal/session"
	"github.com/ignite/footprint/internal/signal"
)

// SourceFactory opens an authenticated mail source for an account.
type SourceFactory func(ctx context.Context, email string) (mail.Source, error)

// Enricher derives qualitative traits from sent mail. Implementations
// may return (nil, nil) when they have nothing to add.
type Enricher interface {
	Analyze(ctx context.Context, sent []mail.Message) (*signal.Enrichment, error)
}

// Runner executes analysis runs in the background and reports progress
// through the session store.
type Runner struct {
	sources     SourceFactory
	enricher    Enricher // nil disables enrichment
	sessions    *session.Store
	maxReceived int
	maxSent     int
	timeout     time.Duration
}

// NewRunner creates an analysis runner.
func NewRunner(sources SourceFactory, enricher Enricher, sessions *session.Store, maxReceived, maxSent int, timeout time.Duration) *Runner {
	return &Runner{
		sources:     sources,
		enricher:    enricher,
		sessions:    sessions,
		maxReceived: maxReceived,
		maxSent:     maxSent,
		timeout:     timeout,
	}
}

// Run performs one full analysis for a session. It is meant to be
// called on its own goroutine; all outcomes land in the session store.
func (r *Runner) Run(id, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	fail := func(stage string, err error) {
		log.Printf("Analysis %s: %s failed: %v", id, stage, err)
		if serr := r.sessions.Fail(ctx, id, stage+": "+err.Error()); serr != nil {
			log.Printf("Analysis %s: recording failure also failed: %v", id, serr)
		}
	}

	if err := r.sessions.Update(ctx, id, session.StatusProcessing, 10, "connecting to mailbox"); err != nil {
		log.Printf("Analysis %s: status update failed: %v", id, err)
	}

	source, err := r.sources(ctx, email)
	if err != nil {
		fail("connect", err)
		return
	}

	userEmail, err := source.UserEmail(ctx)
	if err != nil {
		fail("profile", err)
		return
	}

	r.sessions.Update(ctx, id, session.StatusProcessing, 25, "fetching received mail")
	received, err := source.FetchReceived(ctx, r.maxReceived)
	if err != nil {
		fail("fetch received", err)
		return
	}

	r.sessions.Update(ctx, id, session.StatusProcessing, 50, "fetching sent mail")
	sent, err := source.FetchSent(ctx, r.maxSent)
	if err != nil {
		fail("fetch sent", err)
		return
	}

	extractor := signal.NewExtractor()
	if r.enricher != nil && len(sent) > 0 {
		r.sessions.Update(ctx, id, session.StatusProcessing, 70, "analyzing writing style")
		enrichment, err := r.enricher.Analyze(ctx, sent)
		if err != nil {
			// Enrichment is additive; heuristics carry the run.
			log.Printf("Analysis %s: enrichment unavailable: %v", id, err)
		} else if enrichment != nil {
			extractor = extractor.WithEnrichment(enrichment)
		}
	}

	r.sessions.Update(ctx, id, session.StatusProcessing, 85, "extracting signals")
	report := extractor.ExtractAllSignals(received, sent, userEmail)

	if err := r.sessions.Complete(ctx, id, &report); err != nil {
		log.Printf("Analysis %s: storing result failed: %v", id, err)
		return
	}
	log.Printf("Analysis %s: completed for %s (quality %.2f)", id, userEmail, report.QualityScore)
}
