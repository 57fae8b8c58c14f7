package services

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"collapse/internal/amqp"
	"collapse/internal/core"
	"collapse/internal/ledger"
	"collapse/internal/log"
	"collapse/internal/report"
	"collapse/internal/storage"
)

// Syncer refreshes the local ledger cache.
type Syncer interface {
	Sync(ctx context.Context, remoteURL, localPath string) ledger.Outcome
}

// Store is an opened ledger handle.
type Store interface {
	EventStore
	TotalEventCount(ctx context.Context) (int, error)
	Close() error
}

// StoreOpener opens the ledger at path.
type StoreOpener func(path string) (Store, error)

// Notifier receives pipeline notifications. Failures never stop a run.
type Notifier interface {
	PublishLedgerSync(ctx context.Context, msg *amqp.LedgerSyncMessage) error
	PublishReportSummary(ctx context.Context, msg *amqp.ReportSummaryMessage) error
}

// OpenSQLiteStore is the StoreOpener backed by storage.Open.
func OpenSQLiteStore(path string) (Store, error) {
	s, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PipelineConfig holds the settings of one run.
type PipelineConfig struct {
	LedgerURL  string
	LedgerPath string
	SkipSync   bool
	Workers    int
	Categories []core.Category // defaults to core.Categories()
}

// Pipeline runs sync, count, aggregate and render strictly in that order.
type Pipeline struct {
	cfg       PipelineConfig
	syncer    Syncer
	openStore StoreOpener
	renderer  report.Renderer
	exports   []report.Renderer
	notifier  Notifier
	clock     clockwork.Clock
	logger    *log.Logger
}

// NewPipeline wires a pipeline. renderer is required; exports and notifier
// are best-effort sinks and may be empty or nil.
func NewPipeline(cfg PipelineConfig, syncer Syncer, openStore StoreOpener, renderer report.Renderer, exports []report.Renderer, notifier Notifier, logger *log.Logger) *Pipeline {
	if len(cfg.Categories) == 0 {
		cfg.Categories = core.Categories()
	}
	return &Pipeline{
		cfg:       cfg,
		syncer:    syncer,
		openStore: openStore,
		renderer:  renderer,
		exports:   exports,
		notifier:  notifier,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
	}
}

// Run executes one pass. A failed sync is logged and the run continues with
// whatever cache exists; an unavailable store aborts the run.
func (p *Pipeline) Run(ctx context.Context) (core.Report, error) {
	if p.cfg.SkipSync {
		p.logger.InfoContext(ctx, "Ledger sync skipped", log.FieldPath, p.cfg.LedgerPath)
	} else {
		outcome := p.syncer.Sync(ctx, p.cfg.LedgerURL, p.cfg.LedgerPath)
		p.notifySync(ctx, outcome)
	}

	storeLogger := p.logger.WithComponent(log.ComponentStore)
	storeLogger.InfoContext(ctx, "Loading ledger", log.FieldPath, p.cfg.LedgerPath)

	store, err := p.openStore(p.cfg.LedgerPath)
	if err != nil {
		return core.Report{}, fmt.Errorf("open event store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			storeLogger.WarnContext(ctx, "Failed to close event store", log.FieldError, err)
		}
	}()

	total, err := store.TotalEventCount(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("count events: %w", err)
	}
	storeLogger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpCount,
		log.FieldTotalEvents, total)

	matrix, err := NewMonthlyAggregator(store, p.cfg.Workers, p.logger).Aggregate(ctx, p.cfg.Categories)
	if err != nil {
		return core.Report{}, fmt.Errorf("aggregate monthly statistics: %w", err)
	}

	r := core.Report{
		Categories:  p.cfg.Categories,
		Matrix:      matrix,
		TotalEvents: total,
	}

	if err := p.renderer.Render(ctx, r); err != nil {
		return r, fmt.Errorf("render report: %w", err)
	}

	reportLogger := p.logger.WithComponent(log.ComponentReport)
	for _, exp := range p.exports {
		if err := exp.Render(ctx, r); err != nil {
			reportLogger.ErrorContext(ctx, "Report export failed",
				log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		}
	}

	p.notifySummary(ctx, r)

	return r, nil
}

func (p *Pipeline) notifySync(ctx context.Context, o ledger.Outcome) {
	if p.notifier == nil {
		return
	}
	msg := &amqp.LedgerSyncMessage{
		Outcome:    string(o.Kind),
		RemoteSize: o.RemoteSize,
		LocalSize:  o.LocalSize,
		Reason:     o.Reason,
		DurationMs: o.Duration.Milliseconds(),
		Timestamp:  p.clock.Now().UTC(),
	}
	if err := p.notifier.PublishLedgerSync(ctx, msg); err != nil {
		p.logger.WithComponent(log.ComponentAMQP).WarnContext(ctx, "Failed to publish sync outcome",
			log.FieldOperation, log.OpPublish, log.FieldError, err)
	}
}

func (p *Pipeline) notifySummary(ctx context.Context, r core.Report) {
	if p.notifier == nil {
		return
	}
	counts := make(map[string]int, len(r.Categories))
	for _, c := range r.Categories {
		counts[string(c)] = r.Matrix.TotalEvents(c)
	}
	msg := &amqp.ReportSummaryMessage{
		TotalEvents:    r.TotalEvents,
		CategoryCounts: counts,
		Timestamp:      p.clock.Now().UTC(),
	}
	if err := p.notifier.PublishReportSummary(ctx, msg); err != nil {
		p.logger.WithComponent(log.ComponentAMQP).WarnContext(ctx, "Failed to publish report summary",
			log.FieldOperation, log.OpPublish, log.FieldError, err)
	}
}
