package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avandyck/outliner/internal/outline"
	"github.com/avandyck/outliner/internal/parser"
	"github.com/avandyck/outliner/internal/pdfspan"
	"github.com/avandyck/outliner/internal/store"
)

// Worker processes a single document job: parse, validate, deliver.
type Worker struct {
	sinks []store.Store
	stats *pdfspan.Stats
	jobs  *JobStore
	log   *slog.Logger
	cfg   outline.Config
}

func NewWorker(sinks []store.Store, stats *pdfspan.Stats, jobs *JobStore, log *slog.Logger, cfg outline.Config) *Worker {
	return &Worker{
		sinks: sinks,
		stats: stats,
		jobs:  jobs,
		log:   log,
		cfg:   cfg,
	}
}

// Process runs the full extraction pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Dedup check on the raw upload bytes.
	hash := ContentHashHex(job.FileData())
	job.SetContentHash(hash)
	if prior := w.jobs.FindByHash(hash, job.ID); prior != nil {
		log.Info("duplicate document, skipping", "prior_job_id", prior.ID)
		job.SetResult(prior.Result(), prior.Traces(), prior.Snapshot().Progress.Pages)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Parse into a title and outline.
	job.SetStatus(StatusParsing, "parsing document")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.Config = w.cfg
		pdfParser.Stats = w.stats
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	var traces []outline.StageTrace
	pages := 0
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		traces = pdfParser.Traces
		pages = countPages(doc)
	}
	job.SetResult(doc, traces, pages)

	if idx := outline.ValidateDocument(doc); idx >= 0 {
		log.Error("invalid outline entry", "index", idx, "entry", doc.Outline[idx])
		job.AddError(fmt.Sprintf("invalid outline entry at %d", idx))
		job.SetStatus(StatusFailed, "validating")
		return
	}
	log.Info("outline built", "title", doc.Title, "headings", len(doc.Outline))

	// Phase 3: Deliver to every sink, retrying transient failures.
	job.SetStatus(StatusStoring, "storing results")
	name := docName(job.Filename)
	hadErrors := false
	stored := 0
	for _, sink := range w.sinks {
		if err := w.deliver(ctx, sink, name, doc, log); err != nil {
			job.AddError(fmt.Sprintf("store: %s", err))
			job.AddSinkResult(false)
			hadErrors = true
			continue
		}
		job.AddSinkResult(true)
		stored++
	}

	switch {
	case hadErrors && stored > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) deliver(ctx context.Context, sink store.Store, name string, doc *outline.Document, log *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = sink.Save(ctx, name, doc)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// countPages derives the page span of a document from its entries.
// Entry pages are 0-indexed.
func countPages(doc *outline.Document) int {
	max := 0
	for _, e := range doc.Outline {
		if e.Page+1 > max {
			max = e.Page + 1
		}
	}
	return max
}

// docName strips the extension to get the logical document name sinks
// key results by.
func docName(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}
