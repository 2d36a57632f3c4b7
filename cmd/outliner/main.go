// Command outliner extracts a title and heading outline from every PDF
// in an input directory, writing one JSON file per document.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avandyck/outliner/internal/parser"
	"github.com/avandyck/outliner/internal/pdfspan"
	"github.com/avandyck/outliner/internal/store"
)

func main() {
	inputDir := flag.String("input", "input", "directory containing PDF files")
	outputDir := flag.String("output", "output", "directory to write outline JSON files")
	verbose := flag.Bool("v", false, "log per-stage removals")
	flag.Parse()

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if *verbose {
		opts.Level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, opts))

	pdfs, err := filepath.Glob(filepath.Join(*inputDir, "*.pdf"))
	if err != nil {
		log.Error("bad input dir", "dir", *inputDir, "error", err)
		os.Exit(1)
	}
	if len(pdfs) == 0 {
		log.Warn("no pdf files found", "dir", *inputDir)
		return
	}

	sink, err := store.NewFileStore(*outputDir)
	if err != nil {
		log.Error("output dir unavailable", "dir", *outputDir, "error", err)
		os.Exit(1)
	}

	stats := pdfspan.NewStats(time.Hour)
	p := &parser.PDFParser{Stats: stats}
	ctx := context.Background()

	succeeded, failed := 0, 0
	for _, path := range pdfs {
		name := filepath.Base(path)
		doc, err := p.ParseFile(path)
		if err != nil {
			log.Error("extraction failed", "file", name, "error", err)
			failed++
			continue
		}

		if *verbose {
			for _, trace := range p.Traces {
				log.Debug("stage", "file", name, "name", trace.Stage,
					"survived", trace.Survived, "removed", len(trace.Removed),
					"assumed_page_height", trace.AssumedPageHeight)
			}
		}

		if err := sink.Save(ctx, name, doc); err != nil {
			log.Error("write failed", "file", name, "error", err)
			failed++
			continue
		}
		log.Info("processed", "file", name, "title", doc.Title, "headings", len(doc.Outline))
		succeeded++
	}

	snap := stats.Snapshot()
	log.Info("done", "succeeded", succeeded, "failed", failed,
		"avg_ms", snap.AvgMs, "p95_ms", snap.P95Ms)
	if failed > 0 && succeeded == 0 {
		os.Exit(1)
	}
}
