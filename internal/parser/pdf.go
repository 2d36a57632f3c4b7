package parser

import (
	"fmt"
	"io"
	"time"

	"github.com/avandyck/outliner/internal/outline"
	"github.com/avandyck/outliner/internal/pdfspan"
)

// titleBuffer keeps headings that sit flush against the title's lower
// edge from being swallowed into the title region.
const titleBuffer = 10

// PDFParser handles PDF files through the positioned-fragment pipeline.
// Config defaults apply when the zero value is used.
type PDFParser struct {
	Config outline.Config
	Stats  *pdfspan.Stats

	// Traces from the most recent Parse call.
	Traces []outline.StageTrace
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	start := time.Now()
	res, err := pdfspan.ExtractReader(r)
	if err != nil {
		return nil, fmt.Errorf("extract pdf: %w", err)
	}
	if p.Stats != nil {
		p.Stats.RecordSince(start)
	}
	return p.fromFragments(res)
}

// ParseFile skips the temp-file copy when the PDF is already on disk.
func (p *PDFParser) ParseFile(path string) (*outline.Document, error) {
	start := time.Now()
	res, err := pdfspan.ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract pdf: %w", err)
	}
	if p.Stats != nil {
		p.Stats.RecordSince(start)
	}
	return p.fromFragments(res)
}

func (p *PDFParser) fromFragments(res *pdfspan.Result) (*outline.Document, error) {
	cfg := p.Config
	if cfg == (outline.Config{}) {
		cfg = outline.DefaultConfig()
	}

	var page1 []outline.Fragment
	for _, f := range res.Fragments {
		if f.Page == 1 {
			page1 = append(page1, f)
		}
	}
	pageWidth := 0.0
	if len(res.Pages) > 0 {
		pageWidth = res.Pages[0].Width
	}

	// No resolved title stays an empty title; the output title is the
	// page-1 resolution or "", never the filename.
	titleRes := outline.ResolveTitle(page1, pageWidth, cfg)
	title := titleRes.Title
	lowerY := cfg.DefaultTitleLowerY + titleBuffer
	if titleRes.Found {
		lowerY = titleRes.LowerY + titleBuffer
	}

	doc, traces := outline.Build(res.Fragments, res.Pages, title, lowerY, cfg)
	p.Traces = traces
	return &doc, nil
}
