// Package outline infers a document title and heading outline from
// positioned text fragments, using geometric and typographic heuristics
// rather than embedded structure. Fragments flow through table
// exclusion, line and block grouping, repetition removal, a chain of
// pruning filters, and a size-ranked classifier.
package outline

import (
	"sort"
	"strings"
)

// HeadingEntry is one outline entry. Page is 0-indexed in the output
// document even though fragments arrive with 1-indexed pages.
type HeadingEntry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Document is the final extraction result.
type Document struct {
	Title   string         `json:"title"`
	Outline []HeadingEntry `json:"outline"`
}

// Build runs the full heading pipeline over the document's fragments.
// The title is resolved separately by the caller (see ResolveTitle) and
// passed in so page-1 fragments above titleLowerY can be excluded from
// heading consideration. Traces record every stage's removals in order.
func Build(frags []Fragment, pages []PageInfo, title string, titleLowerY float64, cfg Config) (Document, []StageTrace) {
	doc := Document{Title: title, Outline: []HeadingEntry{}}
	var traces []StageTrace

	frags = filterMeaningful(normalize(frags))
	if len(frags) == 0 {
		return doc, traces
	}

	frags, trace := excludeTabular(frags, pages, cfg)
	traces = append(traces, trace)

	lines := GroupLines(frags, cfg)

	// Drop page-1 lines overlapping the resolved title region.
	if titleLowerY > 0 {
		var kept []Line
		for _, l := range lines {
			if l.Page == 1 && l.Y0 < titleLowerY {
				continue
			}
			kept = append(kept, l)
		}
		lines = kept
	}

	lines, trace = RemoveRepeating(lines, cfg)
	traces = append(traces, trace)

	lines, trace = RemoveOrdinalSuffixes(lines)
	traces = append(traces, trace)

	blocks := GroupBlocks(lines, cfg)

	blocks, trace = FilterStartingPosition(blocks, cfg)
	traces = append(traces, trace)

	blocks, trace = FilterLineCount(blocks, cfg)
	traces = append(traces, trace)

	blocks, trace = FilterPagePosition(blocks, pages, cfg)
	traces = append(traces, trace)

	blocks, trace = FilterCopyright(blocks)
	traces = append(traces, trace)

	blocks, trace = FilterCrossPageDuplicates(blocks, len(pages), cfg)
	traces = append(traces, trace)

	blocks, trace = FilterPageNumbersDatesTOC(blocks)
	traces = append(traces, trace)

	blocks, trace = FilterNumberingInterruptions(blocks)
	traces = append(traces, trace)

	blocks, trace = ClassifyHeadings(blocks)
	traces = append(traces, trace)

	if len(blocks) == 0 {
		return doc, traces
	}

	levels := AssignLevels(blocks)

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Page != blocks[j].Page {
			return blocks[i].Page < blocks[j].Page
		}
		return blocks[i].Y0 < blocks[j].Y0
	})

	for _, b := range blocks {
		doc.Outline = append(doc.Outline, HeadingEntry{
			Level: levels[roundSize(b.Size)],
			Text:  strings.TrimSpace(b.Text),
			Page:  b.Page - 1,
		})
	}
	return doc, traces
}
