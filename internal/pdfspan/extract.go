// Package pdfspan turns a PDF into positioned text fragments. The
// underlying library reports individual glyphs with bottom-left page
// coordinates; this package merges them into spans and converts the
// geometry to the top-left origin the outline heuristics expect.
package pdfspan

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/avandyck/outliner/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
)

// Result holds everything extracted from one document.
type Result struct {
	Fragments []outline.Fragment
	Pages     []outline.PageInfo
}

const (
	fallbackPageWidth  = 612.0
	fallbackPageHeight = 792.0

	// Glyphs on the same baseline merge into one span while the
	// horizontal gap stays below this multiple of the font size.
	spanGapFactor = 1.0

	// Baseline tolerance when deciding two glyphs share a line.
	baselineTol = 2.0

	centerTol = 10.0
)

// ExtractReader copies the stream to a temp file and extracts from it.
// The pdf library needs a ReadSeeker plus the total size, so a plain
// reader cannot be fed to it directly.
func ExtractReader(r io.Reader) (*Result, error) {
	tmp, err := os.CreateTemp("", "outliner-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return ExtractFile(tmpPath)
}

// ExtractFile extracts positioned fragments from a PDF on disk.
func ExtractFile(path string) (*Result, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	res := &Result{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		width, height := pageSize(page)
		res.Pages = append(res.Pages, outline.PageInfo{Number: i, Width: width, Height: height})

		content := page.Content()
		res.Fragments = append(res.Fragments, mergeGlyphs(content.Text, i, width, height)...)
	}
	return res, nil
}

// pageSize reads the MediaBox, walking up the page tree when the box is
// inherited from an ancestor node.
func pageSize(page pdflib.Page) (width, height float64) {
	width, height = fallbackPageWidth, fallbackPageHeight

	node := page.V
	for !node.IsNull() {
		box := node.Key("MediaBox")
		if !box.IsNull() && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		node = node.Key("Parent")
	}
	return width, height
}

// mergeGlyphs groups per-glyph text items into spans: same font and
// size, shared baseline, and no large horizontal jump. Coordinates come
// out in top-left origin.
func mergeGlyphs(glyphs []pdflib.Text, pageNum int, pageWidth, pageHeight float64) []outline.Fragment {
	if len(glyphs) == 0 {
		return nil
	}

	ordered := append([]pdflib.Text(nil), glyphs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if math.Abs(ordered[i].Y-ordered[j].Y) > baselineTol {
			return ordered[i].Y > ordered[j].Y // higher on page first
		}
		return ordered[i].X < ordered[j].X
	})

	var frags []outline.Fragment
	var span []pdflib.Text
	flush := func() {
		if f, ok := spanFragment(span, pageNum, pageWidth, pageHeight); ok {
			frags = append(frags, f)
		}
		span = span[:0]
	}

	for _, g := range ordered {
		if len(span) > 0 {
			prev := span[len(span)-1]
			sameLine := math.Abs(g.Y-prev.Y) <= baselineTol
			sameStyle := g.Font == prev.Font && g.FontSize == prev.FontSize
			gap := g.X - (prev.X + prev.W)
			maxGap := spanGapFactor * math.Max(g.FontSize, 1)
			if !sameLine || !sameStyle || gap > maxGap {
				flush()
			}
		}
		span = append(span, g)
	}
	flush()
	return frags
}

func spanFragment(span []pdflib.Text, pageNum int, pageWidth, pageHeight float64) (outline.Fragment, bool) {
	if len(span) == 0 {
		return outline.Fragment{}, false
	}

	var b strings.Builder
	for i, g := range span {
		if i > 0 {
			prev := span[i-1]
			gap := g.X - (prev.X + prev.W)
			if gap > 0.25*g.FontSize && !strings.HasSuffix(b.String(), " ") && g.S != " " {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return outline.Fragment{}, false
	}

	first, last := span[0], span[len(span)-1]
	size := first.FontSize
	baseline := first.Y
	x0 := first.X
	x1 := last.X + last.W

	// Approximate ascent/descent around the baseline.
	y0 := pageHeight - baseline - 0.8*size
	y1 := pageHeight - baseline + 0.2*size

	mid := (x0 + x1) / 2
	return outline.Fragment{
		Text:     text,
		Size:     size,
		Bold:     strings.Contains(strings.ToLower(first.Font), "bold"),
		X0:       x0,
		Y0:       y0,
		X1:       x1,
		Y1:       y1,
		Page:     pageNum,
		Centered: math.Abs(mid-pageWidth/2) < centerTol,
	}, true
}
