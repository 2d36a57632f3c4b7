package outline

import (
	"math"
	"sort"
	"unicode"
)

// Fragment is the smallest unit of positioned text, as produced by the
// page-extraction collaborator. Coordinates use a top-left origin.
type Fragment struct {
	Text     string
	Size     float64
	Bold     bool
	X0, Y0   float64
	X1, Y1   float64
	Page     int // 1-indexed
	Centered bool
}

// PageInfo carries per-page geometry from the extraction collaborator.
type PageInfo struct {
	Number int // 1-indexed
	Width  float64
	Height float64
}

// Config holds the heuristic thresholds. All values are in PDF points
// unless noted otherwise.
type Config struct {
	LineBucket   float64 // y quantization for line grouping
	HeaderBand   float64 // distance from page top for header candidates
	FooterBand   float64 // distance from page bottom for footer candidates
	ParagraphGap float64 // vertical gap that splits a block
	SizeTol      float64 // font size tolerance within a block
	LargeFontPt  float64 // multi-line blocks at or above this size survive
	FooterMargin float64 // footer region depth for the page-position filter
	CenterRatio  float64 // starting-position cutoff as a fraction of max x1

	TableAlign   float64 // grid bucket width for table detection
	TableMinCols int
	TableMinRows int
	TablePad     float64 // padding added around detected table bounds
	TableOverlap float64 // fraction of a fragment's area inside a region

	TitleGapLimit   float64 // max vertical gap when combining title texts
	TitleAlignLimit float64 // max center distance / centering tolerance
	TitleMaxWords   int     // size groups longer than this are not titles

	DefaultTitleLowerY float64 // heading search start when no title found
}

// DefaultConfig returns the thresholds the heuristics were tuned with.
func DefaultConfig() Config {
	return Config{
		LineBucket:   2.0,
		HeaderBand:   100,
		FooterBand:   100,
		ParagraphGap: 20,
		SizeTol:      0.1,
		LargeFontPt:  16.0,
		FooterMargin: 100,
		CenterRatio:  0.5,

		TableAlign:   5.0,
		TableMinCols: 2,
		TableMinRows: 2,
		TablePad:     10,
		TableOverlap: 0.3,

		TitleGapLimit:   50,
		TitleAlignLimit: 100,
		TitleMaxWords:   20,

		DefaultTitleLowerY: 200,
	}
}

// defaultPageHeight is assumed when a page's true height is unavailable
// (US Letter, 792 points). Stages that fall back to it say so in their
// trace so callers can tell.
const defaultPageHeight = 792.0

const defaultPageWidth = 612.0

// normalize drops fragments with degenerate geometry. A malformed
// fragment skips silently rather than failing the page.
func normalize(frags []Fragment) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if f.X1 <= f.X0 || f.Y1 <= f.Y0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// meaningful reports whether text contains at least one letter or digit.
func meaningful(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// filterMeaningful keeps fragments carrying at least one alphanumeric rune.
func filterMeaningful(frags []Fragment) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if meaningful(f.Text) {
			out = append(out, f)
		}
	}
	return out
}

// bucket snaps v onto a grid of the given width.
func bucket(v, width float64) float64 {
	return math.Round(v/width) * width
}

// roundSize rounds a font size to one decimal, the resolution at which
// sizes are compared everywhere in the pipeline.
func roundSize(s float64) float64 {
	return math.Round(s*10) / 10
}

// byPage splits fragments into per-page slices, preserving order.
func byPage(frags []Fragment) map[int][]Fragment {
	pages := make(map[int][]Fragment)
	for _, f := range frags {
		pages[f.Page] = append(pages[f.Page], f)
	}
	return pages
}

// sortedPages returns the keys of a per-page map in ascending order.
func sortedPages[T any](m map[int][]T) []int {
	pages := make([]int, 0, len(m))
	for p := range m {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// pageGeometry returns the page's dimensions, falling back to US Letter
// when the collaborator did not report them. The second return value is
// false when the fallback was used.
func pageGeometry(pages []PageInfo, number int) (PageInfo, bool) {
	for _, p := range pages {
		if p.Number == number {
			info := p
			if info.Width <= 0 {
				info.Width = defaultPageWidth
			}
			if info.Height <= 0 {
				info.Height = defaultPageHeight
			}
			return info, p.Height > 0
		}
	}
	return PageInfo{Number: number, Width: defaultPageWidth, Height: defaultPageHeight}, false
}
