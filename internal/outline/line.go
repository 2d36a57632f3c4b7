package outline

import (
	"sort"
	"strings"
)

// Line is a row of text: fragments merged by vertical proximity, sorted
// left to right, texts joined by single spaces. Size, centered flag and
// y span come from the first (leftmost) fragment; bold is set when any
// fragment is bold.
type Line struct {
	Text      string
	Size      float64
	Bold      bool
	Centered  bool
	X0, X1    float64
	Y0, Y1    float64
	Page      int
	SpanCount int
}

type lineKey struct {
	y0, y1 float64
}

// GroupLines clusters fragments into lines per page using a quantized
// (y0, y1) key, then sorts the result by (page, y0). Buckets whose
// joined text is empty are dropped.
func GroupLines(frags []Fragment, cfg Config) []Line {
	var result []Line

	paged := byPage(frags)
	for _, page := range sortedPages(paged) {
		buckets := make(map[lineKey][]Fragment)
		var order []lineKey
		for _, f := range paged[page] {
			key := lineKey{bucket(f.Y0, cfg.LineBucket), bucket(f.Y1, cfg.LineBucket)}
			if _, seen := buckets[key]; !seen {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], f)
		}

		for _, key := range order {
			spans := buckets[key]
			sort.SliceStable(spans, func(i, j int) bool { return spans[i].X0 < spans[j].X0 })

			var parts []string
			for _, s := range spans {
				if t := strings.TrimSpace(s.Text); t != "" {
					parts = append(parts, t)
				}
			}
			text := strings.Join(parts, " ")
			if text == "" {
				continue
			}

			bold := false
			for _, s := range spans {
				if s.Bold {
					bold = true
					break
				}
			}
			result = append(result, Line{
				Text:      text,
				Size:      spans[0].Size,
				Bold:      bold,
				Centered:  spans[0].Centered,
				X0:        spans[0].X0,
				X1:        spans[len(spans)-1].X1,
				Y0:        spans[0].Y0,
				Y1:        spans[0].Y1,
				Page:      page,
				SpanCount: len(spans),
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Page != result[j].Page {
			return result[i].Page < result[j].Page
		}
		return result[i].Y0 < result[j].Y0
	})
	return result
}

// linesByPage splits lines into per-page slices, preserving order.
func linesByPage(lines []Line) map[int][]Line {
	pages := make(map[int][]Line)
	for _, l := range lines {
		pages[l.Page] = append(pages[l.Page], l)
	}
	return pages
}
