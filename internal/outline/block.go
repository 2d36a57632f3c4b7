package outline

import (
	"math"
	"sort"
	"strings"
)

// BreakReason records why a block stopped accumulating lines.
type BreakReason string

const (
	BreakSizeChange BreakReason = "size_change"
	BreakParagraph  BreakReason = "paragraph_break"
	BreakColon      BreakReason = "colon_separation"
	BreakEndOfPage  BreakReason = "end_of_page"
)

// Block is a heading/body candidate: consecutive lines of one page with
// the same rounded font size, no paragraph-sized vertical gap, and no
// intervening colon-terminated line.
type Block struct {
	Text      string
	Size      float64 // rounded to one decimal
	Page      int
	Bold      bool
	Centered  bool
	X0, X1    float64
	Y0, Y1    float64
	LineCount int
	Reason    BreakReason
}

// GroupBlocks merges consecutive same-size lines into blocks per page.
// A block closes on a font-size change, a vertical gap beyond the
// paragraph threshold, or after a line ending with ':'. The last block
// of each page closes with BreakEndOfPage.
func GroupBlocks(lines []Line, cfg Config) []Block {
	var result []Block

	paged := linesByPage(lines)
	for _, page := range sortedPages(paged) {
		pageLines := append([]Line(nil), paged[page]...)
		sort.SliceStable(pageLines, func(i, j int) bool { return pageLines[i].Y0 < pageLines[j].Y0 })
		if len(pageLines) == 0 {
			continue
		}

		group := []Line{pageLines[0]}
		size := roundSize(pageLines[0].Size)

		for i := 1; i < len(pageLines); i++ {
			line := pageLines[i]
			lineSize := roundSize(line.Size)
			gap := math.Abs(line.Y0 - pageLines[i-1].Y0)

			sameSize := math.Abs(lineSize-size) <= cfg.SizeTol+1e-9
			smallGap := gap <= cfg.ParagraphGap
			afterColon := strings.HasSuffix(strings.TrimSpace(group[len(group)-1].Text), ":")

			if sameSize && smallGap && !afterColon {
				group = append(group, line)
				continue
			}

			reason := BreakParagraph
			switch {
			case afterColon:
				reason = BreakColon
			case !sameSize:
				reason = BreakSizeChange
			}
			result = append(result, closeBlock(group, size, page, reason))
			group = []Line{line}
			size = lineSize
		}

		result = append(result, closeBlock(group, size, page, BreakEndOfPage))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Page != result[j].Page {
			return result[i].Page < result[j].Page
		}
		return result[i].Y0 < result[j].Y0
	})
	return result
}

func closeBlock(group []Line, size float64, page int, reason BreakReason) Block {
	texts := make([]string, len(group))
	bold, centered := false, false
	x0, x1 := group[0].X0, group[0].X1
	for i, l := range group {
		texts[i] = l.Text
		bold = bold || l.Bold
		centered = centered || l.Centered
		x0 = math.Min(x0, l.X0)
		x1 = math.Max(x1, l.X1)
	}
	return Block{
		Text:      strings.Join(texts, " "),
		Size:      size,
		Page:      page,
		Bold:      bold,
		Centered:  centered,
		X0:        x0,
		X1:        x1,
		Y0:        group[0].Y0,
		Y1:        group[len(group)-1].Y1,
		LineCount: len(group),
		Reason:    reason,
	}
}

// blocksByPage splits blocks into per-page slices, preserving order.
func blocksByPage(blocks []Block) map[int][]Block {
	pages := make(map[int][]Block)
	for _, b := range blocks {
		pages[b.Page] = append(pages[b.Page], b)
	}
	return pages
}
