package outline

import "strings"

// ordinalSuffixes are leftover superscript fragments ("4th" split into
// "4" and "th") that line grouping sometimes strands on their own line.
var ordinalSuffixes = map[string]bool{
	"th": true,
	"nd": true,
	"rd": true,
	"st": true,
}

// RemoveRepeating drops lines whose text recurs in the header or footer
// band of every page: running headers and footers. The first page's
// band contents serve as the reference set; a text must appear verbatim
// in the same band on every other page to qualify. Matching lines are
// then removed globally, wherever they occur. Documents with fewer than
// two pages pass through untouched.
func RemoveRepeating(lines []Line, cfg Config) ([]Line, StageTrace) {
	trace := StageTrace{Stage: "repeating_headers_footers"}
	if len(lines) == 0 {
		trace.Survived = 0
		return lines, trace
	}

	paged := linesByPage(lines)
	pages := sortedPages(paged)
	if len(pages) <= 1 {
		trace.Survived = len(lines)
		return lines, trace
	}

	headerBand := make(map[int]map[string]bool)
	footerBand := make(map[int]map[string]bool)
	for _, page := range pages {
		minY, maxY := paged[page][0].Y0, paged[page][0].Y0
		for _, l := range paged[page] {
			if l.Y0 < minY {
				minY = l.Y0
			}
			if l.Y0 > maxY {
				maxY = l.Y0
			}
		}
		headerBand[page] = make(map[string]bool)
		footerBand[page] = make(map[string]bool)
		for _, l := range paged[page] {
			text := strings.TrimSpace(l.Text)
			switch {
			case l.Y0-minY <= cfg.HeaderBand:
				headerBand[page][text] = true
			case maxY-l.Y0 <= cfg.FooterBand:
				footerBand[page][text] = true
			}
		}
	}

	first := pages[0]
	repeating := make(map[string]bool)
	collect := func(band map[int]map[string]bool) {
		for text := range band[first] {
			if text == "" {
				continue
			}
			onAll := true
			for _, page := range pages[1:] {
				if !band[page][text] {
					onAll = false
					break
				}
			}
			if onAll {
				repeating[text] = true
			}
		}
	}
	collect(headerBand)
	collect(footerBand)

	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if repeating[strings.TrimSpace(l.Text)] {
			trace.Removed = append(trace.Removed, Removal{Text: l.Text, Page: l.Page, Reason: "repeating_header_footer"})
			continue
		}
		kept = append(kept, l)
	}
	trace.Survived = len(kept)
	return kept, trace
}

// RemoveOrdinalSuffixes drops lines whose whole trimmed text is one of
// the ordinal suffixes.
func RemoveOrdinalSuffixes(lines []Line) ([]Line, StageTrace) {
	trace := StageTrace{Stage: "ordinal_suffixes"}
	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if ordinalSuffixes[strings.ToLower(strings.TrimSpace(l.Text))] {
			trace.Removed = append(trace.Removed, Removal{Text: l.Text, Page: l.Page, Reason: "ordinal_suffix"})
			continue
		}
		kept = append(kept, l)
	}
	trace.Survived = len(kept)
	return kept, trace
}
