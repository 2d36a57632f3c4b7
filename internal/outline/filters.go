package outline

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Removal describes one item pruned by a pipeline stage.
type Removal struct {
	Text   string `json:"text"`
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}

// StageTrace is the structured side-channel for one pipeline stage:
// what survived, what was removed and why. AssumedPageHeight flags that
// the stage fell back to the default page height because the
// collaborator did not report one.
type StageTrace struct {
	Stage             string    `json:"stage"`
	Survived          int       `json:"survived"`
	Removed           []Removal `json:"removed,omitempty"`
	AssumedPageHeight bool      `json:"assumed_page_height,omitempty"`
}

// Page-number patterns, searched anywhere within a block's text.
var pageNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)page\s+\d+`),
	regexp.MustCompile(`(?i)page\s+\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)\d+\s*/\s*\d+`),
}

// Date patterns, searched anywhere within a block's text.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\w+\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`(?i)\w+\s+\d{4}`),
	regexp.MustCompile(`(?i)\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`(?i)\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+\w+\s+\d{4}`),
}

// TOC markers and bare calendar words; these must match the whole
// trimmed text.
var tocExactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*table\s+of\s+contents?\s*$`),
	regexp.MustCompile(`(?i)^\s*contents?\s*$`),
	regexp.MustCompile(`(?i)^\s*toc\s*$`),
}

var dateWordExactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*date\s*$`),
	regexp.MustCompile(`(?i)^\s*time\s*$`),
	regexp.MustCompile(`(?i)^\s*day\s*$`),
	regexp.MustCompile(`(?i)^\s*month\s*$`),
	regexp.MustCompile(`(?i)^\s*year\s*$`),
}

// numberPrefixPattern matches a leading decimal-numbered heading prefix
// such as "1. ", "3.1 " or "2.3.4) ".
var numberPrefixPattern = regexp.MustCompile(`^\d+(\.\d*)*[.\)]?\s+`)

var trailingPunctPattern = regexp.MustCompile(`[.\)]+$`)

// FilterStartingPosition removes blocks starting at or beyond the page
// center, approximated as half the maximum right edge observed across
// all blocks. Headings originate on the left.
func FilterStartingPosition(blocks []Block, cfg Config) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "starting_position"}
	if len(blocks) == 0 {
		return blocks, trace
	}

	maxX1 := blocks[0].X1
	for _, b := range blocks[1:] {
		if b.X1 > maxX1 {
			maxX1 = b.X1
		}
	}
	threshold := maxX1 * cfg.CenterRatio

	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.X0 >= threshold {
			trace.Removed = append(trace.Removed, Removal{Text: b.Text, Page: b.Page, Reason: "starts_past_center"})
			continue
		}
		kept = append(kept, b)
	}
	trace.Survived = len(kept)
	return kept, trace
}

// FilterLineCount removes multi-line blocks; large text (at or above
// the configured size) is assumed to be a heading even when it wraps.
func FilterLineCount(blocks []Block, cfg Config) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "line_count"}
	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.LineCount > 1 && b.Size < cfg.LargeFontPt {
			trace.Removed = append(trace.Removed, Removal{Text: b.Text, Page: b.Page, Reason: "multi_line"})
			continue
		}
		kept = append(kept, b)
	}
	trace.Survived = len(kept)
	return kept, trace
}

// FilterPagePosition removes the bottom-most block of each page when it
// sits in the footer band, unless it ends with ':', starts with a
// digit, or is a single word. A page with only one block keeps it.
func FilterPagePosition(blocks []Block, pages []PageInfo, cfg Config) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "page_position"}
	if len(blocks) == 0 {
		return blocks, trace
	}

	var kept []Block
	paged := blocksByPage(blocks)
	for _, page := range sortedPages(paged) {
		pageBlocks := append([]Block(nil), paged[page]...)
		sort.SliceStable(pageBlocks, func(i, j int) bool { return pageBlocks[i].Y0 < pageBlocks[j].Y0 })

		if len(pageBlocks) == 1 {
			kept = append(kept, pageBlocks...)
			continue
		}

		geom, known := pageGeometry(pages, page)
		if !known {
			trace.AssumedPageHeight = true
		}
		footerStart := geom.Height - cfg.FooterMargin

		kept = append(kept, pageBlocks[:len(pageBlocks)-1]...)
		last := pageBlocks[len(pageBlocks)-1]
		text := strings.TrimSpace(last.Text)

		endsWithColon := strings.HasSuffix(text, ":")
		startsWithDigit := text != "" && unicode.IsDigit([]rune(text)[0])
		singleWord := len(strings.Fields(text)) == 1
		aboveFooter := last.Y0 < footerStart

		if endsWithColon || startsWithDigit || singleWord || aboveFooter {
			kept = append(kept, last)
		} else {
			trace.Removed = append(trace.Removed, Removal{Text: last.Text, Page: last.Page, Reason: "last_block_in_footer"})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Page != kept[j].Page {
			return kept[i].Page < kept[j].Page
		}
		return kept[i].Y0 < kept[j].Y0
	})
	trace.Survived = len(kept)
	return kept, trace
}

// FilterCopyright removes blocks carrying copyright markers.
func FilterCopyright(blocks []Block) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "copyright"}
	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		lower := strings.ToLower(b.Text)
		if strings.Contains(b.Text, "©") || strings.Contains(lower, "copyright") || strings.Contains(lower, "(c)") {
			trace.Removed = append(trace.Removed, Removal{Text: b.Text, Page: b.Page, Reason: "copyright"})
			continue
		}
		kept = append(kept, b)
	}
	trace.Survived = len(kept)
	return kept, trace
}

type dupKey struct {
	text string
	size float64
	x, y float64
}

// FilterCrossPageDuplicates removes every instance of a block that
// recurs at the same position and size on more than half of the
// document's pages. Single-page documents pass through untouched.
func FilterCrossPageDuplicates(blocks []Block, totalPages int, cfg Config) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "cross_page_duplicates"}
	if len(blocks) <= 1 {
		trace.Survived = len(blocks)
		return blocks, trace
	}
	if totalPages <= 0 {
		for _, b := range blocks {
			if b.Page > totalPages {
				totalPages = b.Page
			}
		}
	}
	if totalPages < 2 {
		trace.Survived = len(blocks)
		return blocks, trace
	}

	groups := make(map[dupKey]map[int]bool)
	for _, b := range blocks {
		key := dupKey{
			text: strings.TrimSpace(b.Text),
			size: roundSize(b.Size),
			x:    bucket(b.X0, 5),
			y:    bucket(b.Y0, 5),
		}
		if groups[key] == nil {
			groups[key] = make(map[int]bool)
		}
		groups[key][b.Page] = true
	}

	threshold := float64(totalPages) * 0.5
	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		key := dupKey{
			text: strings.TrimSpace(b.Text),
			size: roundSize(b.Size),
			x:    bucket(b.X0, 5),
			y:    bucket(b.Y0, 5),
		}
		if float64(len(groups[key])) > threshold {
			trace.Removed = append(trace.Removed, Removal{Text: b.Text, Page: b.Page, Reason: "cross_page_duplicate"})
			continue
		}
		kept = append(kept, b)
	}
	trace.Survived = len(kept)
	return kept, trace
}

// FilterPageNumbersDatesTOC removes blocks containing page-number or
// date text, and blocks that are exactly a TOC marker or a bare
// calendar word.
func FilterPageNumbersDatesTOC(blocks []Block) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "page_numbers_dates_toc"}
	kept := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		reason := ""
		switch {
		case matchesAny(pageNumberPatterns, text):
			reason = "page_number"
		case matchesAny(datePatterns, text):
			reason = "date"
		case matchesAny(tocExactPatterns, text):
			reason = "table_of_contents"
		case matchesAny(dateWordExactPatterns, text):
			reason = "date_word"
		}
		if reason != "" {
			trace.Removed = append(trace.Removed, Removal{Text: b.Text, Page: b.Page, Reason: reason})
			continue
		}
		kept = append(kept, b)
	}
	trace.Survived = len(kept)
	return kept, trace
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// parseNumberPrefix extracts the components of a leading decimal
// heading number: "3.1 Scope" yields [3, 1]. Nil means no prefix.
func parseNumberPrefix(text string) []int {
	match := numberPrefixPattern.FindString(strings.TrimSpace(text))
	if match == "" {
		return nil
	}
	prefix := trailingPunctPattern.ReplaceAllString(strings.TrimSpace(match), "")
	var numbers []int
	for _, part := range strings.Split(prefix, ".") {
		if part == "" || !allDigits(part) {
			continue
		}
		n := 0
		for _, r := range part {
			n = n*10 + int(r-'0')
		}
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return nil
	}
	return numbers
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isContinuation reports whether next validly continues current in a
// decimal numbering scheme: a same-level increment (3.1 -> 3.2), a
// one-level-deeper child (3.1 -> 3.1.1), or the next top-level integer
// (3.1 -> 4).
func isContinuation(current, next []int) bool {
	if len(current) == 0 || len(next) == 0 {
		return false
	}
	if len(current) == len(next) {
		if equalInts(current[:len(current)-1], next[:len(next)-1]) && next[len(next)-1] > current[len(current)-1] {
			return true
		}
	} else if len(next) == len(current)+1 {
		if equalInts(current, next[:len(next)-1]) {
			return true
		}
	}
	if len(next) == 1 && next[0] == current[0]+1 {
		return true
	}
	return false
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FilterNumberingInterruptions drops non-numbered blocks sandwiched
// between a multi-level numbered block and its next valid continuation.
// Numbered blocks in between are kept. When a numbered block has no
// continuation anywhere ahead, its trailing structure is considered
// ended and nothing is dropped.
func FilterNumberingInterruptions(blocks []Block) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "numbering_continuity"}
	if len(blocks) == 0 {
		return blocks, trace
	}

	var kept []Block
	i := 0
	for i < len(blocks) {
		current := blocks[i]
		currentNumbers := parseNumberPrefix(current.Text)
		kept = append(kept, current)

		if len(currentNumbers) > 1 {
			continuation := -1
			for j := i + 1; j < len(blocks); j++ {
				if next := parseNumberPrefix(blocks[j].Text); next != nil && isContinuation(currentNumbers, next) {
					continuation = j
					break
				}
			}
			if continuation >= 0 {
				for j := i + 1; j < continuation; j++ {
					if parseNumberPrefix(blocks[j].Text) == nil {
						trace.Removed = append(trace.Removed, Removal{Text: blocks[j].Text, Page: blocks[j].Page, Reason: "interrupts_numbering"})
					} else {
						kept = append(kept, blocks[j])
					}
				}
				i = continuation
				continue
			}
		}
		i++
	}
	trace.Survived = len(kept)
	return kept, trace
}
