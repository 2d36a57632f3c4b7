package outline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// transitionalWords are connective words and phrases that mark prose
// rather than headings. Matched by containment anywhere in the text,
// so each entry carries a trailing comma or space to avoid matching
// inside longer words.
var transitionalWords = []string{
	"specifically,", "however,", "furthermore,", "additionally,", "therefore,",
	"moreover,", "consequently,", "nevertheless,", "nonetheless,", "meanwhile,",
	"subsequently,", "similarly,", "conversely,", "alternatively,", "accordingly,",
	"hence,", "thus,", "indeed,", "likewise,", "otherwise,", "namely,",
	"for example,", "for instance,", "in particular,", "in addition,", "in contrast,",
	"on the other hand,", "as a result,", "in conclusion,", "in summary,",
	"specifically ", "however ", "furthermore ", "additionally ", "therefore ",
	"moreover ", "consequently ", "nevertheless ", "nonetheless ", "meanwhile ",
	"subsequently ", "similarly ", "conversely ", "alternatively ", "accordingly ",
	"hence ", "thus ", "indeed ", "likewise ", "otherwise ", "namely ",
}

var (
	// Interior-period stripping order matters: numbered prefixes first,
	// then abbreviations at end of text, then abbreviations mid-text.
	numberedPrefixStrip = regexp.MustCompile(`\b\d+(\.\d*)*\.?`)
	abbrevEndStrip      = regexp.MustCompile(`\b[A-Z][a-z]*\.\s*$`)
	abbrevMidStrip      = regexp.MustCompile(`\b[A-Z][a-z]*\.\s+`)

	romanTokenPattern = regexp.MustCompile(`\b[MDCLXVI]+\b`)
	romanValidPattern = regexp.MustCompile(`^M{0,4}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)
)

// containsRomanNumeral reports whether text carries a well-formed Roman
// numeral as a standalone token.
func containsRomanNumeral(text string) bool {
	for _, token := range romanTokenPattern.FindAllString(strings.ToUpper(text), -1) {
		if romanValidPattern.MatchString(token) {
			return true
		}
	}
	return false
}

// topTwoSizes returns the two largest distinct rounded sizes present.
func topTwoSizes(blocks []Block) []float64 {
	seen := make(map[float64]bool)
	var sizes []float64
	for _, b := range blocks {
		s := roundSize(b.Size)
		if !seen[s] {
			seen[s] = true
			sizes = append(sizes, s)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	if len(sizes) > 2 {
		sizes = sizes[:2]
	}
	return sizes
}

// hasInvalidInteriorPeriod reports whether text contains a '.' that is
// not part of a numbered prefix or a capitalized abbreviation.
func hasInvalidInteriorPeriod(text string) bool {
	if !strings.Contains(text, ".") {
		return false
	}
	stripped := numberedPrefixStrip.ReplaceAllString(text, "")
	stripped = abbrevEndStrip.ReplaceAllString(stripped, "")
	stripped = abbrevMidStrip.ReplaceAllString(stripped, " ")
	return strings.Contains(stripped, ".")
}

func startsLowercase(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
		return false
	}
	return false
}

func containsTransitionalWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range transitionalWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func containsDigit(text string) bool {
	return strings.ContainsFunc(text, unicode.IsDigit)
}

// ClassifyHeadings selects the blocks that qualify as headings. A block
// qualifies when its size is among the top two distinct sizes, or it is
// a single word, or it contains ':', or it contains a digit or a Roman
// numeral. Qualified blocks are then screened by exclusion rules, first
// match winning: lowercase start, trailing period, invalid interior
// period, "following" with a colon, or a transitional word anywhere in
// the text.
func ClassifyHeadings(blocks []Block) ([]Block, StageTrace) {
	trace := StageTrace{Stage: "classify"}
	if len(blocks) == 0 {
		return blocks, trace
	}

	top := topTwoSizes(blocks)
	inTop := func(size float64) bool {
		s := roundSize(size)
		for _, t := range top {
			if s == t {
				return true
			}
		}
		return false
	}

	var kept []Block
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		singleWord := len(strings.Fields(text)) == 1

		included := inTop(b.Size) || singleWord ||
			strings.Contains(text, ":") ||
			containsDigit(text) ||
			containsRomanNumeral(text)
		if !included {
			trace.Removed = append(trace.Removed, Removal{Text: b.Text, Page: b.Page, Reason: "not_heading_like"})
			continue
		}

		reason := ""
		switch {
		case startsLowercase(text):
			reason = "lowercase_start"
		case strings.HasSuffix(text, "."):
			reason = "ends_with_period"
		case hasInvalidInteriorPeriod(text):
			reason = "sentence_period"
		case strings.Contains(strings.ToLower(text), "following") && strings.Contains(text, ":"):
			reason = "following_colon"
		case containsTransitionalWord(text):
			reason = "transitional_word"
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

// AssignLevels maps each distinct rounded size, largest first, to a
// heading level H1..Hn.
func AssignLevels(blocks []Block) map[float64]string {
	seen := make(map[float64]bool)
	var sizes []float64
	for _, b := range blocks {
		s := roundSize(b.Size)
		if !seen[s] {
			seen[s] = true
			sizes = append(sizes, s)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	levels := make(map[float64]string, len(sizes))
	for i, s := range sizes {
		levels[s] = "H" + strconv.Itoa(i+1)
	}
	return levels
}
