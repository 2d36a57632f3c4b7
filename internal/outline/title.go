package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// TitleResult is the outcome of title resolution on page 1. LowerY is
// the Y coordinate below which heading search should begin; it is only
// meaningful when Found is true.
type TitleResult struct {
	Title  string
	LowerY float64
	Found  bool
}

// Patterns that disqualify a text from being combined into a title:
// URLs, email addresses, phone numbers, street addresses, state+ZIP.
// Matched against the upper-cased text.
var nonTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`WWW\.`),
	regexp.MustCompile(`HTTP[S]?://`),
	regexp.MustCompile(`\.(COM|ORG|NET|EDU|GOV)`),
	regexp.MustCompile(`@.*\.(COM|ORG|NET)`),
	regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`^[A-Z0-9\-\.]+\.(COM|ORG|NET|EDU|GOV)$`),
	regexp.MustCompile(`^\d+\s*(ST|ND|RD|TH)?\s+(STREET|ST|AVENUE|AVE|ROAD|RD|BLVD)`),
	regexp.MustCompile(`[A-Z]{2,}\s+\d{5}`),
}

// Decorative separator runs (dashes, bullets, line-drawing characters)
// that sometimes win the font-size ranking but are never titles.
var decorativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[-_=*+~` + "`" + `^|\\/<>]{3,}$`),
	regexp.MustCompile(`^[•·▪▫◦‣⁃]{3,}$`),
	regexp.MustCompile(`^[─━┄┅┈┉┊┋]{3,}$`),
	regexp.MustCompile(`^[.]{3,}$`),
	regexp.MustCompile(`^[,]{3,}$`),
	regexp.MustCompile(`^[;]{3,}$`),
	regexp.MustCompile(`^[:]{3,}$`),
	regexp.MustCompile(`^[!]{3,}$`),
	regexp.MustCompile(`^[?]{3,}$`),
	regexp.MustCompile(`^[\s]*[-_=*+~` + "`" + `^|\\/<>•·▪▫◦‣⁃─━┄┅┈┉┊┋.,:;!?]+[\s]*$`),
}

// sizeGroup is the concatenated text of all page-1 lines sharing one
// rounded font size, with the bounding box of its contributing lines.
type sizeGroup struct {
	size           float64
	text           string
	x0, x1, y0, y1 float64
}

// ResolveTitle selects the document title from the first page's
// fragments. Lines are grouped by rounded font size; the two largest
// surviving size groups either combine into one title (when vertically
// close and aligned or both centered) or the more meaningful of the two
// wins. No table filtering applies here.
func ResolveTitle(page1 []Fragment, pageWidth float64, cfg Config) TitleResult {
	if pageWidth <= 0 {
		pageWidth = defaultPageWidth
	}
	lines := GroupLines(normalize(page1), cfg)
	groups := groupBySize(lines, cfg)
	if len(groups) == 0 {
		return TitleResult{}
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].size > groups[j].size })
	if len(groups) == 1 {
		return TitleResult{Title: groups[0].text, LowerY: groups[0].y1, Found: true}
	}

	t1, t2 := groups[0], groups[1]
	if combinable(t1, t2, pageWidth, cfg) {
		return TitleResult{
			Title:  t1.text + " " + t2.text,
			LowerY: math.Max(t1.y1, t2.y1),
			Found:  true,
		}
	}

	for _, g := range []sizeGroup{t1, t2} {
		if meaningfulTitle(g.text) {
			return TitleResult{Title: g.text, LowerY: g.y1, Found: true}
		}
	}
	return TitleResult{Title: t1.text, LowerY: t1.y1, Found: true}
}

// groupBySize concatenates line texts per rounded font size in (y0, x0)
// order, dropping groups that run over the word limit or consist of
// decorative separator characters.
func groupBySize(lines []Line, cfg Config) []sizeGroup {
	buckets := make(map[float64][]Line)
	for _, l := range lines {
		key := roundSize(l.Size)
		buckets[key] = append(buckets[key], l)
	}

	var groups []sizeGroup
	for size, members := range buckets {
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Y0 != members[j].Y0 {
				return members[i].Y0 < members[j].Y0
			}
			return members[i].X0 < members[j].X0
		})

		var parts []string
		for _, l := range members {
			if strings.TrimSpace(l.Text) != "" {
				parts = append(parts, l.Text)
			}
		}
		text := strings.TrimSpace(strings.Join(parts, " "))
		if text == "" || len(strings.Fields(text)) > cfg.TitleMaxWords || decorative(text) {
			continue
		}

		g := sizeGroup{size: size, text: text, x0: members[0].X0, x1: members[0].X1, y0: members[0].Y0, y1: members[0].Y1}
		for _, l := range members[1:] {
			g.x0 = math.Min(g.x0, l.X0)
			g.x1 = math.Max(g.x1, l.X1)
			g.y0 = math.Min(g.y0, l.Y0)
			g.y1 = math.Max(g.y1, l.Y1)
		}
		groups = append(groups, g)
	}
	return groups
}

// combinable decides whether the two largest size groups form a single
// logical title: neither looks like a URL/phone/address, they sit within
// the vertical gap limit, and they are either mutually aligned or both
// centered on the page.
func combinable(t1, t2 sizeGroup, pageWidth float64, cfg Config) bool {
	if nonTitleText(t1.text) || nonTitleText(t2.text) {
		return false
	}
	if math.Abs(t2.y0-t1.y1) > cfg.TitleGapLimit {
		return false
	}

	c1 := (t1.x0 + t1.x1) / 2
	c2 := (t2.x0 + t2.x1) / 2
	aligned := math.Abs(c1-c2) < cfg.TitleAlignLimit

	mid := pageWidth / 2
	bothCentered := math.Abs(c1-mid) < cfg.TitleAlignLimit && math.Abs(c2-mid) < cfg.TitleAlignLimit

	return aligned || bothCentered
}

func nonTitleText(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	for _, p := range nonTitlePatterns {
		if p.MatchString(upper) {
			return true
		}
	}
	return false
}

func decorative(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	for _, p := range decorativePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// meaningfulTitle rejects texts too short or symbol-only to be a title:
// at least 3 characters, at least one letter, and either 2+ words or a
// single word of 10+ characters.
func meaningfulTitle(text string) bool {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < 3 {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	if len(strings.Fields(text)) < 2 && len([]rune(text)) < 10 {
		return false
	}
	return true
}
