package outline

import (
	"testing"
)

func TestExcludeTabular_RemovesGridKeepsHeading(t *testing.T) {
	var frags []Fragment
	frags = append(frags, frag("Results", 14, 100, 400, 180, 418, 1))
	for _, y := range []float64{500, 530, 560} {
		for _, x := range []float64{100, 200, 300} {
			frags = append(frags, frag("cell", 10, x, y, x+40, y+12, 1))
		}
	}
	pages := []PageInfo{{Number: 1, Width: 612, Height: 792}}

	out, trace := excludeTabular(frags, pages, DefaultConfig())
	if len(out) != 1 {
		t.Fatalf("expected only the heading to survive, got %d fragments", len(out))
	}
	if out[0].Text != "Results" {
		t.Errorf("expected heading kept, got %q", out[0].Text)
	}
	if len(trace.Removed) != 9 {
		t.Errorf("expected 9 removals, got %d", len(trace.Removed))
	}
	if trace.AssumedPageHeight {
		t.Error("geometry was known, assumed flag should be unset")
	}
}

func TestExcludeTabular_FlagsUnknownGeometry(t *testing.T) {
	frags := []Fragment{frag("Text", 12, 72, 100, 150, 112, 1)}
	_, trace := excludeTabular(frags, nil, DefaultConfig())
	if !trace.AssumedPageHeight {
		t.Error("expected assumed page height flag without page geometry")
	}
}

func TestRemoveRepeating_HeaderAndFooter(t *testing.T) {
	var lines []Line
	for page := 1; page <= 2; page++ {
		lines = append(lines,
			Line{Text: "Acme Corp", Size: 9, Page: page, Y0: 40, Y1: 49},
			Line{Text: "Unique content " + string(rune('A'+page)), Size: 11, Page: page, Y0: 300, Y1: 311},
			Line{Text: "Confidential", Size: 9, Page: page, Y0: 750, Y1: 759},
		)
	}
	kept, trace := RemoveRepeating(lines, DefaultConfig())
	if len(kept) != 2 {
		t.Fatalf("expected 2 surviving lines, got %d", len(kept))
	}
	for _, l := range kept {
		if l.Text == "Acme Corp" || l.Text == "Confidential" {
			t.Errorf("expected repeating line removed: %q", l.Text)
		}
	}
	if len(trace.Removed) != 4 {
		t.Errorf("expected 4 removals, got %d", len(trace.Removed))
	}
}

func TestRemoveRepeating_SinglePageUntouched(t *testing.T) {
	lines := []Line{
		{Text: "Acme Corp", Size: 9, Page: 1, Y0: 40, Y1: 49},
		{Text: "Body", Size: 11, Page: 1, Y0: 300, Y1: 311},
	}
	kept, _ := RemoveRepeating(lines, DefaultConfig())
	if len(kept) != 2 {
		t.Errorf("expected single-page document untouched, got %d lines", len(kept))
	}
}

func TestRemoveRepeating_OneDifferingPageKeepsAll(t *testing.T) {
	lines := []Line{
		{Text: "Confidential", Size: 9, Page: 1, Y0: 40, Y1: 49},
		{Text: "Body one", Size: 11, Page: 1, Y0: 400, Y1: 411},
		{Text: "Confidential", Size: 9, Page: 2, Y0: 40, Y1: 49},
		{Text: "Body two", Size: 11, Page: 2, Y0: 400, Y1: 411},
		{Text: "Internal", Size: 9, Page: 3, Y0: 40, Y1: 49},
		{Text: "Body three", Size: 11, Page: 3, Y0: 400, Y1: 411},
	}
	kept, trace := RemoveRepeating(lines, DefaultConfig())
	if len(kept) != len(lines) {
		t.Errorf("expected all lines kept when one page differs, got %d of %d", len(kept), len(lines))
	}
	if len(trace.Removed) != 0 {
		t.Errorf("expected no removals, got %v", trace.Removed)
	}
}

func TestRemoveOrdinalSuffixes(t *testing.T) {
	lines := []Line{
		{Text: "th", Page: 1},
		{Text: "4th Edition", Page: 1},
		{Text: "st", Page: 2},
	}
	kept, trace := RemoveOrdinalSuffixes(lines)
	if len(kept) != 1 || kept[0].Text != "4th Edition" {
		t.Errorf("expected only %q to survive, got %+v", "4th Edition", kept)
	}
	if len(trace.Removed) != 2 {
		t.Errorf("expected 2 removals, got %d", len(trace.Removed))
	}
}

func TestFilterStartingPosition(t *testing.T) {
	blocks := []Block{
		{Text: "Left heading", Page: 1, X0: 60, X1: 280},
		{Text: "Right column", Page: 1, X0: 320, X1: 520},
	}
	kept, trace := FilterStartingPosition(blocks, DefaultConfig())
	if len(kept) != 1 || kept[0].Text != "Left heading" {
		t.Errorf("expected only the left block to survive, got %+v", kept)
	}
	if len(trace.Removed) != 1 || trace.Removed[0].Reason != "starts_past_center" {
		t.Errorf("unexpected trace: %+v", trace)
	}
}

func TestFilterLineCount(t *testing.T) {
	blocks := []Block{
		{Text: "wrapped body", Page: 1, Size: 11, LineCount: 2},
		{Text: "Wrapped Large Heading", Page: 1, Size: 18, LineCount: 2},
		{Text: "Single", Page: 1, Size: 11, LineCount: 1},
	}
	kept, _ := FilterLineCount(blocks, DefaultConfig())
	if len(kept) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(kept))
	}
	for _, b := range kept {
		if b.Text == "wrapped body" {
			t.Error("small multi-line block should have been removed")
		}
	}
}

func TestFilterPagePosition_RemovesFooterBlock(t *testing.T) {
	blocks := []Block{
		{Text: "Section heading", Page: 1, Y0: 100},
		{Text: "some footer text here", Page: 1, Y0: 730},
	}
	pages := []PageInfo{{Number: 1, Width: 612, Height: 792}}
	kept, trace := FilterPagePosition(blocks, pages, DefaultConfig())
	if len(kept) != 1 || kept[0].Text != "Section heading" {
		t.Errorf("expected footer block removed, got %+v", kept)
	}
	if trace.AssumedPageHeight {
		t.Error("geometry was known, assumed flag should be unset")
	}
}

func TestFilterPagePosition_ColonKeepsLastBlock(t *testing.T) {
	blocks := []Block{
		{Text: "Section heading", Page: 1, Y0: 100},
		{Text: "see appendix for more:", Page: 1, Y0: 730},
	}
	pages := []PageInfo{{Number: 1, Width: 612, Height: 792}}
	kept, _ := FilterPagePosition(blocks, pages, DefaultConfig())
	if len(kept) != 2 {
		t.Errorf("expected colon-terminated block kept, got %+v", kept)
	}
}

func TestFilterPagePosition_SingleBlockPageExempt(t *testing.T) {
	blocks := []Block{
		{Text: "lonely footer text here", Page: 1, Y0: 750},
	}
	pages := []PageInfo{{Number: 1, Width: 612, Height: 792}}
	kept, _ := FilterPagePosition(blocks, pages, DefaultConfig())
	if len(kept) != 1 {
		t.Errorf("expected single-block page exempt, got %+v", kept)
	}
}

func TestFilterPagePosition_FlagsUnknownGeometry(t *testing.T) {
	blocks := []Block{
		{Text: "Heading", Page: 1, Y0: 100},
		{Text: "trailing body text line", Page: 1, Y0: 760},
	}
	_, trace := FilterPagePosition(blocks, nil, DefaultConfig())
	if !trace.AssumedPageHeight {
		t.Error("expected assumed page height flag without page geometry")
	}
}

func TestFilterCopyright(t *testing.T) {
	blocks := []Block{
		{Text: "© 2026 Acme Corp", Page: 1},
		{Text: "Copyright Acme", Page: 1},
		{Text: "(c) acme", Page: 2},
		{Text: "Introduction", Page: 2},
	}
	kept, trace := FilterCopyright(blocks)
	if len(kept) != 1 || kept[0].Text != "Introduction" {
		t.Errorf("expected only %q to survive, got %+v", "Introduction", kept)
	}
	if len(trace.Removed) != 3 {
		t.Errorf("expected 3 removals, got %d", len(trace.Removed))
	}
}

func TestFilterCrossPageDuplicates(t *testing.T) {
	var blocks []Block
	for page := 1; page <= 3; page++ {
		blocks = append(blocks, Block{Text: "Acme Handbook", Size: 10, Page: page, X0: 72, Y0: 30})
	}
	blocks = append(blocks, Block{Text: "Chapter One", Size: 16, Page: 1, X0: 72, Y0: 200})

	kept, trace := FilterCrossPageDuplicates(blocks, 3, DefaultConfig())
	if len(kept) != 1 || kept[0].Text != "Chapter One" {
		t.Errorf("expected duplicates removed everywhere, got %+v", kept)
	}
	if len(trace.Removed) != 3 {
		t.Errorf("expected 3 removals, got %d", len(trace.Removed))
	}
}

func TestFilterCrossPageDuplicates_OrderPreserved(t *testing.T) {
	blocks := []Block{
		{Text: "B", Size: 12, Page: 1, X0: 72, Y0: 100},
		{Text: "A", Size: 12, Page: 1, X0: 72, Y0: 200},
		{Text: "C", Size: 12, Page: 2, X0: 72, Y0: 100},
	}
	kept, _ := FilterCrossPageDuplicates(blocks, 2, DefaultConfig())
	if len(kept) != 3 {
		t.Fatalf("expected all blocks kept, got %d", len(kept))
	}
	if kept[0].Text != "B" || kept[1].Text != "A" || kept[2].Text != "C" {
		t.Errorf("input order not preserved: %+v", kept)
	}
}

func TestFilterCrossPageDuplicates_SinglePagePassthrough(t *testing.T) {
	blocks := []Block{
		{Text: "Only", Size: 12, Page: 1, X0: 72, Y0: 100},
		{Text: "Page", Size: 12, Page: 1, X0: 72, Y0: 140},
	}
	kept, _ := FilterCrossPageDuplicates(blocks, 1, DefaultConfig())
	if len(kept) != 2 {
		t.Errorf("expected single-page document untouched, got %d", len(kept))
	}
}

func TestFilterPageNumbersDatesTOC(t *testing.T) {
	cases := []struct {
		text   string
		reason string
	}{
		{"Page 3 of 10", "page_number"},
		{"3 / 12", "page_number"},
		{"March 14, 2026", "date"},
		// Slash dates hit the page-number pattern first; precedence is
		// part of the contract.
		{"12/31/2025", "page_number"},
		{"Table of Contents", "table_of_contents"},
		{"Contents", "table_of_contents"},
		{"Date", "date_word"},
	}
	for _, c := range cases {
		kept, trace := FilterPageNumbersDatesTOC([]Block{{Text: c.text, Page: 1}})
		if len(kept) != 0 {
			t.Errorf("expected %q removed", c.text)
			continue
		}
		if trace.Removed[0].Reason != c.reason {
			t.Errorf("%q: expected reason %q, got %q", c.text, c.reason, trace.Removed[0].Reason)
		}
	}

	kept, _ := FilterPageNumbersDatesTOC([]Block{{Text: "Introduction", Page: 1}})
	if len(kept) != 1 {
		t.Error("expected plain heading kept")
	}
}

func TestParseNumberPrefix(t *testing.T) {
	cases := []struct {
		text string
		want []int
	}{
		{"1. Introduction", []int{1}},
		{"3.1 Scope", []int{3, 1}},
		{"2.3.4) Details", []int{2, 3, 4}},
		{"Introduction", nil},
		{"1.Introduction", nil},
	}
	for _, c := range cases {
		got := parseNumberPrefix(c.text)
		if len(got) != len(c.want) {
			t.Errorf("%q: expected %v, got %v", c.text, c.want, got)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%q: expected %v, got %v", c.text, c.want, got)
				break
			}
		}
	}
}

func TestIsContinuation(t *testing.T) {
	cases := []struct {
		current, next []int
		want          bool
	}{
		{[]int{3, 1}, []int{3, 2}, true},
		{[]int{3, 1}, []int{3, 1, 1}, true},
		{[]int{3, 1}, []int{4}, true},
		{[]int{3, 1}, []int{5}, false},
		{[]int{3, 1}, []int{2, 2}, false},
		{[]int{3, 1}, []int{3, 1}, false},
	}
	for _, c := range cases {
		if got := isContinuation(c.current, c.next); got != c.want {
			t.Errorf("%v -> %v: expected %v, got %v", c.current, c.next, c.want, got)
		}
	}
}

func TestFilterNumberingInterruptions(t *testing.T) {
	texts := []string{
		"1. Introduction",
		"Random note",
		"1.1 Background",
		"Another note",
		"1.2 Scope",
		"2. Next Section",
	}
	var blocks []Block
	for i, text := range texts {
		blocks = append(blocks, Block{Text: text, Page: 1, Y0: float64(100 + i*30)})
	}
	kept, trace := FilterNumberingInterruptions(blocks)
	if len(kept) != 5 {
		t.Fatalf("expected 5 survivors, got %d: %+v", len(kept), kept)
	}
	for _, b := range kept {
		if b.Text == "Another note" {
			t.Error("expected interrupting block removed")
		}
	}
	if len(trace.Removed) != 1 || trace.Removed[0].Text != "Another note" {
		t.Errorf("unexpected removals: %+v", trace.Removed)
	}
}

func TestClassifyHeadings_InclusionAndExclusion(t *testing.T) {
	blocks := []Block{
		{Text: "Introduction", Size: 18, Page: 1},
		{Text: "Scope", Size: 14, Page: 1},
		{Text: "Many words without markers here", Size: 10, Page: 1},
		{Text: "Section IV Overview", Size: 10, Page: 2},
		{Text: "Overview.", Size: 18, Page: 2},
		{Text: "however it continues", Size: 18, Page: 2},
		{Text: "However, the process continues", Size: 18, Page: 3},
		{Text: "The following items are required:", Size: 18, Page: 3},
	}
	kept, trace := ClassifyHeadings(blocks)

	want := map[string]bool{
		"Introduction":        true,
		"Scope":               true,
		"Section IV Overview": true,
	}
	if len(kept) != len(want) {
		t.Fatalf("expected %d survivors, got %d: %+v", len(want), len(kept), kept)
	}
	for _, b := range kept {
		if !want[b.Text] {
			t.Errorf("unexpected survivor %q", b.Text)
		}
	}

	reasons := make(map[string]string)
	for _, r := range trace.Removed {
		reasons[r.Text] = r.Reason
	}
	expect := map[string]string{
		"Many words without markers here":   "not_heading_like",
		"Overview.":                         "ends_with_period",
		"however it continues":              "lowercase_start",
		"However, the process continues":    "transitional_word",
		"The following items are required:": "following_colon",
	}
	for text, reason := range expect {
		if reasons[text] != reason {
			t.Errorf("%q: expected reason %q, got %q", text, reason, reasons[text])
		}
	}
}

func TestClassifyHeadings_DigitAnywhereIncluded(t *testing.T) {
	blocks := []Block{
		{Text: "Main Title", Size: 20, Page: 1},
		{Text: "Subtitle", Size: 18, Page: 1},
		{Text: "Chapter 7 Overview", Size: 10, Page: 2},
	}
	kept, _ := ClassifyHeadings(blocks)
	if len(kept) != 3 {
		t.Fatalf("expected 3 survivors, got %d: %+v", len(kept), kept)
	}
	found := false
	for _, b := range kept {
		if b.Text == "Chapter 7 Overview" {
			found = true
		}
	}
	if !found {
		t.Error("expected block with mid-text digit kept below the top sizes")
	}
}

func TestClassifyHeadings_TransitionalAnywhereExcluded(t *testing.T) {
	blocks := []Block{
		{Text: "For example, the process continues", Size: 18, Page: 1},
		{Text: "Overview of results however, details follow", Size: 18, Page: 1},
		{Text: "Results", Size: 18, Page: 1},
	}
	kept, trace := ClassifyHeadings(blocks)
	if len(kept) != 1 || kept[0].Text != "Results" {
		t.Fatalf("expected only plain heading kept, got %+v", kept)
	}
	for _, r := range trace.Removed {
		if r.Reason != "transitional_word" {
			t.Errorf("%q: expected reason %q, got %q", r.Text, "transitional_word", r.Reason)
		}
	}
}

func TestClassifyHeadings_NumberedPrefixPeriodAllowed(t *testing.T) {
	blocks := []Block{
		{Text: "1.2 System Requirements", Size: 12, Page: 1},
		{Text: "This has a sentence. Inside", Size: 12, Page: 1},
	}
	kept, _ := ClassifyHeadings(blocks)
	if len(kept) != 1 || kept[0].Text != "1.2 System Requirements" {
		t.Errorf("expected numbered heading kept and sentence dropped, got %+v", kept)
	}
}
