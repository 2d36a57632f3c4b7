package outline

import (
	"testing"
)

func frag(text string, size, x0, y0, x1, y1 float64, page int) Fragment {
	return Fragment{Text: text, Size: size, X0: x0, Y0: y0, X1: x1, Y1: y1, Page: page}
}

func TestGroupLines_MergesSameRow(t *testing.T) {
	frags := []Fragment{
		frag("world", 12, 120, 100, 170, 112, 1),
		frag("Hello", 12, 50, 100.6, 100, 112.4, 1),
		frag("Next line", 12, 50, 140, 130, 152, 1),
	}
	lines := GroupLines(frags, DefaultConfig())
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "Hello world" {
		t.Errorf("expected spans joined in x order, got %q", lines[0].Text)
	}
	if lines[1].Text != "Next line" {
		t.Errorf("expected second line %q, got %q", "Next line", lines[1].Text)
	}
}

func TestGroupLines_DropsEmptySpans(t *testing.T) {
	frags := []Fragment{
		frag("   ", 12, 50, 100, 60, 112, 1),
		frag("Text", 12, 70, 100, 110, 112, 1),
	}
	lines := GroupLines(frags, DefaultConfig())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "Text" {
		t.Errorf("expected %q, got %q", "Text", lines[0].Text)
	}
}

func TestGroupLines_Idempotent(t *testing.T) {
	frags := []Fragment{
		frag("world", 12, 120, 100, 170, 112, 1),
		frag("Hello", 12, 50, 100, 100, 112, 1),
		frag("Second row", 12, 50, 140, 150, 152, 1),
		frag("Page two", 14, 72, 90, 160, 104, 2),
	}
	first := GroupLines(frags, DefaultConfig())

	regrouped := make([]Fragment, len(first))
	for i, l := range first {
		regrouped[i] = Fragment{Text: l.Text, Size: l.Size, X0: l.X0, Y0: l.Y0, X1: l.X1, Y1: l.Y1, Page: l.Page}
	}
	second := GroupLines(regrouped, DefaultConfig())

	if len(second) != len(first) {
		t.Fatalf("regrouping changed line count: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if second[i].Text != first[i].Text || second[i].Page != first[i].Page {
			t.Errorf("line %d changed: %q p%d -> %q p%d",
				i, first[i].Text, first[i].Page, second[i].Text, second[i].Page)
		}
	}
}

func TestInTable_OverlapBoundaries(t *testing.T) {
	regions := []TableRegion{{X0: 100, Y0: 100, X1: 200, Y1: 200, SpanCount: 9}}

	inside := frag("cell", 10, 120, 120, 160, 132, 1)
	if !InTable(inside, regions, 0.3) {
		t.Error("fragment fully inside region should be in table")
	}
	outside := frag("heading", 14, 300, 50, 400, 64, 1)
	if InTable(outside, regions, 0.3) {
		t.Error("fragment with no intersection should not be in table")
	}
	touching := frag("edge", 10, 60, 120, 100, 132, 1)
	if InTable(touching, regions, 0.3) {
		t.Error("fragment touching the region edge should not be in table")
	}
}

func TestGroupBlocks_SizeChangeSplits(t *testing.T) {
	lines := []Line{
		{Text: "Heading", Size: 18, Page: 1, Y0: 100, Y1: 118, X0: 72, X1: 200},
		{Text: "Body starts here", Size: 11, Page: 1, Y0: 115, Y1: 126, X0: 72, X1: 300},
	}
	blocks := GroupBlocks(lines, DefaultConfig())
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Reason != BreakSizeChange {
		t.Errorf("expected size_change break, got %q", blocks[0].Reason)
	}
	if blocks[1].Reason != BreakEndOfPage {
		t.Errorf("expected end_of_page break, got %q", blocks[1].Reason)
	}
}

func TestGroupBlocks_ParagraphGapSplits(t *testing.T) {
	lines := []Line{
		{Text: "First paragraph", Size: 11, Page: 1, Y0: 100, Y1: 111, X0: 72, X1: 300},
		{Text: "still first", Size: 11, Page: 1, Y0: 114, Y1: 125, X0: 72, X1: 280},
		{Text: "Second paragraph", Size: 11, Page: 1, Y0: 160, Y1: 171, X0: 72, X1: 300},
	}
	blocks := GroupBlocks(lines, DefaultConfig())
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text != "First paragraph still first" {
		t.Errorf("expected merged first block, got %q", blocks[0].Text)
	}
	if blocks[0].LineCount != 2 {
		t.Errorf("expected 2 lines in first block, got %d", blocks[0].LineCount)
	}
	if blocks[0].Reason != BreakParagraph {
		t.Errorf("expected paragraph_break, got %q", blocks[0].Reason)
	}
}

func TestGroupBlocks_ColonSplits(t *testing.T) {
	lines := []Line{
		{Text: "Ingredients:", Size: 11, Page: 1, Y0: 100, Y1: 111, X0: 72, X1: 200},
		{Text: "flour and water", Size: 11, Page: 1, Y0: 114, Y1: 125, X0: 72, X1: 280},
	}
	blocks := GroupBlocks(lines, DefaultConfig())
	if len(blocks) != 2 {
		t.Fatalf("expected colon to split blocks, got %d block(s)", len(blocks))
	}
	if blocks[0].Reason != BreakColon {
		t.Errorf("expected colon_separation, got %q", blocks[0].Reason)
	}
}

func TestAssignLevels_SizeRank(t *testing.T) {
	blocks := []Block{
		{Size: 18}, {Size: 18}, {Size: 14}, {Size: 12}, {Size: 12},
	}
	levels := AssignLevels(blocks)
	if levels[18] != "H1" || levels[14] != "H2" || levels[12] != "H3" {
		t.Errorf("unexpected level mapping: %v", levels)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	doc, _ := Build(nil, nil, "Untitled", 0, DefaultConfig())
	if doc.Title != "Untitled" {
		t.Errorf("expected title preserved, got %q", doc.Title)
	}
	if doc.Outline == nil {
		t.Fatal("expected non-nil outline slice")
	}
	if len(doc.Outline) != 0 {
		t.Errorf("expected empty outline, got %d entries", len(doc.Outline))
	}
}

func TestBuild_HeadingsAcrossPages(t *testing.T) {
	frags := []Fragment{
		frag("Overview", 18, 72, 100, 160, 118, 1),
		frag("The quick brown fox jumps", 11, 72, 140, 330, 151, 1),
		frag("over the lazy dog again", 11, 72, 155, 310, 166, 1),
		frag("Details", 18, 72, 100, 150, 118, 2),
	}
	pages := []PageInfo{
		{Number: 1, Width: 612, Height: 792},
		{Number: 2, Width: 612, Height: 792},
	}
	doc, traces := Build(frags, pages, "Doc", 0, DefaultConfig())

	if len(doc.Outline) != 2 {
		t.Fatalf("expected 2 outline entries, got %d: %+v", len(doc.Outline), doc.Outline)
	}
	if doc.Outline[0].Text != "Overview" || doc.Outline[0].Page != 0 || doc.Outline[0].Level != "H1" {
		t.Errorf("unexpected first entry: %+v", doc.Outline[0])
	}
	if doc.Outline[1].Text != "Details" || doc.Outline[1].Page != 1 {
		t.Errorf("unexpected second entry: %+v", doc.Outline[1])
	}
	if len(traces) == 0 {
		t.Error("expected stage traces")
	}
	for _, tr := range traces {
		if tr.AssumedPageHeight {
			t.Errorf("stage %s assumed page height despite known geometry", tr.Stage)
		}
	}
}

func TestBuild_ExcludesTitleRegion(t *testing.T) {
	frags := []Fragment{
		frag("Sample Handbook", 24, 150, 50, 460, 74, 1),
		frag("Overview", 18, 72, 150, 160, 168, 1),
		frag("Details", 18, 72, 100, 150, 118, 2),
	}
	pages := []PageInfo{
		{Number: 1, Width: 612, Height: 792},
		{Number: 2, Width: 612, Height: 792},
	}
	doc, _ := Build(frags, pages, "Sample Handbook", 84, DefaultConfig())
	for _, e := range doc.Outline {
		if e.Text == "Sample Handbook" {
			t.Errorf("title text leaked into outline: %+v", e)
		}
	}
}

func TestValidateEntry(t *testing.T) {
	good := HeadingEntry{Level: "H2", Text: "Scope", Page: 3}
	if !ValidateEntry(&good) {
		t.Error("expected valid entry to pass")
	}
	cases := []HeadingEntry{
		{Level: "H0", Text: "x", Page: 0},
		{Level: "heading", Text: "x", Page: 0},
		{Level: "H1", Text: "   ", Page: 0},
		{Level: "H1", Text: "x", Page: -1},
	}
	for _, c := range cases {
		if ValidateEntry(&c) {
			t.Errorf("expected invalid entry to fail: %+v", c)
		}
	}
	if ValidateEntry(nil) {
		t.Error("expected nil entry to fail")
	}
}

func TestValidateDocument(t *testing.T) {
	doc := &Document{
		Title: "T",
		Outline: []HeadingEntry{
			{Level: "H1", Text: "A", Page: 0},
			{Level: "bad", Text: "B", Page: 1},
		},
	}
	if got := ValidateDocument(doc); got != 1 {
		t.Errorf("expected first invalid index 1, got %d", got)
	}
	doc.Outline = doc.Outline[:1]
	if got := ValidateDocument(doc); got != -1 {
		t.Errorf("expected -1 for valid document, got %d", got)
	}
}
