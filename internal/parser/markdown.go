package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/avandyck/outliner/internal/outline"
)

// MarkdownParser handles Markdown files using goldmark. Heading levels
// map directly onto outline levels; the first top-level heading becomes
// the document title and is left out of the outline.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &outline.Document{Title: stem(filename), Outline: []outline.HeadingEntry{}}
	titled := false

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		title := strings.TrimSpace(string(heading.Text(src)))
		if title == "" {
			continue
		}
		if !titled && heading.Level == 1 {
			doc.Title = title
			titled = true
			continue
		}
		doc.Outline = append(doc.Outline, outline.HeadingEntry{
			Level: levelName(heading.Level),
			Text:  title,
			Page:  0,
		})
	}

	return doc, nil
}
