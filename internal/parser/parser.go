// Package parser converts supported document formats into an outline
// document: a title plus an ordered list of leveled headings. PDF goes
// through the geometric heading pipeline; markdown, HTML and DOCX carry
// explicit structure and map onto it directly.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/avandyck/outliner/internal/outline"
)

// Parser converts raw document bytes into an outline document.
type Parser interface {
	Parse(r io.Reader, filename string) (*outline.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// stem strips the extension off a filename for use as a fallback title.
func stem(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

func levelName(level int) string {
	return fmt.Sprintf("H%d", level)
}
