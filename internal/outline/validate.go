package outline

import (
	"regexp"
	"strings"
)

var levelPattern = regexp.MustCompile(`^H[1-9]\d*$`)

// ValidateEntry checks an outline entry for validity. Returns true if
// valid.
func ValidateEntry(e *HeadingEntry) bool {
	if e == nil {
		return false
	}
	if strings.TrimSpace(e.Text) == "" {
		return false
	}
	if !levelPattern.MatchString(e.Level) {
		return false
	}
	if e.Page < 0 {
		return false
	}
	return true
}

// ValidateDocument checks every entry of a document, returning the
// index of the first invalid entry, or -1 when all are valid.
func ValidateDocument(doc *Document) int {
	if doc == nil {
		return 0
	}
	for i := range doc.Outline {
		if !ValidateEntry(&doc.Outline[i]) {
			return i
		}
	}
	return -1
}
