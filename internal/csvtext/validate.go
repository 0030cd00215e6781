package csvtext

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxLineLength is the longest line, in characters, accepted in a document.
const MaxLineLength = 10000

var (
	// ErrEmptyDocument is returned for empty or all-whitespace input.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrTooFewLines is returned when there is no line after the header.
	ErrTooFewLines = errors.New("document needs a header and at least one data line")
)

// LineTooLongError reports the first line over MaxLineLength.
type LineTooLongError struct {
	Line   int // 1-based
	Length int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line %d is %d characters long (max %d)", e.Line, e.Length, MaxLineLength)
}

// Check runs the structural gate on a raw document and reports why it fails.
func Check(doc string) error {
	if strings.TrimSpace(doc) == "" {
		return ErrEmptyDocument
	}

	lines := strings.Split(doc, "\n")
	if len(lines) < 2 {
		return ErrTooFewLines
	}

	for i, line := range lines {
		// Cheap byte-length test first; rune count only matters near the limit.
		if len(line) <= MaxLineLength {
			continue
		}
		if n := utf8.RuneCountInString(line); n > MaxLineLength {
			return &LineTooLongError{Line: i + 1, Length: n}
		}
	}
	return nil
}

// Validate reports whether doc passes Check.
func Validate(doc string) bool {
	return Check(doc) == nil
}
