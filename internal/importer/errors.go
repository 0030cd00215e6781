package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/csvledger/csvledger/internal/model"
)

// InvalidStructureError is returned when a document fails the structural
// gate. Err holds the reason from csvtext.Check.
type InvalidStructureError struct {
	Err error
}

func (e *InvalidStructureError) Error() string {
	return fmt.Sprintf("invalid CSV file structure: %v", e.Err)
}

func (e *InvalidStructureError) Unwrap() error { return e.Err }

// MissingColumnsError lists every required column absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "required columns not found in CSV file: " + strings.Join(e.Columns, ", ")
}

// UnsupportedInstitutionError is returned for an institution with no adapter.
type UnsupportedInstitutionError struct {
	Name string
}

func (e *UnsupportedInstitutionError) Error() string {
	names := make([]string, 0, len(institutionNames))
	for _, inst := range Institutions() {
		names = append(names, inst.Tag())
	}
	return fmt.Sprintf("unsupported institution %q (available: %s)", e.Name, strings.Join(names, ", "))
}

// Outcome classifies the result of processing one document.
type Outcome int

const (
	// OutcomeRecords means at least one record was extracted.
	OutcomeRecords Outcome = iota + 1
	// OutcomeNoData means processing succeeded but no row qualified.
	OutcomeNoData
	// OutcomeFailed means processing returned an error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecords:
		return "records"
	case OutcomeNoData:
		return "no data"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Classify maps the return values of Process to an Outcome.
func Classify(records []model.Record, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeFailed
	case len(records) == 0:
		return OutcomeNoData
	default:
		return OutcomeRecords
	}
}

const genericFailure = "An error occurred while processing the file"

var (
	fileURLPattern     = regexp.MustCompile(`file://.*?:`)
	stackFramePattern  = regexp.MustCompile(`at\s+.*?\s+\(`)
	locationPattern    = regexp.MustCompile(`\(.*?:\d+:\d+\)`)
	unixPathPattern    = regexp.MustCompile(`(?:^|[\s"'(=])/(?:[^\s/:"']+/)*[^\s/:"']+`)
	windowsPathPattern = regexp.MustCompile(`[A-Za-z]:\\(?:[^\s\\:"']+\\)*[^\s\\:"']+`)
)

// UserMessage renders err for display, dropping file locations and stack
// fragments. Absolute paths are reduced to their base name.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = fileURLPattern.ReplaceAllString(msg, "")
	msg = stackFramePattern.ReplaceAllString(msg, "")
	msg = locationPattern.ReplaceAllString(msg, "")
	msg = unixPathPattern.ReplaceAllStringFunc(msg, func(m string) string {
		lead := ""
		if m[0] != '/' {
			lead, m = m[:1], m[1:]
		}
		return lead + filepath.Base(m)
	})
	msg = windowsPathPattern.ReplaceAllStringFunc(msg, func(m string) string {
		return m[strings.LastIndexByte(m, '\\')+1:]
	})

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return genericFailure
	}
	return msg
}
