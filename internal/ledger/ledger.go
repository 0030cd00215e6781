// Package ledger renders normalized records as the exported ledger CSV.
package ledger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/csvledger/csvledger/internal/csvtext"
	"github.com/csvledger/csvledger/internal/importer"
	"github.com/csvledger/csvledger/internal/model"
)

// Header is the first line of every exported ledger.
const Header = "Date,Payee,Amount"

// ContentType is the MIME type of an exported ledger.
const ContentType = "text/csv;charset=utf-8"

const fileDateFormat = "2006-01-02"

// Render returns the ledger CSV for records. Every cell passes through
// csvtext.Sanitize and the payee is always quoted. Lines are joined with
// "\n" and there is no trailing newline.
func Render(records []model.Record) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, rec := range records {
		b.WriteByte('\n')
		b.WriteString(MarshalRecord(rec))
	}
	return b.String()
}

// MarshalRecord renders one record as a ledger line.
func MarshalRecord(rec model.Record) string {
	return csvtext.Sanitize(rec.Date) +
		`,"` + csvtext.Sanitize(rec.Payee) + `",` +
		csvtext.Sanitize(rec.Amount)
}

// Write renders records to w.
func Write(w io.Writer, records []model.Record) error {
	if _, err := io.WriteString(w, Render(records)); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// FileName returns the export file name for inst on the day of now,
// e.g. "N26_transactions_2024-02-10.csv".
func FileName(inst importer.Institution, now time.Time) string {
	return fmt.Sprintf("%s_transactions_%s.csv", inst, now.Format(fileDateFormat))
}
