package importer

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/csvledger/csvledger/internal/csvtext"
	"github.com/csvledger/csvledger/internal/model"
)

// DHParser parses Deželna Hranilnica account exports. The header may be
// preceded by account summary lines. Debits (Breme) and credits (Dobro)
// are separate columns written with a decimal comma.
type DHParser struct {
	logger *log.Logger
}

const (
	dhDelim       = ';'
	dhDateFormat  = "2.1.2006"
	dhDateMarker  = "Datum valute"
	dhPayeeMarker = "Prejemnik"
	dhColDate     = 0
	dhColPayee    = 1
	dhColDebit    = 2
	dhColCredit   = 3
)

var dhColumns = ColumnSpec{
	{Name: dhDateMarker},
	{Name: dhPayeeMarker, Contains: true},
	{Name: "Breme"},
	{Name: "Dobro"},
}

// Institution returns DH.
func (p *DHParser) Institution() Institution { return DH }

// Delimiter returns the field separator.
func (p *DHParser) Delimiter() rune { return dhDelim }

// Columns returns the required header columns.
func (p *DHParser) Columns() ColumnSpec { return dhColumns }

// Process parses a DH CSV export.
func (p *DHParser) Process(text string, since civil.Date) ([]model.Record, error) {
	lines, err := prepare(text)
	if err != nil {
		return nil, err
	}

	headerIdx := findDHHeader(lines)
	if headerIdx < 0 {
		return nil, &MissingColumnsError{Columns: dhColumns.Names()}
	}
	p.logger.Debug("found header", "line", headerIdx+1)

	indices := ResolveColumns(csvtext.Tokenize(lines[headerIdx], dhDelim), dhColumns)
	if err := AssertResolved(indices, dhColumns); err != nil {
		return nil, err
	}

	return collect(p.logger, lines, headerIdx+1, func(line string) (model.Record, error) {
		return parseDHRow(csvtext.Tokenize(line, dhDelim), indices, since)
	}), nil
}

// findDHHeader returns the index of the first line carrying both header
// markers, or -1.
func findDHHeader(lines []string) int {
	for i, line := range lines {
		if strings.Contains(line, dhDateMarker) && strings.Contains(line, dhPayeeMarker) {
			return i
		}
	}
	return -1
}

func parseDHRow(fields []string, indices []int, since civil.Date) (model.Record, error) {
	values, err := requiredFields(fields, indices)
	if err != nil {
		return model.Record{}, err
	}
	valueDate := values[dhColDate]
	payee := values[dhColPayee]
	if valueDate == "" || payee == "" {
		return model.Record{}, errMissingField
	}

	t, err := time.Parse(dhDateFormat, valueDate)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %q", errBadDate, valueDate)
	}
	date := civil.DateOf(t)
	if !onOrAfter(date, since) {
		return model.Record{}, errBeforeCutoff
	}

	// Only the debit column is read when it is filled, even if it fails to
	// parse. A zero result is indistinguishable from a missing amount.
	var amount decimal.Decimal
	switch debit, credit := values[dhColDebit], values[dhColCredit]; {
	case debit != "":
		if d, err := parseDecimalComma(debit); err == nil {
			amount = d.Neg()
		}
	case credit != "":
		if d, err := parseDecimalComma(credit); err == nil {
			amount = d
		}
	}
	if amount.IsZero() {
		return model.Record{}, fmt.Errorf("%w: no non-zero Breme or Dobro", errBadAmount)
	}

	return newRecord(date, payee, amount), nil
}

// parseDecimalComma parses "1.234,56" style numbers: dots group thousands
// and the first comma is the decimal separator.
func parseDecimalComma(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}
