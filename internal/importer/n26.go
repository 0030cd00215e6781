package importer

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/csvledger/csvledger/internal/csvtext"
	"github.com/csvledger/csvledger/internal/model"
)

// N26Parser parses N26 account exports. Amounts are already signed.
type N26Parser struct {
	logger *log.Logger
}

const (
	n26Delim      = ','
	n26ColDate    = 0
	n26ColPartner = 1
	n26ColAmount  = 2
)

var n26Columns = ColumnSpec{
	{Name: "Value Date"},
	{Name: "Partner Name"},
	{Name: "Amount (EUR)"},
}

// Institution returns N26.
func (p *N26Parser) Institution() Institution { return N26 }

// Delimiter returns the field separator.
func (p *N26Parser) Delimiter() rune { return n26Delim }

// Columns returns the required header columns.
func (p *N26Parser) Columns() ColumnSpec { return n26Columns }

// Process parses an N26 CSV export.
func (p *N26Parser) Process(text string, since civil.Date) ([]model.Record, error) {
	lines, err := prepare(text)
	if err != nil {
		return nil, err
	}

	indices := ResolveColumns(csvtext.Tokenize(lines[0], n26Delim), n26Columns)
	if err := AssertResolved(indices, n26Columns); err != nil {
		return nil, err
	}

	return collect(p.logger, lines, 1, func(line string) (model.Record, error) {
		return parseN26Row(csvtext.Tokenize(line, n26Delim), indices, since)
	}), nil
}

func parseN26Row(fields []string, indices []int, since civil.Date) (model.Record, error) {
	values, err := requiredFields(fields, indices)
	if err != nil {
		return model.Record{}, err
	}
	valueDate := values[n26ColDate]
	partner := values[n26ColPartner]
	amountStr := values[n26ColAmount]
	if valueDate == "" || partner == "" || amountStr == "" {
		return model.Record{}, errMissingField
	}

	date, err := civil.ParseDate(valueDate)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %q", errBadDate, valueDate)
	}
	if !onOrAfter(date, since) {
		return model.Record{}, errBeforeCutoff
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %q", errBadAmount, amountStr)
	}

	return newRecord(date, partner, amount), nil
}
