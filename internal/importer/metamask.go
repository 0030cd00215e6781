package importer

import (
	"fmt"
	"regexp"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/csvledger/csvledger/internal/csvtext"
	"github.com/csvledger/csvledger/internal/model"
)

// MetaMaskParser parses MetaMask card wallet exports. Every row is a card
// spend, so amounts are negated.
type MetaMaskParser struct {
	logger   *log.Logger
	unit     string
	amountRe *regexp.Regexp
}

const (
	metaMaskDelim        = ','
	metaMaskColTimestamp = 0
	metaMaskColMerchant  = 1
	metaMaskColFunding   = 2
)

var metaMaskColumns = ColumnSpec{
	{Name: "Timestamp"},
	{Name: "Merchant"},
	{Name: "Funding Tokens"},
}

func newMetaMaskParser(logger *log.Logger, unit string) *MetaMaskParser {
	return &MetaMaskParser{
		logger:   logger,
		unit:     unit,
		amountRe: regexp.MustCompile(`^([\d.]+)\s+` + regexp.QuoteMeta(unit)),
	}
}

// Institution returns MetaMask.
func (p *MetaMaskParser) Institution() Institution { return MetaMask }

// Delimiter returns the field separator.
func (p *MetaMaskParser) Delimiter() rune { return metaMaskDelim }

// Columns returns the required header columns.
func (p *MetaMaskParser) Columns() ColumnSpec { return metaMaskColumns }

// Process parses a MetaMask CSV export.
func (p *MetaMaskParser) Process(text string, since civil.Date) ([]model.Record, error) {
	lines, err := prepare(text)
	if err != nil {
		return nil, err
	}

	indices := ResolveColumns(csvtext.Tokenize(lines[0], metaMaskDelim), metaMaskColumns)
	if err := AssertResolved(indices, metaMaskColumns); err != nil {
		return nil, err
	}

	return collect(p.logger, lines, 1, func(line string) (model.Record, error) {
		return p.parseRow(csvtext.Tokenize(line, metaMaskDelim), indices, since)
	}), nil
}

func (p *MetaMaskParser) parseRow(fields []string, indices []int, since civil.Date) (model.Record, error) {
	values, err := requiredFields(fields, indices)
	if err != nil {
		return model.Record{}, err
	}
	timestamp := values[metaMaskColTimestamp]
	merchant := values[metaMaskColMerchant]
	funding := values[metaMaskColFunding]
	if timestamp == "" || merchant == "" || funding == "" {
		return model.Record{}, errMissingField
	}

	date, err := parseTimestampDate(timestamp)
	if err != nil {
		return model.Record{}, err
	}
	if !onOrAfter(date, since) {
		return model.Record{}, errBeforeCutoff
	}

	m := p.amountRe.FindStringSubmatch(funding)
	if m == nil {
		return model.Record{}, fmt.Errorf("%w: no %s amount in %q", errBadAmount, p.unit, funding)
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %q", errBadAmount, m[1])
	}

	return newRecord(date, merchant, amount.Neg()), nil
}

// parseTimestampDate reads the leading YYYY-MM-DD of a timestamp.
func parseTimestampDate(timestamp string) (civil.Date, error) {
	const isoDateLen = len("2006-01-02")
	if len(timestamp) < isoDateLen {
		return civil.Date{}, fmt.Errorf("%w: %q", errBadDate, timestamp)
	}
	d, err := civil.ParseDate(timestamp[:isoDateLen])
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", errBadDate, timestamp)
	}
	return d, nil
}
