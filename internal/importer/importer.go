package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/csvledger/csvledger/internal/csvtext"
	"github.com/csvledger/csvledger/internal/model"
)

// Adapter converts one institution's CSV export into ledger records.
type Adapter interface {
	Institution() Institution
	Delimiter() rune
	Columns() ColumnSpec
	// Process parses text and returns records dated on or after since.
	// A zero since disables date filtering. An empty result is not an error.
	Process(text string, since civil.Date) ([]model.Record, error)
}

// DefaultCurrencyUnit is the token the MetaMask adapter expects after an
// amount in the Funding Tokens column.
const DefaultCurrencyUnit = "usdc"

type options struct {
	logger       *log.Logger
	currencyUnit string
}

// Option configures an adapter built by New.
type Option func(*options)

// WithLogger sets the logger that receives per-row skip diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCurrencyUnit overrides DefaultCurrencyUnit for the MetaMask adapter.
func WithCurrencyUnit(unit string) Option {
	return func(o *options) {
		if unit != "" {
			o.currencyUnit = unit
		}
	}
}

// New returns the adapter for inst.
func New(inst Institution, opts ...Option) (Adapter, error) {
	o := options{
		logger:       log.New(io.Discard),
		currencyUnit: DefaultCurrencyUnit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.WithPrefix(inst.Tag())

	switch inst {
	case MetaMask:
		return newMetaMaskParser(logger, o.currencyUnit), nil
	case N26:
		return &N26Parser{logger: logger}, nil
	case DH:
		return &DHParser{logger: logger}, nil
	}
	return nil, &UnsupportedInstitutionError{Name: inst.String()}
}

// Process parses text with the adapter for inst.
func Process(inst Institution, text string, since civil.Date, opts ...Option) ([]model.Record, error) {
	a, err := New(inst, opts...)
	if err != nil {
		return nil, err
	}
	return a.Process(text, since)
}

// Row skip reasons. They are logged, never returned.
var (
	errShortRow     = errors.New("fewer fields than required columns")
	errMissingField = errors.New("required field is empty")
	errBadDate      = errors.New("unparseable date")
	errBadAmount    = errors.New("unparseable amount")
	errBeforeCutoff = errors.New("dated before cutoff")
)

// prepare gates text through csvtext.Check and splits it into lines with
// surrounding whitespace, a UTF-8 BOM and CR line endings removed.
func prepare(text string) ([]string, error) {
	if err := csvtext.Check(text); err != nil {
		return nil, &InvalidStructureError{Err: err}
	}

	text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// collect parses every non-blank line from lines[first:] with parse,
// logging and dropping the ones it rejects.
func collect(logger *log.Logger, lines []string, first int, parse func(line string) (model.Record, error)) []model.Record {
	records := make([]model.Record, 0, len(lines)-first)
	for i := first; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		rec, err := parse(lines[i])
		if err != nil {
			logger.Debug("skipping row", "line", i+1, "reason", err)
			continue
		}
		records = append(records, rec)
	}
	logger.Debug("parsed document", "records", len(records), "lines", len(lines)-first)
	return records
}

// requiredFields returns the trimmed values at indices, or errShortRow when
// the row is too short.
func requiredFields(fields []string, indices []int) ([]string, error) {
	if len(fields) <= maxIndex(indices) {
		return nil, fmt.Errorf("%w: got %d", errShortRow, len(fields))
	}
	values := make([]string, len(indices))
	for i, idx := range indices {
		values[i] = strings.TrimSpace(fields[idx])
	}
	return values, nil
}

// onOrAfter reports whether d passes the cutoff; an invalid since passes all.
func onOrAfter(d, since civil.Date) bool {
	return !since.IsValid() || !d.Before(since)
}

func formatDate(d civil.Date) string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, int(d.Month), d.Day)
}

func newRecord(date civil.Date, payee string, amount decimal.Decimal) model.Record {
	return model.Record{
		Date:   formatDate(date),
		Payee:  csvtext.Sanitize(payee),
		Amount: amount.StringFixed(2),
	}
}
