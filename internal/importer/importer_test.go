package importer

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvledger/csvledger/internal/csvtext"
	"github.com/csvledger/csvledger/internal/model"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestMetaMaskParser_Process(t *testing.T) {
	recs, err := Process(MetaMask, readFixture(t, "metamask.csv"), civil.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, model.Record{Date: "2024/01/05", Payee: "CoffeeShop", Amount: "-3.50"}, recs[0])

	// Quoted merchant keeps its comma
	assert.Equal(t, "Books, Maps & More", recs[1].Payee)
	assert.Equal(t, "-12.99", recs[1].Amount)

	assert.Equal(t, "2023/12/30", recs[3].Date)
	assert.Equal(t, "-18.40", recs[3].Amount)
}

func TestMetaMaskParser_Cutoff(t *testing.T) {
	since := civil.Date{Year: 2024, Month: 1, Day: 12}
	recs, err := Process(MetaMask, readFixture(t, "metamask.csv"), since)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// The cutoff day itself is kept
	assert.Equal(t, "2024/01/12", recs[0].Date)
	assert.Equal(t, "2024/01/20", recs[1].Date)
}

func TestMetaMaskParser_CurrencyUnit(t *testing.T) {
	doc := "Timestamp,Merchant,Funding Tokens\n" +
		"2024-01-05,CoffeeShop,3.50 usdc\n" +
		"2024-01-06,Bakery,4.25 eurc\n"

	recs, err := Process(MetaMask, doc, civil.Date{}, WithCurrencyUnit("eurc"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Bakery", recs[0].Payee)
	assert.Equal(t, "-4.25", recs[0].Amount)
}

func TestMetaMaskParser_ZeroAmount(t *testing.T) {
	doc := "Timestamp,Merchant,Funding Tokens\n2024-01-05,Free Sample,0 usdc"
	recs, err := Process(MetaMask, doc, civil.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "0.00", recs[0].Amount)
}

func TestMetaMaskParser_SkipsBadRows(t *testing.T) {
	doc := strings.Join([]string{
		"Timestamp,Merchant,Funding Tokens",
		"2024-01-05,,3.50 usdc",        // empty merchant
		"2024-01,Short Date,1.00 usdc", // date too short
		"2024-01-06,Too Few",           // short row
		"2024-01-07,Ok,1.2.3 usdc",     // amount matches pattern but is not a number
		"2024-01-08,Kept,1 usdc",
	}, "\n")

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	recs, err := Process(MetaMask, doc, civil.Date{}, WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Kept", recs[0].Payee)
	assert.Equal(t, "-1.00", recs[0].Amount)

	assert.Equal(t, 4, strings.Count(buf.String(), "skipping row"))
}

func TestN26Parser_Process(t *testing.T) {
	recs, err := Process(N26, readFixture(t, "n26.csv"), civil.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, model.Record{Date: "2024/02/10", Payee: "Grocery, Inc", Amount: "-45.00"}, recs[0])
	assert.Equal(t, model.Record{Date: "2024/02/15", Payee: "ACME GmbH", Amount: "2500.00"}, recs[1])

	// Formula-looking payees are neutralized
	assert.Equal(t, "'=HYPERLINK(x)", recs[3].Payee)
	assert.Equal(t, "-1.50", recs[3].Amount)
}

func TestN26Parser_Cutoff(t *testing.T) {
	since := civil.Date{Year: 2024, Month: 2, Day: 1}
	recs, err := Process(N26, readFixture(t, "n26.csv"), since)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.NotEqual(t, "Streaming Co", r.Payee)
	}
}

func TestN26Parser_NoMatches(t *testing.T) {
	since := civil.Date{Year: 2025, Month: 1, Day: 1}
	recs, err := Process(N26, readFixture(t, "n26.csv"), since)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, OutcomeNoData, Classify(recs, err))
}

func TestN26Parser_MissingColumn(t *testing.T) {
	doc := "Value Date,Partner Name,Amount\n2024-02-10,Shop,-1.00"
	_, err := Process(N26, doc, civil.Date{})
	require.Error(t, err)

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Amount (EUR)"}, mce.Columns)
	assert.Equal(t, OutcomeFailed, Classify(nil, err))
}

func TestN26Parser_MissingAllColumns(t *testing.T) {
	_, err := Process(N26, "a,b,c\n1,2,3", civil.Date{})

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Value Date", "Partner Name", "Amount (EUR)"}, mce.Columns)
}

func TestN26Parser_BOMAndCRLF(t *testing.T) {
	doc := "\ufeffValue Date,Partner Name,Amount (EUR)\r\n2024-02-10,Shop,-1\r\n"
	recs, err := Process(N26, doc, civil.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.Record{Date: "2024/02/10", Payee: "Shop", Amount: "-1.00"}, recs[0])
}

func TestDHParser_Process(t *testing.T) {
	recs, err := Process(DH, readFixture(t, "dh.csv"), civil.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, model.Record{Date: "2024/03/15", Payee: "Landlord", Amount: "-500.00"}, recs[0])
	assert.Equal(t, model.Record{Date: "2024/03/18", Payee: "Employer d.o.o.", Amount: "1850.75"}, recs[1])
	// Single-digit day and month
	assert.Equal(t, model.Record{Date: "2024/03/05", Payee: "Pharmacy", Amount: "-8.40"}, recs[2])
}

func TestDHParser_HeaderOnFirstLine(t *testing.T) {
	doc := "Datum valute;Prejemnik;Breme;Dobro\n15.03.2024;Landlord;500,00;"
	recs, err := Process(DH, doc, civil.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.Record{Date: "2024/03/15", Payee: "Landlord", Amount: "-500.00"}, recs[0])
}

func TestDHParser_Cutoff(t *testing.T) {
	since := civil.Date{Year: 2024, Month: 3, Day: 15}
	recs, err := Process(DH, readFixture(t, "dh.csv"), since)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Landlord", recs[0].Payee)
	assert.Equal(t, "Employer d.o.o.", recs[1].Payee)
}

func TestDHParser_NoHeader(t *testing.T) {
	_, err := Process(DH, "Izpisek;;\nDatum;Naziv;Znesek\n1.1.2024;x;1,00", civil.Date{})

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Datum valute", "Prejemnik", "Breme", "Dobro"}, mce.Columns)
}

func TestDHParser_MissingAmountColumns(t *testing.T) {
	_, err := Process(DH, "Datum valute;Prejemnik;Znesek\n1.1.2024;x;1,00", civil.Date{})

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Breme", "Dobro"}, mce.Columns)
}

func TestParseDecimalComma(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"500,00", "500.00"},
		{"1.850,75", "1850.75"},
		{"1.000.000,5", "1000000.50"},
		{"12", "12.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := parseDecimalComma(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.StringFixed(2))
		})
	}

	_, err := parseDecimalComma("1,2,3")
	assert.Error(t, err)
}

func TestProcess_InvalidStructure(t *testing.T) {
	for _, inst := range Institutions() {
		t.Run(inst.Tag(), func(t *testing.T) {
			_, err := Process(inst, "only a header", civil.Date{})
			var ise *InvalidStructureError
			require.True(t, errors.As(err, &ise))
			assert.ErrorIs(t, err, csvtext.ErrTooFewLines)

			_, err = Process(inst, "   ", civil.Date{})
			assert.ErrorIs(t, err, csvtext.ErrEmptyDocument)
		})
	}
}

func TestProcess_HeaderOnly(t *testing.T) {
	recs, err := Process(N26, "Value Date,Partner Name,Amount (EUR)\n", civil.Date{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestNew(t *testing.T) {
	for _, inst := range Institutions() {
		a, err := New(inst)
		require.NoError(t, err)
		assert.Equal(t, inst, a.Institution())
		assert.NotEmpty(t, a.Columns())
	}

	a, err := New(DH)
	require.NoError(t, err)
	assert.Equal(t, ';', a.Delimiter())

	_, err = New(Institution(42))
	var uie *UnsupportedInstitutionError
	require.True(t, errors.As(err, &uie))
	assert.Equal(t, "Institution(42)", uie.Name)
}
