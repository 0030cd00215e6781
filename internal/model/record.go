package model

// Record is one normalized ledger row, ready for export.
type Record struct {
	Date   string // YYYY/MM/DD, zero-padded
	Payee  string // sanitized for CSV
	Amount string // two decimals; negative = outflow, positive = inflow
}
