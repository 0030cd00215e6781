package csvtext

import "strings"

// formulaTriggers are leading characters that spreadsheet applications
// interpret as the start of a formula.
const formulaTriggers = "=+-@\t\r"

// Sanitize neutralizes spreadsheet formula injection and escapes quotes.
//
// A value whose first character is a formula trigger gets a leading
// apostrophe. Every '"' is doubled regardless of the prefix.
func Sanitize(value string) string {
	if value == "" {
		return ""
	}

	escaped := strings.ReplaceAll(value, `"`, `""`)
	if strings.IndexByte(formulaTriggers, value[0]) >= 0 {
		return "'" + escaped
	}
	return escaped
}
