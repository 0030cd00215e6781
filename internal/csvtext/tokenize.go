package csvtext

import "strings"

// Tokenize splits one CSV line into fields.
//
// Every '"' toggles quoting and is dropped from the output; a delimiter only
// separates fields outside quotes. There is no "" escape, so a doubled quote
// inside a quoted field closes and reopens quoting. The last field is always
// emitted, so the result has one more element than there are unquoted
// delimiters.
func Tokenize(line string, delim rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, current.String())
}
