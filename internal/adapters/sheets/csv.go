package sheets

import "strings"

// parseCSVLine splits one CSV line on commas with RFC4180-style quoting:
// a double-quoted field may contain literal commas, and a doubled quote
// inside a quoted field stands for one quote character. Fields are
// whitespace-trimmed.
//
// Spreadsheet exports never contain embedded newlines in these two
// columns, so a per-line parser is enough here; encoding/csv would force
// whole-body parsing and reject the ragged rows we deliberately skip.
func parseCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))

	return result
}
