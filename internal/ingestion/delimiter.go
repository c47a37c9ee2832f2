package ingestion

import "strings"

// delimiters are tried in this order; the first one producing the expected
// field count wins.
var delimiters = []string{",", "\t", " "}

// tokenCutset is stripped from both ends of every token.
const tokenCutset = "'\" \t\r\n"

// byteOrderMark is dropped from the start of a file, as spreadsheet exports
// often write one.
const byteOrderMark = "\ufeff"

// ParseLegacyLine splits one line of a legacy price file.
//
// It tries comma, tab and a single space in that order and accepts the first
// delimiter that yields exactly expected non-empty tokens. Each token is
// trimmed of surrounding quotes and whitespace. When no delimiter fits, the
// row is rejected with ok=false; callers skip it without raising.
//
// Space-delimited rows whose fields themselves contain spaces are not
// recoverable and are rejected like any other malformed row.
func ParseLegacyLine(line string, expected int) ([]string, bool) {
	line = strings.TrimRight(line, "\r\n")
	if expected <= 0 || strings.TrimSpace(line) == "" {
		return nil, false
	}
	for _, sep := range delimiters {
		if fields, ok := splitExact(line, sep, expected); ok {
			return fields, true
		}
	}
	return nil, false
}

func splitExact(line, sep string, expected int) ([]string, bool) {
	parts := strings.Split(line, sep)
	if len(parts) != expected {
		return nil, false
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		tok := strings.Trim(p, tokenCutset)
		if tok == "" {
			return nil, false
		}
		out[i] = tok
	}
	return out, true
}
