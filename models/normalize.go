package models

import "strings"

// Hand-edited sheets write the same identifier a dozen ways ("##1005",
// "1005", "INV-1 " vs "inv-1"). Every cross-sheet equality comparison goes
// through these; raw string equality is never a valid match.

// NormalizeID canonicalizes an order id or invoice number: every '#' is
// removed (not just a leading one), surrounding whitespace trimmed, result
// lower-cased.
func NormalizeID(raw string) string {
	s := strings.ReplaceAll(raw, "#", "")
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeFranchiseCode strips all internal whitespace and upper-cases.
// Codes compare case-insensitively but display upper-case.
func NormalizeFranchiseCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// NumericCore strips everything but digits, the last-resort equality for
// ids that grew stray prefixes or suffixes.
func NumericCore(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AlphaPrefix returns the leading letters of a franchise code ("BOL01" ->
// "BOL"), upper-cased.
func AlphaPrefix(code string) string {
	s := NormalizeFranchiseCode(code)
	for i, r := range s {
		if r < 'A' || r > 'Z' {
			return s[:i]
		}
	}
	return s
}
