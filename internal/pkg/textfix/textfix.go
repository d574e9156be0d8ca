// Package textfix normalizes free text typed at the front desk before it is
// validated or stored.
package textfix

import "strings"

var replacer = strings.NewReplacer(
	"\u00a0", " ", // non-breaking space
	"\u00ad", "-", // soft hyphen
	"\x02", "", // STX, not representable in XML exports
)

// Clean trims s and replaces characters that tend to sneak in from copy/paste.
func Clean(s string) string {
	return strings.TrimSpace(replacer.Replace(s))
}

// CleanPtr cleans an optional value. An empty result becomes nil.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Clean(*s)
	if v == "" {
		return nil
	}
	return &v
}
