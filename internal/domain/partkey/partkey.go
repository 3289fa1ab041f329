// Package partkey canonicalizes part numbers so the same physical part
// matches across inconsistent supplier formatting. Mopar prints leading
// zeros that other sources drop: "0VU01321AC" and "VU01321AC" must compare
// equal.
package partkey

import "strings"

// Normalize returns the canonical key for a part number: uppercase with
// leading zeros stripped. An all-zero input normalizes to "0", empty input
// to "". Normalize is idempotent.
func Normalize(part string) string {
	s := strings.ToUpper(strings.TrimSpace(part))
	if s == "" {
		return ""
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
