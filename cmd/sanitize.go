package cmd

import "strings"

// sanitize replaces control characters (runes < 0x20 or == 0x7F) with '?'
// before guide text or paths reach the terminal. Guides are 8-bit files and
// may carry escape sequences in node names, labels and messages.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '?'
		}
		return r
	}, s)
}
