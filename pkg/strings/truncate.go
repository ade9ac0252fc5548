// Package strings provides small text helpers shared across packages.
package strings

import (
	"strings"
)

// MaxEventMessageLen caps messages attached to emitted Kubernetes Events.
// The API truncates longer messages server-side; capping client-side keeps
// the "..." marker under our control.
const MaxEventMessageLen = 1024

// minTruncateLen leaves room for at least one character plus "...".
const minTruncateLen = 4

// TruncateMessage collapses all whitespace runs into single spaces and caps
// the result at maxLen runes, appending "..." when shortened. Operating on
// runes avoids splitting multi-byte characters.
func TruncateMessage(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
