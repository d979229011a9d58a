package importer

import "strings"

// NameToID converts a display name to a stable snake_case identifier.
// Whitespace and dashes separate words; other punctuation is dropped.
//
// Postcondition: result is lowercase, contains only [a-z0-9_], has no
// leading, trailing or doubled underscores, and is idempotent
// (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			pending = true
		}
	}
	return b.String()
}
