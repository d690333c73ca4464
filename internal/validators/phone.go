package validators

import "strings"

// NormalizePhone strips formatting ("+55 (11) 98888-7777") down to digits.
// Numbers outside 10..15 digits are rejected.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+' || r == '.':
		default:
			return "", false
		}
	}

	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return "", false
	}
	return digits, true
}
