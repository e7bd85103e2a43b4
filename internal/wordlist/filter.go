package wordlist

import "unicode"

// ValidTarget reports whether s looks like a Yoruba or Itsekiri word or
// phrase: letters with optional tone marks, spaces, hyphens, apostrophes
// and sentence punctuation.
func ValidTarget(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.Is(unicode.Mn, r):
			if letters == 0 {
				return false
			}
		case r == ' ', r == '-', r == '\'', r == '’', r == '?', r == '!', r == '.', r == ',':
		default:
			return false
		}
	}
	return letters > 0
}
