package wordlist

import "strings"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// Languages lists the values FilterForLang understands.
var Languages = []string{"en", "any"}

// FilterForLang returns a language-specific filter for word lists.
// Unknown languages keep every word.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en":
		return filterEnglishASCII
	default:
		return keepAll
	}
}

func keepAll(word string) bool {
	return !strings.ContainsFunc(word, isControl)
}

func isControl(r rune) bool {
	return r < ' ' || r == 0x7f
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
