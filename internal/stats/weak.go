package stats

import (
	"sort"
	"unicode/utf8"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// SelectWeakKeys selects the expected characters the typist missed most often.
func SelectWeakKeys(report model.SessionReport, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	misses := map[rune]int{}
	for _, e := range report.Errors {
		r, _ := utf8.DecodeRuneInString(e.Expected)
		if e.Expected == "" || r == ' ' {
			continue
		}
		misses[r]++
	}
	if len(misses) == 0 {
		return weakSet
	}
	candidates := make([]rune, 0, len(misses))
	for r := range misses {
		candidates = append(candidates, r)
	}
	sort.Slice(candidates, func(i, j int) bool {
		mi, mj := misses[candidates[i]], misses[candidates[j]]
		if mi == mj {
			return candidates[i] < candidates[j]
		}
		return mi > mj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, r := range candidates[:top] {
		weakSet[r] = struct{}{}
	}
	return weakSet
}
