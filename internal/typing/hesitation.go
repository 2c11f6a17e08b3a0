package typing

import (
	"strings"
	"time"
	"unicode"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// HesitationThresholdMs is the latency above which a keystroke counts as a
// hesitation.
const HesitationThresholdMs = 500

const (
	longPauseThresholdMs = 1000
	contextWindow        = 3
)

// numberSymbols are shifted number-row symbols counted with digits.
const numberSymbols = "!@#$%^&*()_+{}|:<>?"

var commonDigraphs = map[string]struct{}{
	"th": {}, "er": {}, "on": {}, "an": {}, "re": {},
	"he": {}, "in": {}, "ed": {}, "nd": {}, "ha": {},
}

// DetectHesitation reports a hesitation when latency exceeds the threshold.
// The pattern carries the target runes around position for display.
func DetectHesitation(target []rune, position int, key rune, latency time.Duration) (model.HesitationPattern, bool) {
	ms := latency.Milliseconds()
	if ms <= HesitationThresholdMs {
		return model.HesitationPattern{}, false
	}
	preceding := window(target, position-contextWindow, position)
	following := window(target, position+1, position+1+contextWindow)
	return model.HesitationPattern{
		Position:  position,
		Duration:  latency,
		Preceding: string(preceding),
		Following: string(following),
		Type:      classifyHesitation(key, ms, preceding),
	}, true
}

func classifyHesitation(key rune, latencyMs int64, preceding []rune) model.HesitationType {
	if latencyMs > longPauseThresholdMs {
		return model.HesitationLongPause
	}
	if isASCIIPunct(key) {
		return model.HesitationPunctuation
	}
	if (key >= '0' && key <= '9') || strings.ContainsRune(numberSymbols, key) {
		return model.HesitationNumberSymbol
	}
	prevUpper := false
	var prev rune
	if len(preceding) > 0 {
		prev = preceding[len(preceding)-1]
		prevUpper = unicode.IsUpper(prev)
	}
	if unicode.IsUpper(key) != prevUpper {
		return model.HesitationCaseChange
	}
	if len(preceding) > 0 {
		if _, ok := commonDigraphs[string([]rune{prev, key})]; ok {
			return model.HesitationDoubleDigraph
		}
	}
	return model.HesitationTransition
}

func isASCIIPunct(r rune) bool {
	switch {
	case r >= '!' && r <= '/':
		return true
	case r >= ':' && r <= '@':
		return true
	case r >= '[' && r <= '`':
		return true
	case r >= '{' && r <= '~':
		return true
	default:
		return false
	}
}

// window returns target[from:to] clipped to the text bounds.
func window(target []rune, from, to int) []rune {
	if from < 0 {
		from = 0
	}
	if to > len(target) {
		to = len(target)
	}
	if from >= to {
		return nil
	}
	return target[from:to]
}
