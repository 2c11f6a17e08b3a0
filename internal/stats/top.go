package stats

import (
	"sort"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// KeyCount pairs a key with a count used for ranking.
type KeyCount struct {
	Key   string
	Count int
}

// TopKeys returns the n most typed keys.
func TopKeys(keyStats map[string]model.KeyStat, n int) []KeyCount {
	return rankKeys(keyStats, n, func(s model.KeyStat) int { return s.Count })
}

// ErrorProneKeys returns up to n keys typed while in error, most first.
func ErrorProneKeys(keyStats map[string]model.KeyStat, n int) []KeyCount {
	return rankKeys(keyStats, n, func(s model.KeyStat) int { return s.ErrorCount })
}

func rankKeys(keyStats map[string]model.KeyStat, n int, count func(model.KeyStat) int) []KeyCount {
	if n <= 0 || len(keyStats) == 0 {
		return nil
	}
	items := make([]KeyCount, 0, len(keyStats))
	for key, stat := range keyStats {
		c := count(stat)
		if c == 0 {
			continue
		}
		items = append(items, KeyCount{Key: key, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})
	if n < len(items) {
		items = items[:n]
	}
	return items
}

// KeyLabel returns a printable label for a key.
func KeyLabel(key string) string {
	switch key {
	case " ":
		return "Space"
	case "\t":
		return "Tab"
	case "\n":
		return "Enter"
	default:
		return key
	}
}
