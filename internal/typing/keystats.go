package typing

import (
	"time"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// wpmSampleEvery is the position interval between WPM samples.
const wpmSampleEvery = 10

type keyStat struct {
	count        int
	totalLatency time.Duration
	errorCount   int
	latenciesMs  []int64
	positions    []int
}

type keyStats struct {
	byKey map[rune]*keyStat
}

func newKeyStats() *keyStats {
	return &keyStats{byKey: map[rune]*keyStat{}}
}

func (k *keyStats) entry(key rune) *keyStat {
	stat, ok := k.byKey[key]
	if !ok {
		stat = &keyStat{}
		k.byKey[key] = stat
	}
	return stat
}

func (k *keyStats) record(key rune, latency time.Duration, position int, inError bool) {
	stat := k.entry(key)
	stat.count++
	stat.totalLatency += latency
	stat.latenciesMs = append(stat.latenciesMs, latency.Milliseconds())
	stat.positions = append(stat.positions, position)
	if inError {
		stat.errorCount++
	}
}

// averageLatency is summed latency over summed key count, zero without keys.
func (k *keyStats) averageLatency() time.Duration {
	var total time.Duration
	count := 0
	for _, stat := range k.byKey {
		total += stat.totalLatency
		count += stat.count
	}
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

func (k *keyStats) snapshot() map[string]model.KeyStat {
	out := make(map[string]model.KeyStat, len(k.byKey))
	for key, stat := range k.byKey {
		out[string(key)] = model.KeyStat{
			Key:          string(key),
			Count:        stat.count,
			TotalLatency: stat.totalLatency,
			ErrorCount:   stat.errorCount,
			LatenciesMs:  append([]int64(nil), stat.latenciesMs...),
			Positions:    append([]int(nil), stat.positions...),
		}
	}
	return out
}

// recordKeystroke runs the per-keystroke collectors. It sees the position and
// error flag as they were before the keystroke is judged.
func (s *Session) recordKeystroke(key rune, latency time.Duration, now time.Time) {
	s.stats.record(key, latency, s.position, s.hasError)
	s.rhythm = append(s.rhythm, model.TypingRhythm{
		Timestamp: now.Sub(s.startedAt),
		Latency:   latency,
		Position:  s.position,
		Char:      string(key),
	})
	if pattern, ok := DetectHesitation(s.target, s.position, key, latency); ok {
		s.hesitations = append(s.hesitations, pattern)
	}
	if s.position > 0 && s.position%wpmSampleEvery == 0 {
		s.wpmSamples = append(s.wpmSamples, wpmSample{
			at:  now,
			wpm: s.CalculateWPMWithDuration(now.Sub(s.startedAt)),
		})
	}
}
