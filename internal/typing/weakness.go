package typing

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/NishantJoshi00/typetester/internal/model"
)

const (
	minPairSamples      = 2
	maxPairs            = 10
	clusterGap          = 10
	rhythmWindow        = 5
	rhythmBreakFactor   = 2.0
	rhythmBreakFloorMs  = 400
	slowTransitionFloor = 300.0
)

// AnalyzeWeaknesses derives slow pairs, error hotspots, finger confusions
// and rhythm breaks from a finished session's logs.
func AnalyzeWeaknesses(target []rune, rhythm []model.TypingRhythm, errors []model.ErrorEvent) model.WeaknessAnalysis {
	return model.WeaknessAnalysis{
		SlowestDigraphs:        slowestDigraphs(target, rhythm),
		ErrorClusters:          errorClusters(errors),
		FingerErrors:           fingerErrors(errors),
		RhythmBreaks:           rhythmBreaks(rhythm),
		ProblematicTransitions: problematicTransitions(rhythm),
	}
}

type pairLatency struct {
	key   string
	sumMs int64
	count int
}

func (p pairLatency) avg() float64 {
	return float64(p.sumMs) / float64(p.count)
}

// pairGroups accumulates latencies per key while remembering first-seen order.
type pairGroups struct {
	index map[string]int
	items []pairLatency
}

func (g *pairGroups) add(key string, ms int64) {
	if g.index == nil {
		g.index = map[string]int{}
	}
	i, ok := g.index[key]
	if !ok {
		i = len(g.items)
		g.index[key] = i
		g.items = append(g.items, pairLatency{key: key})
	}
	g.items[i].sumMs += ms
	g.items[i].count++
}

// slowest keeps pairs seen at least twice with a mean above floor, sorted
// by mean latency descending and truncated.
func (g *pairGroups) slowest(floor float64) []pairLatency {
	out := make([]pairLatency, 0, len(g.items))
	for _, item := range g.items {
		if item.count < minPairSamples || item.avg() <= floor {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].avg(), out[j].avg()
		if ai == aj {
			return out[i].key < out[j].key
		}
		return ai > aj
	})
	if len(out) > maxPairs {
		out = out[:maxPairs]
	}
	return out
}

func slowestDigraphs(target []rune, rhythm []model.TypingRhythm) []model.DigraphLatency {
	var groups pairGroups
	for _, entry := range rhythm {
		if entry.Position <= 0 || entry.Position > len(target) {
			continue
		}
		digraph := string(target[entry.Position-1]) + entry.Char
		groups.add(digraph, entry.Latency.Milliseconds())
	}
	pairs := groups.slowest(-1)
	out := make([]model.DigraphLatency, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, model.DigraphLatency{Digraph: p.key, AvgLatencyMs: p.avg()})
	}
	return out
}

func errorClusters(errors []model.ErrorEvent) []model.ErrorCluster {
	clusters := make([]model.ErrorCluster, 0)
	if len(errors) == 0 {
		return clusters
	}
	positions := make([]int, len(errors))
	for i, e := range errors {
		positions[i] = e.Position
	}
	sort.Ints(positions)

	current := model.ErrorCluster{Start: positions[0], End: positions[0]}
	for _, pos := range positions[1:] {
		if pos > current.End+clusterGap {
			clusters = append(clusters, current)
			current = model.ErrorCluster{Start: pos, End: pos}
			continue
		}
		current.End = pos
	}
	return append(clusters, current)
}

func fingerErrors(errors []model.ErrorEvent) map[string]int {
	out := map[string]int{}
	for _, e := range errors {
		expected, ok := firstRune(e.Expected)
		if !ok {
			continue
		}
		actual, ok := firstRune(e.Actual)
		if !ok {
			continue
		}
		from, to := FingerFor(expected), FingerFor(actual)
		if from == to {
			continue
		}
		out[fmt.Sprintf("%s -> %s", from, to)]++
	}
	return out
}

func rhythmBreaks(rhythm []model.TypingRhythm) []int {
	breaks := make([]int, 0)
	if len(rhythm) <= rhythmWindow {
		return breaks
	}
	latencies := make([]int64, len(rhythm))
	for i, entry := range rhythm {
		latencies[i] = entry.Latency.Milliseconds()
	}
	for i := rhythmWindow; i < len(latencies); i++ {
		var sum int64
		for _, ms := range latencies[i-rhythmWindow : i] {
			sum += ms
		}
		mean := float64(sum) / rhythmWindow
		cur := latencies[i]
		if float64(cur) > rhythmBreakFactor*mean && cur > rhythmBreakFloorMs {
			breaks = append(breaks, rhythm[i].Position)
		}
	}
	return breaks
}

func problematicTransitions(rhythm []model.TypingRhythm) []model.Transition {
	var groups pairGroups
	pairs := map[string][2]string{}
	for i := 1; i < len(rhythm); i++ {
		from, to := rhythm[i-1].Char, rhythm[i].Char
		key := from + "\x00" + to
		pairs[key] = [2]string{from, to}
		groups.add(key, rhythm[i].Latency.Milliseconds())
	}
	slow := groups.slowest(slowTransitionFloor)
	out := make([]model.Transition, 0, len(slow))
	for _, p := range slow {
		pair := pairs[p.key]
		out = append(out, model.Transition{From: pair[0], To: pair[1], AvgLatencyMs: p.avg()})
	}
	return out
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}
