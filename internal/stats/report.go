package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/NishantJoshi00/typetester/internal/model"
	"github.com/NishantJoshi00/typetester/internal/typing"
)

const (
	topKeyCount       = 8
	timelineLimit     = 10
	hesitationLimit   = 8
	digraphLimit      = 6
	fingerLimit       = 5
	rhythmListLimit   = 8
	latencySmoothing  = 5
	latencyPlotHeight = 8
)

// RenderReport writes the full text report: charts followed by analysis.
func RenderReport(w io.Writer, report model.SessionReport, width int, useColor bool) error {
	if err := RenderCharts(w, report, width, useColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderAnalysis(w, report)
}

// Summary returns the one-line session summary.
func Summary(report model.SessionReport) string {
	return fmt.Sprintf("WPM: %.1f | Accuracy: %.1f%% | Errors: %d | Duration: %.1fs | Avg Latency: %dms",
		report.WPM,
		report.Accuracy,
		len(report.Errors),
		report.SessionDuration.Seconds(),
		report.AverageLatency.Milliseconds(),
	)
}

// RenderCharts writes the visual part of the report: key usage, error
// timeline, hesitations and the speed and latency plots.
func RenderCharts(w io.Writer, report model.SessionReport, width int, useColor bool) error {
	lines := []string{"Session Summary", Summary(report), ""}

	lines = append(lines, "Most Used Keys")
	lines = append(lines, keyCountTable(TopKeys(report.KeyStats, topKeyCount), "Count")...)
	lines = append(lines, "")

	lines = append(lines, "Error-Prone Keys")
	if prone := ErrorProneKeys(report.KeyStats, topKeyCount); len(prone) > 0 {
		lines = append(lines, keyCountTable(prone, "Errors")...)
	} else {
		lines = append(lines, "No errors! Perfect typing!")
	}
	lines = append(lines, "")

	lines = append(lines, "Error Timeline")
	lines = append(lines, ErrorTimeline(report.Errors, timelineLimit)...)
	lines = append(lines, "")

	lines = append(lines, "Hesitation Patterns")
	lines = append(lines, HesitationList(report.HesitationPatterns, hesitationLimit)...)
	lines = append(lines, "")

	if samples := WPMSeries(report); len(samples) > 0 {
		lines = append(lines, "WPM Over Time", Sparkline(samples), "")
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}

	latencies := LatencySeries(report)
	if len(latencies) == 0 {
		return nil
	}
	plotWidth := 0
	if width > 0 {
		plotWidth = PlotWidthFor(width)
	}
	chart := Chart{
		Title: "Keystroke Latency (ms)",
		Series: []Series{
			{Name: "Latency", Values: latencies},
			{Name: fmt.Sprintf("Avg of %d", latencySmoothing), Values: MovingAverage(latencies, latencySmoothing)},
		},
		Markers: []Marker{{Name: "Hesitation", Value: typing.HesitationThresholdMs}},
		Width:   plotWidth,
		Height:  latencyPlotHeight,
		Color:   useColor,
	}
	return chart.Render(w)
}

// RenderAnalysis writes the weakness breakdown and the improvement plan.
func RenderAnalysis(w io.Writer, report model.SessionReport) error {
	weak := report.WeaknessAnalysis
	lines := []string{
		"Performance Overview",
		fmt.Sprintf("Speed: %.1f WPM (Target: 40+ WPM)", report.WPM),
		fmt.Sprintf("Accuracy: %.1f%% (Target: 95%%+)", report.Accuracy),
		fmt.Sprintf("Consistency: %dms avg latency", report.AverageLatency.Milliseconds()),
		fmt.Sprintf("Error Rate: %.2f%% (Target: <2%%)", ErrorRate(report)),
		fmt.Sprintf("Corrections: %d", report.TotalCorrections),
		fmt.Sprintf("Rhythm Stability: %d breaks detected", len(weak.RhythmBreaks)),
		"",
		"Letter Combinations",
	}

	if len(weak.SlowestDigraphs) == 0 {
		lines = append(lines, "No problematic letter combinations found.")
	} else {
		rows := make([][]string, 0, digraphLimit)
		for _, d := range weak.SlowestDigraphs[:min(digraphLimit, len(weak.SlowestDigraphs))] {
			rows = append(rows, []string{strconv.Quote(d.Digraph), fmt.Sprintf("%.0fms", d.AvgLatencyMs)})
		}
		lines = append(lines, formatTable([]string{"Pair", "Avg"}, rows, map[int]bool{1: true})...)
	}
	lines = append(lines, "", "Finger Analysis")
	lines = append(lines, FingerErrorLines(weak.FingerErrors, fingerLimit)...)

	lines = append(lines, "", "Error Hotspots")
	if len(weak.ErrorClusters) == 0 {
		lines = append(lines, "No error clustering detected.")
	}
	for _, c := range weak.ErrorClusters {
		lines = append(lines, fmt.Sprintf("Positions %d-%d (%d chars)", c.Start, c.End, c.End-c.Start+1))
	}

	lines = append(lines, "", "Rhythm Analysis", RhythmSummary(weak.RhythmBreaks))

	lines = append(lines, "", "Slow Transitions")
	if len(weak.ProblematicTransitions) == 0 {
		lines = append(lines, "No slow transitions.")
	}
	for _, tr := range weak.ProblematicTransitions {
		lines = append(lines, fmt.Sprintf("%s -> %s: %.0fms", strconv.Quote(tr.From), strconv.Quote(tr.To), tr.AvgLatencyMs))
	}

	lines = append(lines, "", "Action Plan")
	lines = append(lines, Recommendations(report)...)
	return writeLines(w, lines)
}

// ErrorTimeline lists the first limit errors with their time offset.
func ErrorTimeline(errors []model.ErrorEvent, limit int) []string {
	if len(errors) == 0 {
		return []string{"No errors recorded!"}
	}
	out := make([]string, 0, min(limit, len(errors)))
	for i, e := range errors[:min(limit, len(errors))] {
		out = append(out, fmt.Sprintf("%d. %.1fs: %s %s -> %s",
			i+1, e.Timestamp.Seconds(), errorKindShort(e.Kind), charOrUnknown(e.Expected), charOrUnknown(e.Actual)))
	}
	return out
}

// HesitationList describes the first limit hesitations.
func HesitationList(patterns []model.HesitationPattern, limit int) []string {
	if len(patterns) == 0 {
		return []string{"No significant hesitations. Good rhythm maintained."}
	}
	out := make([]string, 0, min(limit, len(patterns)))
	for _, h := range patterns[:min(limit, len(patterns))] {
		out = append(out, fmt.Sprintf("%dms at pos %d (%s) %q|%q",
			h.Duration.Milliseconds(), h.Position, h.Type.Label(), h.Preceding, h.Following))
	}
	return out
}

// FingerErrorLines lists finger confusions, most frequent first.
func FingerErrorLines(fingerErrors map[string]int, limit int) []string {
	if len(fingerErrors) == 0 {
		return []string{"No cross-finger errors detected."}
	}
	patterns := make([]string, 0, len(fingerErrors))
	for p := range fingerErrors {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		ci, cj := fingerErrors[patterns[i]], fingerErrors[patterns[j]]
		if ci == cj {
			return patterns[i] < patterns[j]
		}
		return ci > cj
	})
	out := make([]string, 0, min(limit, len(patterns)))
	for _, p := range patterns[:min(limit, len(patterns))] {
		out = append(out, fmt.Sprintf("%s: %d times", p, fingerErrors[p]))
	}
	return out
}

// RhythmSummary describes rhythm break positions in one line.
func RhythmSummary(breaks []int) string {
	if len(breaks) == 0 {
		return "Steady typing pace maintained."
	}
	shown := breaks
	if len(breaks) > rhythmListLimit {
		shown = breaks[:rhythmListLimit-2]
	}
	parts := make([]string, len(shown))
	for i, pos := range shown {
		parts[i] = strconv.Itoa(pos)
	}
	positions := strings.Join(parts, ", ")
	if len(shown) < len(breaks) {
		positions += fmt.Sprintf(" (and %d more)", len(breaks)-len(shown))
	}
	return fmt.Sprintf("%d sudden slowdowns at positions %s", len(breaks), positions)
}

// Recommendations returns the improvement plan for a report.
func Recommendations(report model.SessionReport) []string {
	var out []string
	switch {
	case report.WPM < 30:
		out = append(out, "SPEED: Focus on accuracy first, then gradually increase pace")
	case report.WPM < 50:
		out = append(out, "SPEED: Good foundation! Work on consistent 40+ WPM")
	default:
		out = append(out, "SPEED: Excellent! Maintain this pace while improving accuracy")
	}
	switch {
	case report.Accuracy < 90:
		out = append(out, "ACCURACY: Slow down and focus on correct keystrokes")
	case report.Accuracy < 97:
		out = append(out, "ACCURACY: Good! Aim for 97%+ accuracy")
	default:
		out = append(out, "ACCURACY: Excellent precision! Keep it up!")
	}
	weak := report.WeaknessAnalysis
	if len(weak.SlowestDigraphs) > 0 {
		out = append(out, "PRACTICE: Drill slow letter combinations separately")
	}
	if len(weak.FingerErrors) > 0 {
		out = append(out, "FINGERS: Review proper finger positioning")
	}
	if len(weak.RhythmBreaks) > 3 {
		out = append(out, "RHYTHM: Practice with a metronome for consistency")
	}
	return out
}

func keyCountTable(items []KeyCount, countHeader string) []string {
	if len(items) == 0 {
		return []string{"No keys typed."}
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{KeyLabel(item.Key), strconv.Itoa(item.Count)})
	}
	return formatTable([]string{"Key", countHeader}, rows, map[int]bool{1: true})
}

func errorKindShort(kind model.ErrorKind) string {
	switch kind {
	case model.ErrorSubstitution:
		return "Sub"
	case model.ErrorRepeat:
		return "Rep"
	default:
		return string(kind)
	}
}

func charOrUnknown(s string) string {
	if s == "" {
		return "'?'"
	}
	return strconv.QuoteRune([]rune(s)[0])
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
