// Package stats renders finished session reports as text.
package stats

import (
	"math"
	"strings"

	"github.com/NishantJoshi00/typetester/internal/model"
)

const sparkChars = " .:-=+*#%@"

// ErrorRate returns recorded errors per typed character as a percentage.
func ErrorRate(report model.SessionReport) float64 {
	if report.TotalCharacters == 0 {
		return 0
	}
	return float64(len(report.Errors)) / float64(report.TotalCharacters) * 100
}

// LatencySeries returns per-keystroke latencies in milliseconds, skipping
// the first keystroke, which has no predecessor.
func LatencySeries(report model.SessionReport) []float64 {
	if len(report.TypingRhythm) < 2 {
		return nil
	}
	out := make([]float64, 0, len(report.TypingRhythm)-1)
	for _, entry := range report.TypingRhythm[1:] {
		out = append(out, float64(entry.Latency.Milliseconds()))
	}
	return out
}

// WPMSeries returns the sampled WPM values in order.
func WPMSeries(report model.SessionReport) []float64 {
	out := make([]float64, len(report.WPMOverTime))
	for i, sample := range report.WPMOverTime {
		out[i] = sample.WPM
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
