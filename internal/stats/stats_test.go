package stats

import (
	"testing"
	"time"

	"github.com/NishantJoshi00/typetester/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 2}, 1)
	if same[0] != 1 || same[1] != 2 {
		t.Fatalf("expected window 1 to copy input, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestLatencySeriesSkipsFirstKeystroke(t *testing.T) {
	report := model.SessionReport{TypingRhythm: []model.TypingRhythm{
		{Latency: 0},
		{Latency: 120 * time.Millisecond},
		{Latency: 80 * time.Millisecond},
	}}
	got := LatencySeries(report)
	if len(got) != 2 || got[0] != 120 || got[1] != 80 {
		t.Fatalf("unexpected latency series %v", got)
	}
}

func TestErrorRate(t *testing.T) {
	report := model.SessionReport{TotalCharacters: 50, Errors: make([]model.ErrorEvent, 2)}
	if got := ErrorRate(report); got != 4 {
		t.Fatalf("expected 4%%, got %v", got)
	}
	if got := ErrorRate(model.SessionReport{}); got != 0 {
		t.Fatalf("expected 0 for empty report, got %v", got)
	}
}
