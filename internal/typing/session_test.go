package typing

import (
	"testing"
	"time"

	"github.com/NishantJoshi00/typetester/internal/model"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(target string) (*Session, *fakeClock) {
	clock := newFakeClock()
	return NewSession(target, WithClock(clock.Now)), clock
}

// typeAll sends each rune after advancing the clock by step.
func typeAll(s *Session, clock *fakeClock, text string, step time.Duration) {
	for _, r := range text {
		clock.Advance(step)
		s.HandleKey(r)
	}
}

func TestCorrectTypingCompletes(t *testing.T) {
	s, clock := newTestSession("hi")
	typeAll(s, clock, "hi", 100*time.Millisecond)

	if s.Position() != 2 {
		t.Fatalf("expected position 2, got %d", s.Position())
	}
	if !s.IsComplete() {
		t.Fatalf("expected session complete")
	}
	if got := s.CalculateAccuracy(); got != 100 {
		t.Fatalf("expected accuracy 100, got %v", got)
	}
	if s.HasError() {
		t.Fatalf("expected no error")
	}
}

func TestPositionAdvancesOncePerCorrectKey(t *testing.T) {
	target := "the quick brown fox"
	s, clock := newTestSession(target)
	for i, r := range []rune(target) {
		if s.IsComplete() {
			t.Fatalf("complete before the end at %d", i)
		}
		clock.Advance(50 * time.Millisecond)
		s.HandleKey(r)
		if s.Position() != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, s.Position())
		}
		if s.HasError() {
			t.Fatalf("unexpected error at %d", i)
		}
	}
	if !s.IsComplete() {
		t.Fatalf("expected complete")
	}
}

func TestWrongKeyThenOvertype(t *testing.T) {
	s, clock := newTestSession("hi")
	clock.Advance(100 * time.Millisecond)
	s.HandleKey('x')

	errs := s.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	want := model.ErrorEvent{Kind: model.ErrorSubstitution, Position: 0, Expected: "h", Actual: "x", Timestamp: 100 * time.Millisecond}
	if errs[0] != want {
		t.Fatalf("unexpected error event: %+v", errs[0])
	}
	if !s.HasError() || s.ConsecutiveErrors() != 1 {
		t.Fatalf("expected error buffering with 1 error, got %v/%d", s.HasError(), s.ConsecutiveErrors())
	}

	clock.Advance(100 * time.Millisecond)
	s.HandleKey('h')
	if s.HasError() {
		t.Fatalf("expected overtype to clear the error")
	}
	if s.Position() != 1 {
		t.Fatalf("expected position 1, got %d", s.Position())
	}
	if s.Input() != "h" {
		t.Fatalf("expected input %q, got %q", "h", s.Input())
	}
	if s.ConsecutiveErrors() != 0 {
		t.Fatalf("expected consecutive errors reset")
	}
}

func TestOvertypeTruncatesLongErrorTail(t *testing.T) {
	s, clock := newTestSession("abcdef")
	typeAll(s, clock, "abxyz", 10*time.Millisecond)
	if s.ConsecutiveErrors() != 3 {
		t.Fatalf("expected 3 errors, got %d", s.ConsecutiveErrors())
	}
	clock.Advance(10 * time.Millisecond)
	s.HandleKey('c')
	if s.Input() != "abc" {
		t.Fatalf("expected input rebuilt to %q, got %q", "abc", s.Input())
	}
	if s.Position() != 3 || s.HasError() {
		t.Fatalf("unexpected state: pos=%d err=%v", s.Position(), s.HasError())
	}
}

func TestFreezeAfterTenErrors(t *testing.T) {
	s, clock := newTestSession("ab")
	for i := 1; i <= FreezeThreshold; i++ {
		clock.Advance(10 * time.Millisecond)
		s.HandleKey('z')
		if i < FreezeThreshold && s.IsFrozen() {
			t.Fatalf("frozen early after %d errors", i)
		}
	}
	if !s.IsFrozen() {
		t.Fatalf("expected frozen after %d errors", FreezeThreshold)
	}
	if n := len(s.Errors()); n != FreezeThreshold {
		t.Fatalf("expected %d errors, got %d", FreezeThreshold, n)
	}
	state, n := s.Status()
	if state != StateFrozen || n != FreezeThreshold {
		t.Fatalf("expected frozen status, got %v/%d", state, n)
	}

	input := s.Input()
	for i := 0; i < 3; i++ {
		clock.Advance(10 * time.Millisecond)
		s.HandleKey('a')
	}
	if s.Input() != input || len(s.Errors()) != FreezeThreshold || s.Position() != 0 {
		t.Fatalf("expected keys ignored while frozen")
	}

	clock.Advance(10 * time.Millisecond)
	s.HandleKey(Backspace)
	state, n = s.Status()
	if state != StateErrorBuffering || n != FreezeThreshold-1 {
		t.Fatalf("expected error buffering(9), got %v/%d", state, n)
	}
	if s.IsFrozen() {
		t.Fatalf("expected unfrozen")
	}
}

func TestBackspaceClearsErrorBuffer(t *testing.T) {
	s, clock := newTestSession("abc")
	typeAll(s, clock, "axy", 10*time.Millisecond)
	s.HandleKey(Backspace)
	if !s.HasError() || s.ConsecutiveErrors() != 1 {
		t.Fatalf("expected one error left")
	}
	s.HandleKey(Backspace)
	if s.HasError() {
		t.Fatalf("expected ready after clearing errors")
	}
	if s.TotalCorrections() != 2 {
		t.Fatalf("expected 2 corrections, got %d", s.TotalCorrections())
	}
	if s.Input() != "a" || s.Position() != 1 {
		t.Fatalf("unexpected state: input=%q pos=%d", s.Input(), s.Position())
	}

	s.HandleKey(Backspace)
	if s.Position() != 0 || s.Input() != "" {
		t.Fatalf("expected backspace over correct text to move back")
	}
	if s.TotalCorrections() != 2 {
		t.Fatalf("corrections counted outside error state")
	}
	s.HandleKey(Backspace)
	if s.Position() != 0 {
		t.Fatalf("backspace at start must be a no-op")
	}
}

func TestTypingPastEndRecordsError(t *testing.T) {
	s, clock := newTestSession("a")
	typeAll(s, clock, "ab", 10*time.Millisecond)
	errs := s.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Expected != "" || errs[0].Actual != "b" || errs[0].Position != 1 {
		t.Fatalf("unexpected past-end error: %+v", errs[0])
	}
	if s.IsComplete() {
		t.Fatalf("pending error must block completion")
	}
	s.HandleKey(Backspace)
	if !s.IsComplete() {
		t.Fatalf("expected complete after correction")
	}
}

func TestAccuracyCountsExtraKeystrokes(t *testing.T) {
	s, clock := newTestSession("ab")
	if s.CalculateAccuracy() != 100 {
		t.Fatalf("expected 100 before input")
	}
	typeAll(s, clock, "a", 10*time.Millisecond)
	full := s.CalculateAccuracy()
	typeAll(s, clock, "x", 10*time.Millisecond)
	if got := s.CalculateAccuracy(); got >= full {
		t.Fatalf("expected accuracy to drop, got %v >= %v", got, full)
	}
	if got := s.CalculateAccuracy(); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestRunesNotBytes(t *testing.T) {
	s, clock := newTestSession("héllo")
	typeAll(s, clock, "héllo", 10*time.Millisecond)
	if !s.IsComplete() || s.Position() != 5 {
		t.Fatalf("expected 5 runes typed, got %d", s.Position())
	}
}

func TestWPMWithDuration(t *testing.T) {
	s, clock := newTestSession("aaaaaaaaaa")
	typeAll(s, clock, "aaaaaaaaaa", 6*time.Second)
	if got := s.CalculateWPMWithDuration(time.Minute); got != 2 {
		t.Fatalf("expected 2 wpm, got %v", got)
	}
	if got := s.CalculateWPMWithDuration(0); got != 0 {
		t.Fatalf("expected 0 wpm for zero duration, got %v", got)
	}
}

func TestStatusText(t *testing.T) {
	s, clock := newTestSession("abc")
	if s.StatusText() != "Ready" {
		t.Fatalf("unexpected status %q", s.StatusText())
	}
	typeAll(s, clock, "xx", 10*time.Millisecond)
	if got := s.StatusText(); got != "ERROR BUFFER: 2 of 10 errors - use backspace to correct" {
		t.Fatalf("unexpected status %q", got)
	}
	typeAll(s, clock, "xxxxxxxx", 10*time.Millisecond)
	if got := s.StatusText(); got != "FROZEN: 10 consecutive errors! Use backspace to correct." {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestFrozenKeyStillUpdatesLatencyClock(t *testing.T) {
	s, clock := newTestSession("ab")
	typeAll(s, clock, "zzzzzzzzzz", 10*time.Millisecond)
	clock.Advance(5 * time.Second)
	s.HandleKey('q')
	if !s.lastKeyAt.Equal(clock.Now()) {
		t.Fatalf("expected frozen keystroke to move the latency clock")
	}
	if len(s.GenerateReport().TypingRhythm) != FreezeThreshold {
		t.Fatalf("frozen keystroke must not be recorded")
	}
}
