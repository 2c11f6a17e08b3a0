// Package typing implements the keystroke state machine and its session analytics.
package typing

import (
	"fmt"
	"time"

	"github.com/NishantJoshi00/typetester/internal/model"
)

// Backspace is the sentinel rune HandleKey treats as a backspace.
const Backspace rune = '\b'

// FreezeThreshold is the number of consecutive uncorrected errors that freezes input.
const FreezeThreshold = 10

// wordLength is the conventional average word length used for WPM.
const wordLength = 5.0

// State is the error-handling state of a session.
type State int

// Session states.
const (
	StateReady State = iota
	StateErrorBuffering
	StateFrozen
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateErrorBuffering:
		return "ErrorBuffering"
	case StateFrozen:
		return "Frozen"
	default:
		return "Unknown"
	}
}

// Clock returns the current monotonic time.
type Clock func() time.Time

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now as the session's time source.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Session is the input state machine for one typist typing one target text.
// It is not safe for concurrent use.
type Session struct {
	target []rune
	input  []rune

	position          int
	hasError          bool
	consecutiveErrors int
	frozen            bool
	totalCorrections  int

	now        Clock
	startedAt  time.Time
	endedAt    time.Time
	ended      bool
	lastKeyAt  time.Time
	hasLastKey bool

	errors      []model.ErrorEvent
	stats       *keyStats
	rhythm      []model.TypingRhythm
	hesitations []model.HesitationPattern
	wpmSamples  []wpmSample
}

type wpmSample struct {
	at  time.Time
	wpm float64
}

// NewSession starts a session over target. The session clock starts immediately.
func NewSession(target string, opts ...Option) *Session {
	s := &Session{
		target: []rune(target),
		now:    time.Now,
		stats:  newKeyStats(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// HandleKey processes one physical keystroke. Backspace is passed as the
// Backspace sentinel; every other rune is treated as a typed character.
func (s *Session) HandleKey(key rune) {
	now := s.now()
	latency := time.Duration(0)
	if s.hasLastKey {
		latency = now.Sub(s.lastKeyAt)
		if latency < 0 {
			latency = 0
		}
	}
	// The latency clock advances on every call, frozen or not.
	s.lastKeyAt = now
	s.hasLastKey = true

	if key == Backspace {
		s.handleBackspace()
		return
	}
	if s.frozen {
		return
	}

	s.input = append(s.input, key)
	s.recordKeystroke(key, latency, now)

	expected, ok := s.expectedAt(s.position)
	if !ok || key != expected {
		s.recordError(key, expected, ok, now)
		return
	}
	if s.hasError {
		// Overtype correction: drop the stale error tail.
		s.hasError = false
		s.consecutiveErrors = 0
		s.position++
		s.input = s.committedPrefix()
	} else {
		s.position++
	}
	if s.position == len(s.target) {
		s.endedAt = now
		s.ended = true
	}
}

func (s *Session) handleBackspace() {
	if len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
	if s.hasError {
		if s.consecutiveErrors > 0 {
			s.consecutiveErrors--
		}
		if s.consecutiveErrors == 0 {
			s.hasError = false
		}
		s.frozen = false
		s.totalCorrections++
		return
	}
	if s.position > 0 {
		s.position--
	}
}

func (s *Session) recordError(actual, expected rune, hasExpected bool, now time.Time) {
	kind := model.ErrorSubstitution
	if hasExpected && actual == expected {
		kind = model.ErrorRepeat
	}
	event := model.ErrorEvent{
		Kind:      kind,
		Position:  s.position,
		Actual:    string(actual),
		Timestamp: now.Sub(s.startedAt),
	}
	if hasExpected {
		event.Expected = string(expected)
	}
	s.errors = append(s.errors, event)
	s.hasError = true
	s.consecutiveErrors++
	if s.consecutiveErrors >= FreezeThreshold {
		s.frozen = true
	}
}

func (s *Session) expectedAt(pos int) (rune, bool) {
	if pos < 0 || pos >= len(s.target) {
		return 0, false
	}
	return s.target[pos], true
}

// committedPrefix returns a fresh copy of the target runes typed so far.
func (s *Session) committedPrefix() []rune {
	out := make([]rune, s.position)
	copy(out, s.target[:s.position])
	return out
}

// IsComplete reports whether the whole target has been typed with no error pending.
func (s *Session) IsComplete() bool {
	return s.position >= len(s.target) && !s.hasError
}

// CalculateWPM returns words per minute of retained progress so far.
func (s *Session) CalculateWPM() float64 {
	return s.CalculateWPMWithDuration(s.now().Sub(s.startedAt))
}

// CalculateWPMWithDuration returns words per minute of retained progress over d.
func (s *Session) CalculateWPMWithDuration(d time.Duration) float64 {
	minutes := d.Minutes()
	if minutes <= 0 {
		return 0
	}
	return (float64(s.position) / wordLength) / minutes
}

// CalculateAccuracy returns retained correct progress relative to every
// keystroke issued, as a percentage. It is 100 before any input.
func (s *Session) CalculateAccuracy() float64 {
	if len(s.input) == 0 {
		return 100
	}
	return float64(s.position) / float64(len(s.input)) * 100
}

// Status returns the current state and the number of buffered errors.
func (s *Session) Status() (State, int) {
	switch {
	case s.frozen:
		return StateFrozen, s.consecutiveErrors
	case s.hasError:
		return StateErrorBuffering, s.consecutiveErrors
	default:
		return StateReady, 0
	}
}

// StatusText returns the status line shown under the typing area.
func (s *Session) StatusText() string {
	state, n := s.Status()
	switch state {
	case StateFrozen:
		return fmt.Sprintf("FROZEN: %d consecutive errors! Use backspace to correct.", FreezeThreshold)
	case StateErrorBuffering:
		return fmt.Sprintf("ERROR BUFFER: %d of %d errors - use backspace to correct", n, FreezeThreshold)
	default:
		return "Ready"
	}
}

// Target returns the target text.
func (s *Session) Target() string { return string(s.target) }

// Input returns everything currently held in the input buffer.
func (s *Session) Input() string { return string(s.input) }

// Position returns the index of the next target rune to type.
func (s *Session) Position() int { return s.position }

// HasError reports whether uncorrected errors are buffered.
func (s *Session) HasError() bool { return s.hasError }

// ConsecutiveErrors returns the number of errors since the last full correction.
func (s *Session) ConsecutiveErrors() int { return s.consecutiveErrors }

// IsFrozen reports whether input is locked until a backspace.
func (s *Session) IsFrozen() bool { return s.frozen }

// TotalCorrections returns the number of backspaces used while in error.
func (s *Session) TotalCorrections() int { return s.totalCorrections }

// Errors returns a copy of the error log.
func (s *Session) Errors() []model.ErrorEvent {
	return append([]model.ErrorEvent(nil), s.errors...)
}

// Progress returns the fraction of the target typed correctly, in [0, 1].
func (s *Session) Progress() float64 {
	if len(s.target) == 0 {
		return 1
	}
	return float64(s.position) / float64(len(s.target))
}

// Elapsed returns the time since the session started, or the session
// length once the end of the text has been reached.
func (s *Session) Elapsed() time.Duration {
	if s.ended {
		return s.endedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}
