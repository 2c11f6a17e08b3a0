// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	File         string
	Size         ChunkSize
	Inception    bool
	Lang         string
	Words        int
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
	WordListPath string
	FocusWeak    bool
	WeakTop      int
	WeakFactor   float64
	WeakFrom     string
	ExportDir    string
	ExportFormat string
}

// ChunkSize selects how much text a file-based session uses.
type ChunkSize string

// Supported chunk sizes.
const (
	ChunkSmall  ChunkSize = "small"
	ChunkMedium ChunkSize = "medium"
	ChunkLarge  ChunkSize = "large"
)

// ErrorKind classifies a mistyped keystroke.
type ErrorKind string

// Error kinds recorded by the engine.
const (
	ErrorSubstitution ErrorKind = "Substitution"
	ErrorRepeat       ErrorKind = "Repeat"
)

// ErrorEvent records one mistyped keystroke. Expected is empty when the
// keystroke landed past the end of the target text.
type ErrorEvent struct {
	Kind      ErrorKind     `json:"error_type" yaml:"error_type"`
	Position  int           `json:"position" yaml:"position"`
	Expected  string        `json:"expected_char" yaml:"expected_char"`
	Actual    string        `json:"actual_char" yaml:"actual_char"`
	Timestamp time.Duration `json:"timestamp" yaml:"timestamp"`
}

// KeyStat aggregates every keystroke of one character.
type KeyStat struct {
	Key          string        `json:"key" yaml:"key"`
	Count        int           `json:"count" yaml:"count"`
	TotalLatency time.Duration `json:"total_latency" yaml:"total_latency"`
	ErrorCount   int           `json:"error_count" yaml:"error_count"`
	LatenciesMs  []int64       `json:"latencies" yaml:"latencies"`
	Positions    []int         `json:"positions" yaml:"positions"`
}

// TypingRhythm is one entry of the per-keystroke rhythm log.
type TypingRhythm struct {
	Timestamp time.Duration `json:"timestamp" yaml:"timestamp"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
	Position  int           `json:"position" yaml:"position"`
	Char      string        `json:"char_typed" yaml:"char_typed"`
}

// HesitationType is the likely cause of a slow keystroke.
type HesitationType string

// Hesitation categories, in classification priority order.
const (
	HesitationLongPause     HesitationType = "LongPause"
	HesitationPunctuation   HesitationType = "Punctuation"
	HesitationNumberSymbol  HesitationType = "NumberSymbol"
	HesitationCaseChange    HesitationType = "CaseChange"
	HesitationDoubleDigraph HesitationType = "DoubleDigraph"
	HesitationTransition    HesitationType = "Transition"
)

// Label returns a short human-readable name.
func (h HesitationType) Label() string {
	switch h {
	case HesitationLongPause:
		return "Long Pause"
	case HesitationPunctuation:
		return "Punctuation"
	case HesitationNumberSymbol:
		return "Number/Symbol"
	case HesitationCaseChange:
		return "Case Change"
	case HesitationDoubleDigraph:
		return "Common Combo"
	case HesitationTransition:
		return "Hand Switch"
	default:
		return string(h)
	}
}

// HesitationPattern records a keystroke slower than the hesitation threshold.
type HesitationPattern struct {
	Position  int            `json:"position" yaml:"position"`
	Duration  time.Duration  `json:"duration" yaml:"duration"`
	Preceding string         `json:"preceding_chars" yaml:"preceding_chars"`
	Following string         `json:"following_chars" yaml:"following_chars"`
	Type      HesitationType `json:"pattern_type" yaml:"pattern_type"`
}

// DigraphLatency is the mean latency of a (target, typed) character pair.
type DigraphLatency struct {
	Digraph      string  `json:"digraph" yaml:"digraph"`
	AvgLatencyMs float64 `json:"avg_latency_ms" yaml:"avg_latency_ms"`
}

// ErrorCluster is an inclusive range of target positions dense with errors.
type ErrorCluster struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Transition is the mean latency between two consecutively typed characters.
type Transition struct {
	From         string  `json:"from" yaml:"from"`
	To           string  `json:"to" yaml:"to"`
	AvgLatencyMs float64 `json:"avg_latency_ms" yaml:"avg_latency_ms"`
}

// WeaknessAnalysis is derived post-session from the rhythm and error logs.
type WeaknessAnalysis struct {
	SlowestDigraphs        []DigraphLatency `json:"slowest_digraphs" yaml:"slowest_digraphs"`
	ErrorClusters          []ErrorCluster   `json:"error_clusters" yaml:"error_clusters"`
	FingerErrors           map[string]int   `json:"finger_errors" yaml:"finger_errors"`
	RhythmBreaks           []int            `json:"rhythm_breaks" yaml:"rhythm_breaks"`
	ProblematicTransitions []Transition     `json:"problematic_transitions" yaml:"problematic_transitions"`
}

// WPMSample is a WPM reading taken during the session.
type WPMSample struct {
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
	WPM     float64       `json:"wpm" yaml:"wpm"`
}

// SessionReport is the immutable snapshot produced when a session ends.
type SessionReport struct {
	SessionDuration    time.Duration       `json:"session_duration" yaml:"session_duration"`
	TotalCharacters    int                 `json:"total_characters" yaml:"total_characters"`
	CorrectCharacters  int                 `json:"correct_characters" yaml:"correct_characters"`
	WPM                float64             `json:"wpm" yaml:"wpm"`
	Accuracy           float64             `json:"accuracy" yaml:"accuracy"`
	AverageLatency     time.Duration       `json:"average_latency" yaml:"average_latency"`
	Errors             []ErrorEvent        `json:"errors" yaml:"errors"`
	KeyStats           map[string]KeyStat  `json:"key_stats" yaml:"key_stats"`
	TotalCorrections   int                 `json:"total_corrections" yaml:"total_corrections"`
	TypingRhythm       []TypingRhythm      `json:"typing_rhythm" yaml:"typing_rhythm"`
	HesitationPatterns []HesitationPattern `json:"hesitation_patterns" yaml:"hesitation_patterns"`
	WeaknessAnalysis   WeaknessAnalysis    `json:"weakness_analysis" yaml:"weakness_analysis"`
	WPMOverTime        []WPMSample         `json:"wpm_over_time" yaml:"wpm_over_time"`
}
