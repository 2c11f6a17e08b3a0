package typing

// SpanKind tells the renderer how to draw a span.
type SpanKind int

// Span kinds produced by StyledText.
const (
	SpanCorrect SpanKind = iota
	SpanCursor
	SpanError
	SpanErrorCursor
	SpanPending
	SpanEndCursor
)

// errorBufferView caps how many typed runes past the position are shown.
const errorBufferView = FreezeThreshold

const tabText = "    "

// Span is a run of text drawn with one style.
type Span struct {
	Text string
	Kind SpanKind
}

// Line is one visual line of the typing area.
type Line []Span

type lineBuilder struct {
	lines []Line
	cur   Line
}

func (b *lineBuilder) add(r rune, kind SpanKind) {
	switch r {
	case '\n':
		b.lines = append(b.lines, b.cur)
		b.cur = nil
	case '\t':
		b.push(tabText, kind)
	default:
		b.push(string(r), kind)
	}
}

// push merges adjacent spans of the same kind.
func (b *lineBuilder) push(text string, kind SpanKind) {
	if n := len(b.cur); n > 0 && b.cur[n-1].Kind == kind && kind != SpanCursor && kind != SpanErrorCursor {
		b.cur[n-1].Text += text
		return
	}
	b.cur = append(b.cur, Span{Text: text, Kind: kind})
}

func (b *lineBuilder) finish() []Line {
	if len(b.cur) > 0 {
		b.lines = append(b.lines, b.cur)
	}
	return b.lines
}

// StyledText derives the typing area from the current state: the typed
// prefix, the visible error buffer and the remaining text. It does not
// mutate the session.
func (s *Session) StyledText() []Line {
	var b lineBuilder

	done := min(s.position, len(s.target))
	showCursor := !s.hasError && !s.frozen
	for i := 0; i < done; i++ {
		kind := SpanCorrect
		if showCursor && i == done-1 {
			kind = SpanCursor
		}
		b.add(s.target[i], kind)
	}

	if s.hasError && len(s.input) > s.position {
		var wrong []rune
		end := min(len(s.input), s.position+errorBufferView)
		for i := s.position; i < end; i++ {
			if expected, ok := s.expectedAt(i); ok && expected == s.input[i] {
				continue
			}
			wrong = append(wrong, s.input[i])
		}
		for i, r := range wrong {
			kind := SpanError
			if i == len(wrong)-1 {
				kind = SpanErrorCursor
			}
			b.add(r, kind)
		}
	}

	rest := s.position
	if s.hasError {
		rest = min(s.position+s.consecutiveErrors, len(s.target))
	}
	for i := rest; i < len(s.target); i++ {
		b.add(s.target[i], SpanPending)
	}

	if s.position >= len(s.target) && !s.hasError {
		b.push("|", SpanEndCursor)
	}
	return b.finish()
}
