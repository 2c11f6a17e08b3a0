package typing

import (
	"reflect"
	"testing"
	"time"
)

func TestStyledTextStates(t *testing.T) {
	cases := []struct {
		name   string
		target string
		typed  []rune
		want   []Line
	}{
		{
			name:   "untouched",
			target: "ab\tc",
			want:   []Line{{{Text: "ab    c", Kind: SpanPending}}},
		},
		{
			name:   "cursor on last correct rune",
			target: "ab\tc",
			typed:  []rune("a"),
			want:   []Line{{{Text: "a", Kind: SpanCursor}, {Text: "b    c", Kind: SpanPending}}},
		},
		{
			name:   "error buffer",
			target: "ab\tc",
			typed:  []rune("abx"),
			want: []Line{{
				{Text: "ab", Kind: SpanCorrect},
				{Text: "x", Kind: SpanErrorCursor},
				{Text: "c", Kind: SpanPending},
			}},
		},
		{
			name:   "error buffer hides runes matching the target",
			target: "abc",
			typed:  []rune("xb"),
			want: []Line{{
				{Text: "x", Kind: SpanErrorCursor},
				{Text: "c", Kind: SpanPending},
			}},
		},
		{
			name:   "several errors",
			target: "abcdef",
			typed:  []rune("axyz"),
			want: []Line{{
				{Text: "a", Kind: SpanCorrect},
				{Text: "xy", Kind: SpanError},
				{Text: "z", Kind: SpanErrorCursor},
				{Text: "ef", Kind: SpanPending},
			}},
		},
		{
			name:   "newline splits lines",
			target: "a\nb",
			want:   []Line{{{Text: "a", Kind: SpanPending}}, {{Text: "b", Kind: SpanPending}}},
		},
		{
			name:   "complete",
			target: "ab",
			typed:  []rune("ab"),
			want: []Line{{
				{Text: "a", Kind: SpanCorrect},
				{Text: "b", Kind: SpanCursor},
				{Text: "|", Kind: SpanEndCursor},
			}},
		},
		{
			name:   "backspace restores the view",
			target: "ab",
			typed:  []rune{'x', Backspace},
			want:   []Line{{{Text: "ab", Kind: SpanPending}}},
		},
		{
			name:   "empty target",
			target: "",
			want:   []Line{{{Text: "|", Kind: SpanEndCursor}}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, clock := newTestSession(tc.target)
			for _, r := range tc.typed {
				clock.Advance(10 * time.Millisecond)
				s.HandleKey(r)
			}
			got := s.StyledText()
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestStyledTextErrorViewIsCapped(t *testing.T) {
	s, clock := newTestSession("aaaaaaaaaaaaaaaaaaaaaaaa")
	typeAll(s, clock, "zzzzzzzzzz", 10*time.Millisecond)
	lines := s.StyledText()
	errs := 0
	for _, line := range lines {
		for _, span := range line {
			if span.Kind == SpanError || span.Kind == SpanErrorCursor {
				errs += len([]rune(span.Text))
			}
		}
	}
	if errs != errorBufferView {
		t.Fatalf("expected %d error runes shown, got %d", errorBufferView, errs)
	}
	before := s.StyledText()
	if !reflect.DeepEqual(before, lines) {
		t.Fatalf("styled text must be a pure view")
	}
}
