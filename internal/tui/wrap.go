// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/NishantJoshi00/typetester/internal/typing"
)

// wrongSpace stands in for a mistyped space so the error stays visible.
const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

type wordState int

const (
	wordLeading wordState = iota
	wordInside
	wordDone
)

// currentWord highlights the first word of the remaining text, skipping
// whitespace that separates it from the cursor.
type currentWord struct {
	state wordState
}

func (w *currentWord) contains(r rune) bool {
	switch w.state {
	case wordLeading:
		if unicode.IsSpace(r) {
			return false
		}
		w.state = wordInside
		return true
	case wordInside:
		if unicode.IsSpace(r) {
			w.state = wordDone
			return false
		}
		return true
	default:
		return false
	}
}

func (w *currentWord) endLine() {
	if w.state == wordInside {
		w.state = wordDone
	}
}

func styleFor(kind typing.SpanKind) lipgloss.Style {
	switch kind {
	case typing.SpanCorrect:
		return correctStyle
	case typing.SpanCursor:
		return cursorStyle
	case typing.SpanError:
		return incorrectStyle
	case typing.SpanErrorCursor:
		return errorCursorStyle
	case typing.SpanEndCursor:
		return endCursorStyle
	default:
		return pendingStyle
	}
}

// buildStyledLines turns the session's styled text into one row of styled
// runes per hard line.
func buildStyledLines(lines []typing.Line) [][]styledRune {
	var word currentWord
	out := make([][]styledRune, 0, len(lines))
	for _, line := range lines {
		row := make([]styledRune, 0)
		for _, span := range line {
			style := styleFor(span.Kind)
			for _, r := range span.Text {
				displayed := r
				runeStyle := style
				switch span.Kind {
				case typing.SpanError, typing.SpanErrorCursor:
					if r == ' ' {
						displayed = wrongSpace
					}
				case typing.SpanPending:
					if word.contains(r) {
						runeStyle = currentWordStyle
					}
				}
				row = append(row, styledRune{
					s:       runeStyle.Render(string(displayed)),
					width:   runewidth.RuneWidth(displayed),
					isSpace: displayed == ' ',
				})
			}
		}
		word.endLine()
		out = append(out, row)
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledLines soft-wraps every row at width and keeps hard line breaks.
func wrapStyledLines(rows [][]styledRune, width int) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = wrapStyledRunes(row, width)
	}
	return strings.Join(parts, "\n")
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
