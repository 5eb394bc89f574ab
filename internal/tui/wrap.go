package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/articulate/internal/lexicon"
	"github.com/verte-zerg/articulate/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	newline bool
}

// span marks runes [start, end) of a transcript for highlighting.
type span struct {
	start int
	end   int
	style lipgloss.Style
}

// highlightSpans returns structure spans followed by filler spans, so fillers
// are drawn over structure phrases where both overlap.
func highlightSpans(a session.Analysis) []span {
	spans := make([]span, 0, len(a.Filler.Positions)+len(a.Structure.AllElements))
	for _, e := range a.Structure.AllElements {
		style := supportStyle
		if e.Category == lexicon.PositionCategory {
			style = positionStyle
		}
		spans = append(spans, span{start: e.Position, end: e.Position + utf8.RuneCountInString(e.Phrase), style: style})
	}
	for _, p := range a.Filler.Positions {
		spans = append(spans, span{start: p.Position, end: p.Position + utf8.RuneCountInString(p.Word), style: fillerStyle})
	}
	return spans
}

// buildStyledRunes styles text rune by rune. Later spans win.
func buildStyledRunes(text []rune, spans []span) []styledRune {
	styles := make([]*lipgloss.Style, len(text))
	for i := range spans {
		for pos := max(0, spans[i].start); pos < spans[i].end && pos < len(text); pos++ {
			styles[pos] = &spans[i].style
		}
	}
	out := make([]styledRune, 0, len(text))
	for i, r := range text {
		if r == '\n' {
			out = append(out, styledRune{isSpace: true, newline: true})
			continue
		}
		style := textStyle
		if styles[i] != nil {
			style = *styles[i]
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: unicode.IsSpace(r),
		})
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

// wrapStyledRunes breaks runes into lines of at most width columns, preferring
// the last space on the line and honoring explicit newlines.
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
		if item.newline {
			out.WriteString(renderStyledRunes(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
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
