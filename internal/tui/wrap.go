package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const blankMarker = "_____"

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func styleText(text string, style lipgloss.Style, out []styledRune) []styledRune {
	for _, r := range text {
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

// buildStoryRunes renders story text with filled blanks replaced by the
// learner's answers and the blank at current highlighted.
func buildStoryRunes(text string, filled []string, correct []bool, current int) []styledRune {
	parts := strings.Split(text, blankMarker)
	out := make([]styledRune, 0, len(text))
	for i, part := range parts {
		out = styleText(part, correctStyle, out)
		if i == len(parts)-1 {
			break
		}
		switch {
		case i < len(filled):
			style := correctStyle
			if i >= len(correct) || !correct[i] {
				style = incorrectStyle
			}
			out = styleText(filled[i], style.Underline(true), out)
		case i == current:
			out = styleText(blankMarker, cursorStyle, out)
		default:
			out = styleText(blankMarker, pendingStyle, out)
		}
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

// wrapText wraps plain text, keeping explicit newlines.
func wrapText(text string, style lipgloss.Style, width int) string {
	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapStyledRunes(styleText(p, style, nil), width)
	}
	return strings.Join(paragraphs, "\n")
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
