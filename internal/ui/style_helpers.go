package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints every rendered cell, spaces included, with one background.
// lipgloss resets between styled segments otherwise leave unpainted gaps.
type BgStyle struct {
	base  lipgloss.Style
	space string
}

// NewBgStyle returns a BgStyle for the given color.
func NewBgStyle(color string) BgStyle {
	base := lipgloss.NewStyle().Background(lipgloss.Color(color))
	return BgStyle{base: base, space: base.Render(" ")}
}

// Render styles each word of text and rejoins them with painted spaces.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.base.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space is one painted space.
func (b BgStyle) Space() string {
	return b.space
}

// Join joins already rendered parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.base.Render(sep))
}

// FillLine pads content to width.
func (b BgStyle) FillLine(content string, width int) string {
	return b.base.Width(width).Render(content)
}
