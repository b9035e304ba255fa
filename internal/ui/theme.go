package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/backdrop/internal/state"
)

// Theme is a dashboard palette.
type Theme struct {
	Name string

	Background string // behind modals
	Surface    string // header bar
	Border     string // status panel

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// PhaseColors maps a main loop phase to its badge color.
	PhaseColors map[state.Phase]string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style
	Logo        lipgloss.Style

	phaseColors map[state.Phase]string
	background  string
	muted       string
}

// Styles builds the styles for t.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Logo:        fg(t.Warning).Bold(true),

		phaseColors: t.PhaseColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// PhaseStyle returns the badge style for phase.
func (s Styles) PhaseStyle(phase state.Phase) lipgloss.Style {
	color := s.phaseColors[phase]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Slate"}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the available theme names in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

func nightfoxTheme() Theme {
	// https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24",
		Surface:    "#192330",
		Border:     "#39506d",

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",

		PhaseColors: map[state.Phase]string{
			state.PhaseIdle:     "#738091",
			state.PhaseUpdating: "#719cd6",
			state.PhaseWaiting:  "#81b29a",
			state.PhaseStopped:  "#c94f6d",
		},
	}
}

func slateTheme() Theme {
	// Tailwind slate and sky
	return Theme{
		Name: "Slate",

		Background: "#020617",
		Surface:    "#0f172a",
		Border:     "#334155",

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		PhaseColors: map[state.Phase]string{
			state.PhaseIdle:     "#64748b",
			state.PhaseUpdating: "#38bdf8",
			state.PhaseWaiting:  "#22c55e",
			state.PhaseStopped:  "#dc2626",
		},
	}
}
