package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/backdrop/internal/logtail"
	"github.com/five82/backdrop/internal/state"
)

const labelWidth = 14

// renderMain stacks header, status panel, recent logs and the help bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(m.styledHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("backdrop", styles.Logo)}
	if m.snapshot.DemoMode {
		parts = append(parts, bg.Render("DEMO", styles.WarningText))
	}
	if m.pacing != "" {
		parts = append(parts, bg.Render(m.pacing, styles.MutedText))
	}
	topic := m.category
	if m.search != "" {
		topic = "search: " + m.search
	}
	if topic != "" {
		parts = append(parts, bg.Render(truncate(topic, 40), styles.AccentText))
	}
	line := bg.Join(parts, " │ ")
	width := max(m.width, lipgloss.Width(line))
	return bg.FillLine(bg.Space()+line, width)
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(styles.MutedText.Width(labelWidth).Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	phase := snap.Phase
	if phase == "" {
		phase = state.PhaseIdle
	}
	badge := styles.PhaseStyle(phase).Render(titleCase(string(phase)))
	if phase == state.PhaseUpdating {
		badge += " " + m.spinner.View()
		if snap.Trigger != "" {
			badge += " " + styles.FaintText.Render(string(snap.Trigger))
		}
	}
	row("Status", badge)
	row("Requests", m.formatBudget(styles))
	row("Next update", m.formatNext(styles))

	if snap.HasWallpaper {
		w := snap.Wallpaper
		title := truncate(w.Title, 60)
		if w.Photographer != "" {
			title += styles.FaintText.Render(" by " + w.Photographer)
		}
		row("Wallpaper", styles.Text.Render(title))
		detail := fmt.Sprintf("%s · %s · %s", humanize.Bytes(uint64(w.Bytes)), w.Query, humanize.Time(w.SetAt))
		row("", styles.FaintText.Render(detail))
	} else {
		row("Wallpaper", styles.FaintText.Render("none yet"))
	}
	if snap.SavedPath != "" {
		row("Last saved", styles.Text.Render(truncateMiddle(snap.SavedPath, 60)))
	}
	if snap.LastError != nil {
		msg := truncate(snap.LastError.Error(), max(m.width-labelWidth-2, 20))
		style := styles.WarningText
		if snap.IsFailing() {
			style = styles.DangerText
		}
		row("Last error", style.Render(msg))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1)
	if m.width > 4 {
		panel = panel.Width(m.width - 2)
	}
	return panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) formatBudget(styles Styles) string {
	snap := m.snapshot
	if snap.Quota <= 0 {
		return styles.FaintText.Render("unknown")
	}
	text := fmt.Sprintf("%d / %d left this hour", snap.Remaining, snap.Quota)
	switch {
	case snap.Remaining <= 5:
		return styles.DangerText.Render(text)
	case snap.Remaining*4 <= snap.Quota:
		return styles.WarningText.Render(text)
	default:
		return styles.SuccessText.Render(text)
	}
}

func (m Model) formatNext(styles Styles) string {
	left, ok := m.snapshot.Until(m.now())
	if !ok {
		return styles.FaintText.Render("-")
	}
	text := "in " + formatCountdown(left)
	if m.snapshot.Interval > 0 {
		text += styles.FaintText.Render(" (interval " + formatCountdown(m.snapshot.Interval) + ")")
	}
	return styles.Text.Render(text)
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Recent activity"))
	b.WriteString("\n")

	if m.logErr != nil {
		b.WriteString(styles.DangerText.Render("log unavailable: " + m.logErr.Error()))
		return b.String()
	}
	if len(m.logs) == 0 {
		b.WriteString(styles.FaintText.Render("no log lines yet"))
		return b.String()
	}
	for i, e := range m.logs {
		b.WriteString(m.formatLogEntry(styles, e))
		if i < len(m.logs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) formatLogEntry(styles Styles, e logtail.Entry) string {
	level := strings.ToUpper(e.Level)
	var levelStyle lipgloss.Style
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		levelStyle = styles.DangerText
	case "WARN":
		levelStyle = styles.WarningText
	case "DEBUG":
		levelStyle = styles.FaintText
	default:
		levelStyle = styles.InfoText
	}
	ts := e.Time
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	line := styles.FaintText.Render(ts) + " " + levelStyle.Width(6).Render(level) + styles.Text.Render(e.Message)
	if e.Fields != "" {
		line += " " + styles.FaintText.Render(e.Fields)
	}
	if m.width > 0 && lipgloss.Width(line) > m.width {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

func (m Model) styledHelpBar() string {
	return m.help.ShortHelpView(m.keyMap.ShortHelp())
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	full := m.help
	full.ShowAll = true
	b.WriteString(full.FullHelpView(m.keyMap.FullHelp()))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// formatCountdown renders d as 1h02m, 4m05s or 9s.
func formatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	mins := int(d/time.Minute) % 60
	secs := int(d/time.Second) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, mins)
	case mins > 0:
		return fmt.Sprintf("%dm%02ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
