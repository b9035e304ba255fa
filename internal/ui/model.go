package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/backdrop/internal/command"
	"github.com/five82/backdrop/internal/input"
	"github.com/five82/backdrop/internal/logtail"
	"github.com/five82/backdrop/internal/state"
)

// LogLines is how many log entries the dashboard keeps on screen.
const LogLines = 12

// Options configures the UI.
type Options struct {
	Store   *state.Store
	Keys    *KeyForwarder
	Exit    *command.ExitSignal
	LogPath string

	// Header labels
	Category string
	Search   string
	Pacing   string

	Refresh   time.Duration
	ThemeName string
	Now       func() time.Time
}

// Model is the root dashboard state for Bubble Tea.
type Model struct {
	store   *state.Store
	keys    *KeyForwarder
	exit    *command.ExitSignal
	logPath string
	refresh time.Duration
	now     func() time.Time

	category string
	search   string
	pacing   string

	theme    Theme
	keyMap   keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	snapshot state.Snapshot
	logs     []logtail.Entry
	logErr   error
}

// New creates a new dashboard model.
func New(opts Options) Model {
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	exit := opts.Exit
	if exit == nil {
		exit = command.NewExitSignal()
	}

	theme := GetTheme(opts.ThemeName)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Styles().AccentText

	return Model{
		store:    opts.Store,
		keys:     opts.Keys,
		exit:     exit,
		logPath:  opts.LogPath,
		refresh:  refresh,
		now:      now,
		category: opts.Category,
		search:   opts.Search,
		pacing:   opts.Pacing,
		theme:    theme,
		keyMap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.refresh),
		m.spinner.Tick,
		waitExitCmd(m.exit),
		readLogsCmd(m.logPath),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refresh), readLogsCmd(m.logPath)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case logsMsg:
		m.logs = msg.entries
		m.logErr = msg.err
		return m, nil

	case exitMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp && !key.Matches(msg, m.keyMap.ForceQuit) {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.ForceQuit):
		m.exit.Set()
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.NewWallpaper):
		m.forward(input.KeyNew)
	case key.Matches(msg, m.keyMap.Save):
		m.forward(input.KeySave)
	case key.Matches(msg, m.keyMap.Quit):
		m.forward(input.KeyQuit)
	case key.Matches(msg, m.keyMap.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) forward(k input.Key) {
	if m.keys != nil {
		m.keys.Send(k)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

type exitMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func readLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Read(path, LogLines)
		return logsMsg{entries: entries, err: err}
	}
}

func waitExitCmd(exit *command.ExitSignal) tea.Cmd {
	return func() tea.Msg {
		<-exit.Done()
		return exitMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
