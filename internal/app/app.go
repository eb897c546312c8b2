// Package app implements the lazystage terminal UI.
package app

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app/services"
	"github.com/chmouel/lazystage/internal/changes"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/git"
	log "github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/theme"
)

// Model is the bubbletea model for the change-set view. The change-set is
// only mutated from Update; commands work on copies and report back.
type Model struct {
	config   *config.AppConfig
	theme    *theme.Theme
	repoName string

	enumerator git.Enumerator
	commands   changes.CommandFactory
	watch      *services.WatchService

	changes changes.Changes
	visible []int // indexes into changes after filtering
	cursor  int   // position in visible

	filterInput textinput.Model
	filtering   bool
	help        help.Model
	keys        keyMap

	busy           bool
	refreshPending bool
	loaded         bool
	err            error
	info           string
	width          int
	height         int

	copyToClipboard func(string) error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates the TUI model. enumerator lists changes and commands runs
// the stage/unstage transitions.
func NewModel(cfg *config.AppConfig, repoName string, enumerator git.Enumerator, commands changes.CommandFactory) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter paths"

	th := theme.GetTheme(cfg.Theme)
	m := &Model{
		config:          cfg,
		theme:           th,
		repoName:        repoName,
		enumerator:      enumerator,
		commands:        commands,
		filterInput:     filter,
		help:            help.New(),
		keys:            defaultKeyMap(),
		copyToClipboard: clipboard.WriteAll,
		ctx:             ctx,
		cancel:          cancel,
	}
	m.applyThemeToHelp()
	return m
}

// SetWatcher enables filesystem driven refreshes. The watcher must already
// be started.
func (m *Model) SetWatcher(w *services.WatchService) {
	m.watch = w
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadChanges(), m.waitForWatchEvent())
}

// Changes returns the current change-set.
func (m *Model) Changes() changes.Changes {
	return m.changes
}

// Err returns the last error shown in the footer.
func (m *Model) Err() error {
	return m.err
}

// Close cancels pending work and stops the watcher.
func (m *Model) Close() {
	m.cancel()
	if m.watch != nil {
		m.watch.Stop()
	}
}

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (m *Model) loadChanges() tea.Cmd {
	enumerator := m.enumerator
	ctx := m.ctx
	return func() tea.Msg {
		if enumerator == nil {
			return changesLoadedMsg{}
		}
		cs, err := enumerator.Status(ctx)
		return changesLoadedMsg{changes: cs, err: err}
	}
}

// selected returns the index in m.changes under the cursor, or -1.
func (m *Model) selected() int {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return -1
	}
	return m.visible[m.cursor]
}

func (m *Model) selectedPath() string {
	if idx := m.selected(); idx >= 0 {
		return m.changes[idx].Path
	}
	return ""
}

// setChanges replaces the change-set, keeping the cursor on the same path
// when it still exists.
func (m *Model) setChanges(cs changes.Changes) {
	path := m.selectedPath()
	m.changes = cs.Sorted()
	m.applyFilter()
	m.focusPath(path)
}

func (m *Model) focusPath(path string) {
	if path == "" {
		m.clampCursor()
		return
	}
	for i, idx := range m.visible {
		if m.changes[idx].Path == path {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
