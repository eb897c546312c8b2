package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/changes"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)

	case changesLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			m.debugf("status failed: %v", msg.err)
			return m, nil
		}
		m.err = nil
		m.setChanges(msg.changes)
		return m, nil

	case transitionMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.debugf("transition failed: %v", msg.err)
			return m, m.loadChanges()
		}
		m.err = nil
		if msg.index < len(m.changes) && m.changes[msg.index].Path == msg.change.Path {
			m.changes[msg.index] = msg.change
			m.setChanges(m.changes)
		}
		m.info = fmt.Sprintf("%s %s", verbFor(msg.change.Status), msg.change.Path)
		// the record is only the last known state; ask git for the truth
		return m, m.loadChanges()

	case bulkTransitionMsg:
		m.busy = false
		m.err = msg.err
		if msg.changes != nil {
			m.setChanges(msg.changes)
		}
		return m, m.loadChanges()

	case clipboardMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.info = "Copied " + msg.path
		return m, nil

	case watchEventMsg:
		return m.handleWatchEvent()

	case watchRefreshMsg:
		return m.handleWatchRefresh()
	}
	return m, nil
}

func verbFor(status changes.ChangeStatus) string {
	if status == changes.Staged {
		return "Staged"
	}
	return "Unstaged"
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visible) - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleSelected()
	case key.Matches(msg, m.keys.StageAll):
		return m, m.stageAll()
	case key.Matches(msg, m.keys.UnstageAll):
		return m, m.unstageAll()
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filterInput.Focus()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	case key.Matches(msg, m.keys.Refresh):
		m.info = ""
		return m, m.loadChanges()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.refilter()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *Model) refilter() {
	path := m.selectedPath()
	m.applyFilter()
	m.focusPath(path)
}

// toggleSelected stages the record under the cursor, or unstages it when it
// is already staged.
func (m *Model) toggleSelected() tea.Cmd {
	idx := m.selected()
	if idx < 0 || m.busy {
		return nil
	}
	m.busy = true
	m.info = ""
	change := m.changes[idx]
	ctx, factory := m.ctx, m.commands

	return func() tea.Msg {
		var err error
		if change.Status == changes.Staged {
			err = change.Unstage(ctx, factory)
		} else {
			err = change.Stage(ctx, factory)
		}
		return transitionMsg{index: idx, change: change, err: err}
	}
}

func (m *Model) stageAll() tea.Cmd {
	if m.busy || !(m.changes.HasUnstagedChanges() || m.changes.HasUntrackedChanges()) {
		return nil
	}
	m.busy = true
	cs := m.changes.Sorted()
	ctx, factory := m.ctx, m.commands
	return func() tea.Msg {
		err := cs.StageAll(ctx, factory, changes.Unstaged, changes.Untracked)
		return bulkTransitionMsg{changes: cs, err: err}
	}
}

func (m *Model) unstageAll() tea.Cmd {
	if m.busy || !m.changes.HasStagedChanges() {
		return nil
	}
	m.busy = true
	cs := m.changes.Sorted()
	ctx, factory := m.ctx, m.commands
	return func() tea.Msg {
		err := cs.UnstageAll(ctx, factory)
		return bulkTransitionMsg{changes: cs, err: err}
	}
}

func (m *Model) copySelected() tea.Cmd {
	path := m.selectedPath()
	if path == "" || m.copyToClipboard == nil {
		return nil
	}
	write := m.copyToClipboard
	return func() tea.Msg {
		return clipboardMsg{path: path, err: write(path)}
	}
}
