package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app/services"
)

// waitForWatchEvent blocks on the watcher until something changes or the
// model is closed. At most one wait is in flight.
func (m *Model) waitForWatchEvent() tea.Cmd {
	if m.watch == nil || !m.config.AutoRefresh {
		return nil
	}
	ch := m.watch.NextEvent()
	if ch == nil {
		return nil
	}
	done := m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-ch:
			return watchEventMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) handleWatchEvent() (tea.Model, tea.Cmd) {
	if m.watch == nil {
		return m, nil
	}
	m.watch.ResetWaiting()
	next := m.waitForWatchEvent()
	now := time.Now()
	if m.busy || !m.watch.ShouldRefresh(now) {
		// coalesce into one trailing refresh so the last change is not lost
		return m, tea.Batch(m.scheduleRefresh(m.watch.Remaining(now)), next)
	}
	m.debugf("watcher: refreshing change-set")
	return m, tea.Batch(m.loadChanges(), next)
}

// scheduleRefresh arms a single delayed refresh; further calls while one is
// pending are no-ops.
func (m *Model) scheduleRefresh(delay time.Duration) tea.Cmd {
	if m.refreshPending {
		return nil
	}
	if delay <= 0 {
		delay = services.WatchDebounce
	}
	m.refreshPending = true
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return watchRefreshMsg{}
	})
}

func (m *Model) handleWatchRefresh() (tea.Model, tea.Cmd) {
	m.refreshPending = false
	if m.busy {
		return m, m.scheduleRefresh(services.WatchDebounce)
	}
	if m.watch != nil {
		m.watch.LastRefresh = time.Now()
	}
	m.debugf("watcher: trailing refresh")
	return m, m.loadChanges()
}
