package app

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/changes"
	"github.com/chmouel/lazystage/internal/config"
)

type fakeEnumerator struct {
	mu      sync.Mutex
	changes changes.Changes
	err     error
	calls   int
}

func (f *fakeEnumerator) Status(context.Context) (changes.Changes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return slices.Clone(f.changes), f.err
}

func (f *fakeEnumerator) set(cs changes.Changes) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = cs
}

func binFactory(bin string) changes.CommandFactory {
	return changes.CommandFactoryFunc(func(ctx context.Context, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, bin)
	})
}

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func sampleChanges() changes.Changes {
	return changes.Changes{
		changes.NewChange("docs/README.md", changes.Untracked),
		changes.NewChange("main.go", changes.Unstaged),
		changes.NewChange("go.mod", changes.Staged),
	}
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.ShowIcons = false
	cfg.AutoRefresh = false
	return cfg
}

// newLoadedModel returns a model that already received the enumerator output.
func newLoadedModel(t *testing.T, enum *fakeEnumerator, factory changes.CommandFactory) *Model {
	t.Helper()
	m := NewModel(testConfig(), "repo", enum, factory)
	t.Cleanup(m.Close)
	cs, err := enum.Status(context.Background())
	m.Update(changesLoadedMsg{changes: cs, err: err})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keySpace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

// runCmd executes cmd and feeds the produced message back into the model,
// following batches one level deep.
func runCmd(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(m, c)
		}
		return
	}
	if msg == nil {
		return
	}
	_, next := m.Update(msg)
	if _, isLoad := msg.(changesLoadedMsg); !isLoad {
		runCmd(m, next)
	}
}

var errClipboard = errors.New("no clipboard")
