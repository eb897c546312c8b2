package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/chmouel/lazystage/internal/changes"
	"github.com/chmouel/lazystage/internal/theme"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnumerator struct {
	mu      sync.Mutex
	changes changes.Changes
	err     error
}

func (f *fakeEnumerator) Status(context.Context) (changes.Changes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.changes), f.err
}

func (f *fakeEnumerator) set(cs changes.Changes) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = cs
}

type commandRecorder struct {
	calls [][]string
	bin   string
}

func (r *commandRecorder) GitCommand(ctx context.Context, args ...string) *exec.Cmd {
	r.calls = append(r.calls, append([]string{}, args...))
	return exec.CommandContext(ctx, r.bin)
}

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func sample() changes.Changes {
	return changes.Changes{
		changes.NewChange("z.txt", changes.Untracked),
		changes.NewChange("b.go", changes.Unstaged),
		changes.NewChange("a.go", changes.Staged),
		changes.NewChange("with space.md", changes.Unstaged),
	}
}

func plainOptions() StatusOptions {
	return StatusOptions{Profile: termenv.Ascii}
}

func TestPrintStatusSortedPlain(t *testing.T) {
	var out bytes.Buffer
	b := Backend{Enumerator: &fakeEnumerator{changes: sample()}}

	require.NoError(t, PrintStatus(context.Background(), &out, b, plainOptions()))
	assert.Equal(t,
		"Staged\t: a.go\n"+
			"Unstaged\t: b.go\n"+
			"Unstaged\t: with space.md\n"+
			"Untracked\t: z.txt\n",
		out.String())
}

func TestPrintStatusColoured(t *testing.T) {
	var out bytes.Buffer
	b := Backend{Enumerator: &fakeEnumerator{changes: changes.Changes{changes.NewChange("a.go", changes.Staged)}}}

	opts := StatusOptions{Profile: termenv.TrueColor, Theme: theme.Nord()}
	require.NoError(t, PrintStatus(context.Background(), &out, b, opts))
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "a.go")
}

func TestPrintStatusEmptyAndErrors(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintStatus(context.Background(), &out, Backend{Enumerator: &fakeEnumerator{}}, plainOptions()))
	assert.Empty(t, out.String())

	boom := errors.New("boom")
	err := PrintStatus(context.Background(), &out, Backend{Enumerator: &fakeEnumerator{err: boom}}, plainOptions())
	assert.ErrorIs(t, err, boom)

	assert.Error(t, PrintStatus(context.Background(), &out, Backend{}, plainOptions()))
}

func TestPrinterIcons(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, StatusOptions{Profile: termenv.Ascii, Icons: true})
	line := p.Line(changes.NewChange("main.go", changes.Unstaged))
	assert.Contains(t, line, "Unstaged\t: ")
	assert.Contains(t, line, "main.go")
}

func TestCheck(t *testing.T) {
	b := Backend{Enumerator: &fakeEnumerator{changes: changes.Changes{changes.NewChange("a", changes.Untracked)}}}
	empty := Backend{Enumerator: &fakeEnumerator{}}

	tests := []struct {
		name    string
		backend Backend
		check   string
		want    bool
		wantErr bool
	}{
		{name: "untracked present", backend: b, check: "untracked", want: true},
		{name: "staged absent", backend: b, check: "staged"},
		{name: "unstaged absent", backend: b, check: "Unstaged"},
		{name: "any present", backend: b, check: "any", want: true},
		{name: "default is any", backend: b, check: "", want: true},
		{name: "clean tree", backend: empty, check: "any"},
		{name: "unknown check", backend: b, check: "conflicted", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(context.Background(), tt.backend, tt.check)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	sub := filepath.Join(root, "pkg")

	got, err := ResolvePaths(root, sub, []string{"a.go", "../README.md", filepath.Join(root, "cmd", "main.go"), "./dir/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/a.go", "README.md", "cmd/main.go", "pkg/dir"}, got)

	_, err = ResolvePaths(root, root, []string{"../outside"})
	assert.Error(t, err)

	_, err = ResolvePaths(root, root, []string{" "})
	assert.Error(t, err)
}

func TestResolvePathsThroughSymlink(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	link := filepath.Join(t.TempDir(), "checkout")
	if err := os.Symlink(root, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	got, err := ResolvePaths(realRoot, filepath.Join(link, "pkg"), []string{"gone.go", "../README.md", filepath.Join(link, "a.go")})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/gone.go", "README.md", "a.go"}, got)

	_, err = ResolvePaths(realRoot, link, []string{"../outside.txt"})
	assert.ErrorContains(t, err, "outside repository")
}

func TestTransitionStagesNamedPaths(t *testing.T) {
	requireBinary(t, "true")
	rec := &commandRecorder{bin: "true"}
	b := Backend{Enumerator: &fakeEnumerator{changes: sample()}, Commands: rec}
	var out bytes.Buffer

	err := Transition(context.Background(), &out, b, ActionStage, TransitionOptions{Paths: []string{"b.go", "new/file.txt"}})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"add", "--", "b.go"}, {"add", "--", "new/file.txt"}}, rec.calls)
	assert.Equal(t, "Staged b.go\nStaged new/file.txt\n", out.String())
}

func TestTransitionAll(t *testing.T) {
	requireBinary(t, "true")

	rec := &commandRecorder{bin: "true"}
	b := Backend{Enumerator: &fakeEnumerator{changes: sample()}, Commands: rec}
	var out bytes.Buffer
	require.NoError(t, Transition(context.Background(), &out, b, ActionStage, TransitionOptions{All: true}))
	assert.Equal(t, [][]string{
		{"add", "--", "b.go"},
		{"add", "--", "with space.md"},
		{"add", "--", "z.txt"},
	}, rec.calls)

	rec = &commandRecorder{bin: "true"}
	b.Commands = rec
	out.Reset()
	require.NoError(t, Transition(context.Background(), &out, b, ActionUnstage, TransitionOptions{All: true}))
	assert.Equal(t, [][]string{{"reset", "--", "a.go"}}, rec.calls)
	assert.Equal(t, "Unstaged a.go\n", out.String())
}

func TestTransitionNothingToDo(t *testing.T) {
	rec := &commandRecorder{bin: "true"}
	b := Backend{Enumerator: &fakeEnumerator{changes: changes.Changes{changes.NewChange("a", changes.Unstaged)}}, Commands: rec}
	var out bytes.Buffer

	require.NoError(t, Transition(context.Background(), &out, b, ActionUnstage, TransitionOptions{All: true}))
	assert.Equal(t, "Nothing to unstage\n", out.String())
	assert.Empty(t, rec.calls)
}

func TestTransitionRequiresSelection(t *testing.T) {
	err := Transition(context.Background(), &bytes.Buffer{}, Backend{Enumerator: &fakeEnumerator{}}, ActionStage, TransitionOptions{})
	assert.ErrorContains(t, err, "no paths given")
}

func TestTransitionRejectsConflictingSelection(t *testing.T) {
	tests := []struct {
		name string
		opts TransitionOptions
		want string
	}{
		{"all with paths", TransitionOptions{All: true, Paths: []string{"a.go"}}, "cannot be combined"},
		{"interactive with paths", TransitionOptions{Interactive: true, Paths: []string{"a.go"}}, "cannot be combined"},
		{"all with interactive", TransitionOptions{All: true, Interactive: true}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &commandRecorder{bin: "true"}
			b := Backend{Enumerator: &fakeEnumerator{changes: sample()}, Commands: rec}
			var out bytes.Buffer

			err := Transition(context.Background(), &out, b, ActionStage, tt.opts)
			assert.ErrorContains(t, err, tt.want)
			assert.Empty(t, rec.calls)
			assert.Empty(t, out.String())
		})
	}
}

func TestTransitionStopsAtFailure(t *testing.T) {
	requireBinary(t, "false")
	rec := &commandRecorder{bin: "false"}
	b := Backend{Enumerator: &fakeEnumerator{changes: sample()}, Commands: rec}
	var out bytes.Buffer

	err := Transition(context.Background(), &out, b, ActionStage, TransitionOptions{All: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, changes.ErrCommandFailed))
	assert.Len(t, rec.calls, 1)
	assert.Empty(t, out.String())
}

func TestTransitionInteractive(t *testing.T) {
	requireBinary(t, "true")
	orig := selectChangesFunc
	t.Cleanup(func() { selectChangesFunc = orig })

	var offered changes.Changes
	selectChangesFunc = func(title string, candidates changes.Changes) (changes.Changes, error) {
		assert.Equal(t, "Select paths to stage", title)
		offered = candidates
		return pickSelected(candidates, []string{"z.txt"})
	}

	rec := &commandRecorder{bin: "true"}
	b := Backend{Enumerator: &fakeEnumerator{changes: sample()}, Commands: rec}
	var out bytes.Buffer
	require.NoError(t, Transition(context.Background(), &out, b, ActionStage, TransitionOptions{Interactive: true}))

	assert.Len(t, offered, 3)
	assert.Equal(t, [][]string{{"add", "--", "z.txt"}}, rec.calls)

	selectChangesFunc = func(string, changes.Changes) (changes.Changes, error) {
		return nil, ErrNothingSelected
	}
	err := Transition(context.Background(), &out, b, ActionUnstage, TransitionOptions{Interactive: true})
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestPickSelectedKeepsOrder(t *testing.T) {
	cs := sample().Sorted()
	got, err := pickSelected(cs, []string{"z.txt", "a.go"})
	require.NoError(t, err)
	assert.Equal(t, changes.Changes{
		changes.NewChange("a.go", changes.Staged),
		changes.NewChange("z.txt", changes.Untracked),
	}, got)

	_, err = pickSelected(cs, nil)
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestActionLabels(t *testing.T) {
	assert.Equal(t, "stage", ActionStage.String())
	assert.Equal(t, "unstage", ActionUnstage.String())
	assert.Equal(t, changes.Staged, ActionUnstage.placeholder("x").Status)
	assert.Equal(t, changes.Unstaged, ActionStage.placeholder("x").Status)
}
