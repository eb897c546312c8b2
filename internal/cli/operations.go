// Package cli implements the non-interactive lazystage subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystage/internal/app"
	"github.com/chmouel/lazystage/internal/changes"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/theme"
	"github.com/muesli/termenv"
)

// Backend bundles the status source with the factory running transitions.
type Backend struct {
	Enumerator git.Enumerator
	Commands   changes.CommandFactory
}

func (b Backend) load(ctx context.Context) (changes.Changes, error) {
	if b.Enumerator == nil {
		return nil, errors.New("no status backend configured")
	}
	cs, err := b.Enumerator.Status(ctx)
	if err != nil {
		return nil, err
	}
	return cs.Sorted(), nil
}

// StatusOptions controls how records are printed.
type StatusOptions struct {
	Profile termenv.Profile
	Icons   bool
	Theme   *theme.Theme
}

// Printer renders change records the way the status command does.
type Printer struct {
	renderer *lipgloss.Renderer
	theme    *theme.Theme
	icons    bool
}

// NewPrinter returns a Printer writing styled output for w.
func NewPrinter(w io.Writer, opts StatusOptions) *Printer {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(opts.Profile))
	renderer.SetColorProfile(opts.Profile)
	th := opts.Theme
	if th == nil {
		th = theme.GetTheme(theme.DefaultDark())
	}
	return &Printer{renderer: renderer, theme: th, icons: opts.Icons}
}

// Line renders one record as "<Status>\t: <path>".
func (p *Printer) Line(c changes.Change) string {
	path := c.Path
	if p.icons {
		if icon := app.DeviconForPath(c.Path); icon != "" {
			path = icon + " " + path
		}
	}
	label := p.renderer.NewStyle().Foreground(p.theme.StatusColor(c.Status)).Bold(true).Render(c.Status.String())
	return fmt.Sprintf("%s\t: %s", label, path)
}

// Print writes every record on its own line.
func (p *Printer) Print(w io.Writer, cs changes.Changes) error {
	for _, c := range cs {
		if _, err := fmt.Fprintln(w, p.Line(c)); err != nil {
			return err
		}
	}
	return nil
}

// PrintStatus prints the sorted change-set.
func PrintStatus(ctx context.Context, w io.Writer, b Backend, opts StatusOptions) error {
	cs, err := b.load(ctx)
	if err != nil {
		return err
	}
	return NewPrinter(w, opts).Print(w, cs)
}

// Checks lists the predicate names accepted by Check.
var Checks = []string{"staged", "unstaged", "untracked", "any"}

// Check evaluates one of the change-set predicates by name.
func Check(ctx context.Context, b Backend, name string) (bool, error) {
	var predicate func(changes.Changes) bool
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "staged":
		predicate = changes.Changes.HasStagedChanges
	case "unstaged":
		predicate = changes.Changes.HasUnstagedChanges
	case "untracked":
		predicate = changes.Changes.HasUntrackedChanges
	case "any", "":
		predicate = changes.Changes.HasChanges
	default:
		return false, fmt.Errorf("unknown check %q (want one of %s)", name, strings.Join(Checks, ", "))
	}

	cs, err := b.load(ctx)
	if err != nil {
		return false, err
	}
	return predicate(cs), nil
}

// ResolvePaths turns command line paths into repository-root relative paths.
// Relative arguments are taken from base, the caller's working directory.
// Symlinks are resolved on both sides since git reports the real root.
func ResolvePaths(root, base string, paths []string) ([]string, error) {
	realRoot := realPath(root)
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return nil, errors.New("empty path argument")
		}
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(base, p)
		}
		rel, err := filepath.Rel(realRoot, realPath(abs))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%s is outside repository %s", p, root)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

// realPath resolves symlinks in the longest existing prefix of path, so
// deleted files still map onto the real directory holding them.
func realPath(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(realPath(parent), filepath.Base(path))
}
