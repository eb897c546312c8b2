package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chmouel/lazystage/internal/changes"
)

// Action is the direction of a transition.
type Action int

const (
	// ActionStage moves paths into the index.
	ActionStage Action = iota
	// ActionUnstage moves paths out of the index.
	ActionUnstage
)

func (a Action) String() string {
	if a == ActionUnstage {
		return "unstage"
	}
	return "stage"
}

func (a Action) pastTense() string {
	if a == ActionUnstage {
		return "Unstaged"
	}
	return "Staged"
}

// candidates returns the records the action can move.
func (a Action) candidates(cs changes.Changes) changes.Changes {
	if a == ActionUnstage {
		return cs.Filter(changes.Staged)
	}
	return cs.Filter(changes.Unstaged, changes.Untracked)
}

// placeholder stands in for a path git did not report, so git still gets to
// decide what the path means.
func (a Action) placeholder(path string) changes.Change {
	if a == ActionUnstage {
		return changes.NewChange(path, changes.Staged)
	}
	return changes.NewChange(path, changes.Unstaged)
}

func (a Action) apply(ctx context.Context, c *changes.Change, factory changes.CommandFactory) error {
	if a == ActionUnstage {
		return c.Unstage(ctx, factory)
	}
	return c.Stage(ctx, factory)
}

// TransitionOptions selects which records a transition touches.
type TransitionOptions struct {
	Paths       []string
	All         bool
	Interactive bool
}

// ErrNothingSelected is returned when an interactive selection is empty.
var ErrNothingSelected = errors.New("nothing selected")

// Transition stages or unstages the selected records, printing one line per
// moved path to w. It stops at the first failing git command.
func Transition(ctx context.Context, w io.Writer, b Backend, action Action, opts TransitionOptions) error {
	switch {
	case !opts.All && !opts.Interactive && len(opts.Paths) == 0:
		return fmt.Errorf("%s: no paths given (use --all or -i)", action)
	case opts.All && opts.Interactive:
		return fmt.Errorf("%s: --all and -i are mutually exclusive", action)
	case (opts.All || opts.Interactive) && len(opts.Paths) > 0:
		return fmt.Errorf("%s: paths cannot be combined with --all or -i", action)
	}

	cs, err := b.load(ctx)
	if err != nil {
		return err
	}

	var targets changes.Changes
	switch {
	case opts.All:
		targets = action.candidates(cs)
	case opts.Interactive:
		candidates := action.candidates(cs)
		if len(candidates) == 0 {
			break
		}
		targets, err = selectChangesFunc(fmt.Sprintf("Select paths to %s", action), candidates)
		if err != nil {
			return err
		}
	default:
		for _, p := range opts.Paths {
			if idx := cs.Find(p); idx >= 0 {
				targets = append(targets, cs[idx])
				continue
			}
			targets = append(targets, action.placeholder(p))
		}
	}

	if len(targets) == 0 {
		_, err := fmt.Fprintf(w, "Nothing to %s\n", action)
		return err
	}

	for i := range targets {
		if err := action.apply(ctx, &targets[i], b.Commands); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", action.pastTense(), targets[i].Path); err != nil {
			return err
		}
	}
	return nil
}
