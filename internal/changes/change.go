package changes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandFactory builds git commands already bound to a repository:
// executable path and working directory are the factory's concern.
type CommandFactory interface {
	GitCommand(ctx context.Context, args ...string) *exec.Cmd
}

// CommandFactoryFunc adapts a function to CommandFactory.
type CommandFactoryFunc func(ctx context.Context, args ...string) *exec.Cmd

// GitCommand calls f.
func (f CommandFactoryFunc) GitCommand(ctx context.Context, args ...string) *exec.Cmd {
	return f(ctx, args...)
}

// Change is one path with a pending change in the working tree.
// Status is the last known classification and is only refreshed by
// re-enumerating the repository.
type Change struct {
	Path   string
	Status ChangeStatus
}

// NewChange returns a change record for path.
func NewChange(path string, status ChangeStatus) Change {
	return Change{Path: path, Status: status}
}

// String renders the record as "<Status>\t: <path>".
func (c Change) String() string {
	return fmt.Sprintf("%s\t: %s", c.Status, c.Path)
}

// Equal reports whether both path and status match.
func (c Change) Equal(other Change) bool {
	return c == other
}

// Compare orders records by status rank, then by path.
func Compare(a, b Change) int {
	if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Path, b.Path)
}

// Less reports whether a sorts before b.
func Less(a, b Change) bool {
	return Compare(a, b) < 0
}

// Stage runs "git add" for the path and marks the record Staged once git
// reports success. On failure the status is left untouched.
func (c *Change) Stage(ctx context.Context, factory CommandFactory) error {
	if err := c.transition(ctx, factory, "add"); err != nil {
		return err
	}
	c.Status = Staged
	return nil
}

// Unstage runs "git reset" for the path and marks the record Unstaged once
// git reports success. On failure the status is left untouched.
func (c *Change) Unstage(ctx context.Context, factory CommandFactory) error {
	if err := c.transition(ctx, factory, "reset"); err != nil {
		return err
	}
	c.Status = Unstaged
	return nil
}

func (c *Change) transition(ctx context.Context, factory CommandFactory, verb string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: empty path", verb)
	}
	_, err := Run(ctx, factory, verb, "--", c.Path)
	return err
}

// Run executes a git command built by factory, waits for it and returns its
// combined output. Failures come back as *CommandError.
func Run(ctx context.Context, factory CommandFactory, args ...string) ([]byte, error) {
	return run(ctx, factory, true, args)
}

// Output is like Run but returns standard output only. Standard error is
// kept for the error message.
func Output(ctx context.Context, factory CommandFactory, args ...string) ([]byte, error) {
	return run(ctx, factory, false, args)
}

func run(ctx context.Context, factory CommandFactory, combined bool, args []string) ([]byte, error) {
	full := append([]string{"git"}, args...)
	if factory == nil {
		return nil, &CommandError{Kind: LaunchFailure, Args: full, ExitCode: -1, Err: errors.New("no command factory")}
	}
	cmd := factory.GitCommand(ctx, args...)
	if cmd == nil {
		return nil, &CommandError{Kind: LaunchFailure, Args: full, ExitCode: -1, Err: errors.New("no command built")}
	}

	var (
		output []byte
		stderr bytes.Buffer
		err    error
	)
	if combined {
		output, err = cmd.CombinedOutput()
	} else {
		cmd.Stderr = &stderr
		output, err = cmd.Output()
	}
	if err == nil {
		return output, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		diagnostics := output
		if !combined {
			diagnostics = stderr.Bytes()
		}
		return output, &CommandError{
			Kind:     CommandFailure,
			Args:     full,
			ExitCode: exitErr.ExitCode(),
			Output:   strings.TrimSpace(string(diagnostics)),
			Err:      err,
		}
	}
	return output, &CommandError{Kind: LaunchFailure, Args: full, ExitCode: -1, Err: err}
}
