package changes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLaunch matches failures to spawn the git executable.
	ErrLaunch = errors.New("failed to launch command")
	// ErrCommandFailed matches commands that ran but exited with a failure code.
	ErrCommandFailed = errors.New("command failed")
)

// FailureKind tells launch failures from commands that exited non-zero.
type FailureKind int

const (
	// LaunchFailure means the process could not be started at all.
	LaunchFailure FailureKind = iota
	// CommandFailure means the process exited with a failure status.
	CommandFailure
)

func (k FailureKind) String() string {
	if k == LaunchFailure {
		return "launch failure"
	}
	return "command failure"
}

// CommandError describes a failed git invocation.
type CommandError struct {
	Kind     FailureKind
	Args     []string
	ExitCode int // -1 when the process never started
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	command := strings.Join(e.Args, " ")
	if command == "" {
		command = "<empty>"
	}
	switch {
	case e.Kind == LaunchFailure:
		return fmt.Sprintf("%s: %s: %v", ErrLaunch, command, e.Err)
	case e.Output != "":
		return fmt.Sprintf("%s: %s: %s", ErrCommandFailed, command, e.Output)
	default:
		return fmt.Sprintf("%s: %s (exit %d)", ErrCommandFailed, command, e.ExitCode)
	}
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the ErrLaunch and ErrCommandFailed sentinels.
func (e *CommandError) Is(target error) bool {
	switch target {
	case ErrLaunch:
		return e.Kind == LaunchFailure
	case ErrCommandFailed:
		return e.Kind == CommandFailure
	}
	return false
}
