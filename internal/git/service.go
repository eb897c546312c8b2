// Package git wraps the git executable for lazystage: it builds commands
// bound to a repository and enumerates the working tree change-set.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chmouel/lazystage/internal/changes"
	log "github.com/chmouel/lazystage/internal/log"
)

// LookupPath is used to find executables in PATH. Tests swap it out to avoid
// depending on the binaries installed on the host.
var LookupPath = exec.LookPath

// Enumerator lists the current change-set of a repository.
type Enumerator interface {
	Status(ctx context.Context) (changes.Changes, error)
}

// Options configures a Service.
type Options struct {
	// GitPath is the git executable, "git" when empty.
	GitPath string
	// Dir is the working directory commands run in.
	Dir string
}

// Service runs git commands against one working tree.
type Service struct {
	gitPath string
	dir     string
}

var (
	_ changes.CommandFactory = (*Service)(nil)
	_ Enumerator             = (*Service)(nil)
)

// NewService resolves the git executable and returns a Service.
func NewService(opts Options) (*Service, error) {
	gitPath := strings.TrimSpace(opts.GitPath)
	if gitPath == "" {
		gitPath = "git"
	}
	resolved, err := LookupPath(gitPath)
	if err != nil {
		return nil, &changes.CommandError{
			Kind:     changes.LaunchFailure,
			Args:     []string{gitPath},
			ExitCode: -1,
			Err:      err,
		}
	}
	return &Service{gitPath: resolved, dir: opts.Dir}, nil
}

// Dir returns the directory commands run in.
func (s *Service) Dir() string {
	return s.dir
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// GitCommand builds a git command bound to the service's working directory.
func (s *Service) GitCommand(ctx context.Context, args ...string) *exec.Cmd {
	s.debugf("run: git %s (cwd=%s)", strings.Join(args, " "), s.dir)
	// #nosec G204 -- arguments are assembled by lazystage, never shell interpolated
	cmd := exec.CommandContext(ctx, s.gitPath, args...)
	if s.dir != "" {
		cmd.Dir = s.dir
	}
	return cmd
}

// RunGit runs git with args and returns its standard output. Exit codes listed in
// okReturncodes besides 0 are not treated as failures.
func (s *Service) RunGit(ctx context.Context, args []string, okReturncodes []int, strip bool) (string, error) {
	out, err := changes.Output(ctx, s, args...)
	if err != nil {
		var cmdErr *changes.CommandError
		if !errors.As(err, &cmdErr) || !slices.Contains(okReturncodes, cmdErr.ExitCode) {
			s.debugf("error: %v", err)
			return "", err
		}
	}
	s.debugf("ok: git %s", strings.Join(args, " "))
	output := string(out)
	if strip {
		output = strings.TrimSpace(output)
	}
	return output, nil
}

// RepoRoot returns the top-level directory of the working tree.
func (s *Service) RepoRoot(ctx context.Context) (string, error) {
	root, err := s.RunGit(ctx, []string{"rev-parse", "--show-toplevel"}, nil, true)
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", fmt.Errorf("not inside a git working tree: %s", s.dir)
	}
	return root, nil
}

// UseRepoRoot re-targets the service at the top of the working tree. Status
// paths are root-relative, so transitions must run from there.
func (s *Service) UseRepoRoot(ctx context.Context) error {
	root, err := s.RepoRoot(ctx)
	if err != nil {
		return err
	}
	s.dir = root
	return nil
}

// GitDir returns the absolute path of the repository's git directory.
func (s *Service) GitDir(ctx context.Context) (string, error) {
	dir, err := s.RunGit(ctx, []string{"rev-parse", "--absolute-git-dir"}, nil, true)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dir) && s.dir != "" {
		dir = filepath.Join(s.dir, dir)
	}
	return dir, nil
}

// Status enumerates the change-set with "git status --porcelain=v2" and
// returns it sorted.
func (s *Service) Status(ctx context.Context) (changes.Changes, error) {
	raw, err := s.RunGit(ctx, []string{"status", "--porcelain=v2", "--untracked-files=all", "-z"}, nil, false)
	if err != nil {
		return nil, err
	}
	cs := ParseStatus(raw)
	cs.Sort()
	return cs, nil
}
