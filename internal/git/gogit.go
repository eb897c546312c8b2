package git

import (
	"context"
	"fmt"

	"github.com/chmouel/lazystage/internal/changes"
	log "github.com/chmouel/lazystage/internal/log"
	gogit "github.com/go-git/go-git/v5"
)

// GoGitEnumerator computes the change-set in-process with go-git instead of
// spawning "git status". Transitions still go through the git executable.
type GoGitEnumerator struct {
	Dir string
}

var _ Enumerator = GoGitEnumerator{}

// Status opens the repository containing Dir and classifies every path the
// same way ParseStatus does.
func (e GoGitEnumerator) Status(ctx context.Context) (changes.Changes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := gogit.PlainOpenWithOptions(e.Dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", e.Dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("compute status: %w", err)
	}

	cs := make(changes.Changes, 0, len(status))
	for path, fs := range status {
		if st, ok := classifyGoGit(fs.Staging, fs.Worktree); ok {
			cs = append(cs, changes.NewChange(path, st))
			continue
		}
		log.Printf("go-git status: skipping %q (%c%c)", path, fs.Staging, fs.Worktree)
	}
	cs.Sort()
	return cs, nil
}

func classifyGoGit(staging, worktree gogit.StatusCode) (changes.ChangeStatus, bool) {
	switch {
	case staging == gogit.UpdatedButUnmerged || worktree == gogit.UpdatedButUnmerged:
		return 0, false
	case staging == gogit.Untracked || worktree == gogit.Untracked:
		return changes.Untracked, true
	case worktree != gogit.Unmodified:
		return changes.Unstaged, true
	case staging != gogit.Unmodified:
		return changes.Staged, true
	default:
		return 0, false
	}
}
