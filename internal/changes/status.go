// Package changes models the change-set of a git working tree and the
// transitions that move a path between the index and the working tree.
package changes

import (
	"fmt"
	"strings"
)

// ChangeStatus classifies a changed path.
type ChangeStatus int

const (
	// Staged changes are recorded in the index.
	Staged ChangeStatus = iota
	// Unstaged changes exist on disk but not in the index.
	Unstaged
	// Untracked paths are not managed by git yet.
	Untracked
)

// AllStatuses lists every status in display order.
var AllStatuses = []ChangeStatus{Staged, Unstaged, Untracked}

// Rank returns the ordering rank: lower ranks sort first.
func (s ChangeStatus) Rank() int {
	return int(s)
}

func (s ChangeStatus) String() string {
	switch s {
	case Staged:
		return "Staged"
	case Unstaged:
		return "Unstaged"
	case Untracked:
		return "Untracked"
	default:
		return fmt.Sprintf("ChangeStatus(%d)", int(s))
	}
}

// ParseStatus maps a label such as "staged" back to its status.
func ParseStatus(label string) (ChangeStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, s := range AllStatuses {
		if strings.ToLower(s.String()) == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown change status %q", label)
}
