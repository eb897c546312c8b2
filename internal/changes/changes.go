package changes

import (
	"context"
	"slices"
)

// Changes is an ordered change-set. Uniqueness of paths is up to whoever
// builds it, and it must not be shared across goroutines without locking.
type Changes []Change

// Sort orders the collection in place by status rank, then path.
func (cs Changes) Sort() {
	slices.SortStableFunc(cs, Compare)
}

// Sorted returns a sorted copy.
func (cs Changes) Sorted() Changes {
	out := slices.Clone(cs)
	out.Sort()
	return out
}

// HasStagedChanges reports whether any record is staged.
func (cs Changes) HasStagedChanges() bool {
	return cs.has(Staged)
}

// HasUnstagedChanges reports whether any record is unstaged.
func (cs Changes) HasUnstagedChanges() bool {
	return cs.has(Unstaged)
}

// HasUntrackedChanges reports whether any record is untracked.
func (cs Changes) HasUntrackedChanges() bool {
	return cs.has(Untracked)
}

// HasChanges reports whether the collection holds any record at all.
func (cs Changes) HasChanges() bool {
	return len(cs) > 0
}

func (cs Changes) has(status ChangeStatus) bool {
	return slices.ContainsFunc(cs, func(c Change) bool {
		return c.Status == status
	})
}

// Count returns how many records carry status.
func (cs Changes) Count(status ChangeStatus) int {
	n := 0
	for _, c := range cs {
		if c.Status == status {
			n++
		}
	}
	return n
}

// Filter returns the records whose status is one of statuses, preserving order.
func (cs Changes) Filter(statuses ...ChangeStatus) Changes {
	var out Changes
	for _, c := range cs {
		if slices.Contains(statuses, c.Status) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the index of the first record for path, or -1.
func (cs Changes) Find(path string) int {
	return slices.IndexFunc(cs, func(c Change) bool {
		return c.Path == path
	})
}

// StageAll stages every record whose status is in from. It stops at the first
// failure; records handled before it keep their new status.
func (cs Changes) StageAll(ctx context.Context, factory CommandFactory, from ...ChangeStatus) error {
	for i := range cs {
		if !slices.Contains(from, cs[i].Status) {
			continue
		}
		if err := cs[i].Stage(ctx, factory); err != nil {
			return err
		}
	}
	return nil
}

// UnstageAll unstages every staged record, stopping at the first failure.
func (cs Changes) UnstageAll(ctx context.Context, factory CommandFactory) error {
	for i := range cs {
		if cs[i].Status != Staged {
			continue
		}
		if err := cs[i].Unstage(ctx, factory); err != nil {
			return err
		}
	}
	return nil
}
