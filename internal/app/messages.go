package app

import "github.com/chmouel/lazystage/internal/changes"

type (
	changesLoadedMsg struct {
		changes changes.Changes
		err     error
	}
	// transitionMsg reports a single stage/unstage. change holds the record
	// as the command left it.
	transitionMsg struct {
		index  int
		change changes.Change
		err    error
	}
	// bulkTransitionMsg reports stage-all/unstage-all; changes reflects every
	// record handled before a failure.
	bulkTransitionMsg struct {
		changes changes.Changes
		err     error
	}
	watchEventMsg   struct{}
	watchRefreshMsg struct{}

	clipboardMsg struct {
		path string
		err  error
	}
)
