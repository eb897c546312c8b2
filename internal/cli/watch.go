package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/chmouel/lazystage/internal/app/services"
)

// watchDebounce is the minimum gap between two printed snapshots.
var watchDebounce = services.WatchDebounce

// Watch prints the change-set once and again after events until ctx is done
// or events is closed. Events arriving within watchDebounce of the last
// snapshot are coalesced into one trailing snapshot. Failed refreshes are
// reported and watching goes on.
func Watch(ctx context.Context, w io.Writer, b Backend, events <-chan struct{}, opts StatusOptions) error {
	printer := NewPrinter(w, opts)
	var last time.Time
	snapshot := func() error {
		last = time.Now()
		cs, err := b.load(ctx)
		if err != nil {
			_, werr := fmt.Fprintf(w, "status failed: %v\n", err)
			return werr
		}
		if _, err := fmt.Fprintf(w, "-- %s (%d changes)\n", last.Format(time.TimeOnly), len(cs)); err != nil {
			return err
		}
		return printer.Print(w, cs)
	}

	if err := snapshot(); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				if pending != nil {
					return snapshot()
				}
				return nil
			}
			if pending != nil {
				continue
			}
			wait := watchDebounce - time.Since(last)
			if wait <= 0 {
				if err := snapshot(); err != nil {
					return err
				}
				continue
			}
			timer = time.NewTimer(wait)
			pending = timer.C
		case <-pending:
			pending = nil
			if err := snapshot(); err != nil {
				return err
			}
		}
	}
}
