package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/chmouel/lazystage/internal/changes"
)

// changeSelector picks a subset of candidates; tests replace it to avoid a
// terminal.
type changeSelector func(title string, candidates changes.Changes) (changes.Changes, error)

var selectChangesFunc changeSelector = selectChangesWithForm

func selectChangesWithForm(title string, candidates changes.Changes) (changes.Changes, error) {
	options := make([]huh.Option[string], 0, len(candidates))
	for _, c := range candidates {
		options = append(options, huh.NewOption(c.String(), c.Path))
	}

	var picked []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(options...).
		Value(&picked)

	err := huh.NewForm(huh.NewGroup(field)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil, ErrNothingSelected
	}
	if err != nil {
		return nil, err
	}
	return pickSelected(candidates, picked)
}

// pickSelected maps the chosen paths back to their records, keeping the
// candidates' order.
func pickSelected(candidates changes.Changes, picked []string) (changes.Changes, error) {
	if len(picked) == 0 {
		return nil, ErrNothingSelected
	}
	chosen := make(map[string]struct{}, len(picked))
	for _, p := range picked {
		chosen[p] = struct{}{}
	}
	var out changes.Changes
	for _, c := range candidates {
		if _, ok := chosen[c.Path]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
