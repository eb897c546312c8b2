package app

import (
	"slices"
	"strings"

	"github.com/chmouel/lazystage/internal/changes"
	"github.com/sahilm/fuzzy"
)

// pathSource implements fuzzy.Source over change paths.
type pathSource changes.Changes

func (s pathSource) String(i int) string { return s[i].Path }

func (s pathSource) Len() int { return len(s) }

// matchChanges returns the indexes of records whose path fuzzy-matches query,
// in change-set order so the status grouping survives filtering.
func matchChanges(cs changes.Changes, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		indexes := make([]int, len(cs))
		for i := range cs {
			indexes[i] = i
		}
		return indexes
	}

	matches := fuzzy.FindFrom(query, pathSource(cs))
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		indexes = append(indexes, match.Index)
	}
	slices.Sort(indexes)
	return indexes
}

func (m *Model) applyFilter() {
	m.visible = matchChanges(m.changes, m.filterInput.Value())
	m.clampCursor()
}
