package git

import (
	"strings"

	"github.com/chmouel/lazystage/internal/changes"
	log "github.com/chmouel/lazystage/internal/log"
)

// ParseStatus parses NUL separated "git status --porcelain=v2 -z" output.
// Each path yields one record: untracked paths are Untracked, paths with
// worktree changes are Unstaged (even when part of the file is already in
// the index) and the rest are Staged. Unmerged and ignored entries are
// skipped.
func ParseStatus(raw string) changes.Changes {
	entries := strings.Split(raw, "\x00")
	parsed := make(changes.Changes, 0, len(entries))

	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		switch entry[0] {
		case '1': // 1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
			fields := strings.SplitN(entry, " ", 9)
			if len(fields) < 9 {
				continue
			}
			if status, ok := classifyXY(fields[1]); ok {
				parsed = append(parsed, changes.NewChange(fields[8], status))
			}
		case '2': // 2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path>, then <origPath>
			i++ // the original path is its own entry with -z
			fields := strings.SplitN(entry, " ", 10)
			if len(fields) < 10 {
				continue
			}
			if status, ok := classifyXY(fields[1]); ok {
				parsed = append(parsed, changes.NewChange(fields[9], status))
			}
		case '?':
			if len(entry) > 2 {
				parsed = append(parsed, changes.NewChange(entry[2:], changes.Untracked))
			}
		default:
			// u (unmerged) and ! (ignored)
			log.Printf("status: skipping entry %q", entry)
		}
	}
	return parsed
}

// classifyXY maps a porcelain XY code (X=index, Y=worktree) to a status.
func classifyXY(xy string) (changes.ChangeStatus, bool) {
	if len(xy) != 2 {
		return 0, false
	}
	x, y := xy[0], xy[1]
	switch {
	case y != '.' && y != ' ':
		return changes.Unstaged, true
	case x != '.' && x != ' ':
		return changes.Staged, true
	default:
		return 0, false
	}
}
