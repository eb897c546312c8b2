package app

import (
	"os"
	"path"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// iconFileInfo feeds a bare path to go-devicons, which expects os.FileInfo.
type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode { return 0 }

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return false }

func (i iconFileInfo) Sys() any { return nil }

// DeviconForPath returns the Nerd Font glyph for a file path.
func DeviconForPath(p string) string {
	if p == "" {
		return ""
	}
	style := devicons.IconForInfo(iconFileInfo{name: path.Base(p)})
	return style.Icon
}
