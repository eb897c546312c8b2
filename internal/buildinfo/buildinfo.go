// Package buildinfo holds build metadata for the lazystage binary. The linker
// sets the variables in cmd/lazystage and main() forwards them with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Set stores the build metadata received from linker-injected variables.
func Set(v, c, d, b string) {
	version = v
	commit = c
	date = d
	builtBy = b
}

// Version returns the build version string.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// Date returns the build date string.
func Date() string { return date }

// BuiltBy returns the build agent string.
func BuiltBy() string { return builtBy }

// Enrich fills a missing commit from the VCS revision and a missing builder
// from the Go version recorded in the binary.
func Enrich() {
	if commit != "none" && builtBy != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if commit == "none" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			}
		}
	}
	if builtBy == "unknown" {
		builtBy = info.GoVersion
	}
}

// Summary formats the metadata for the version command.
func Summary(name string) string {
	return fmt.Sprintf("%s version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n", name, version, commit, date, builtBy)
}
