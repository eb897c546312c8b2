// Package bootstrap wires the lazystage command line: flags, configuration,
// the git backend and the subcommands.
package bootstrap

import (
	"strings"

	"github.com/chmouel/lazystage/internal/cli"
	"github.com/chmouel/lazystage/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Run against the repository containing this directory",
		},
		&urfavecli.StringFlag{
			Name:  "git",
			Usage: "Path to the git executable",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme (" + strings.Join(theme.AvailableThemes(), ", ") + ")",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lzs.key=value",
		},
	}
}

func statusFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "check",
			Usage: "Print nothing and exit 1 unless there are changes of this kind (" + strings.Join(cli.Checks, ", ") + ")",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable coloured output",
		},
		&urfavecli.BoolFlag{
			Name:  "icons",
			Usage: "Prefix paths with file icons",
		},
	}
}

func transitionFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Apply to every candidate path",
		},
		&urfavecli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Pick paths from a list",
		},
	}
}
