// Package main is the entry point for the lazystage application.
package main

import (
	"context"
	"os"

	"github.com/chmouel/lazystage/internal/bootstrap"
	"github.com/chmouel/lazystage/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()
	os.Exit(bootstrap.Run(context.Background(), os.Args))
}
