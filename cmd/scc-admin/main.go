package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

var cli CLI

func main() {
	ctx := kong.Parse(
		&cli,
		kong.UsageOnError(),
		kong.Name("scc-admin"),
		kong.Description("Command line client for the SCC admin API"),
		kong.Vars{"state_dir": defaultStateDir()},
	)

	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".scc-admin"
	}
	return filepath.Join(dir, "scc-admin")
}
