package main

import (
	"github.com/alecthomas/kong"
)

var (
	// Version is stamped in at build time through ldflags.
	Version = ""

	// CommitSHA is the source revision the binary was built from,
	// also stamped in through ldflags.
	CommitSHA = ""

	cli struct {
		Version kong.VersionFlag `help:"Show version information"`
		Globals
		Commands
	}
)

func main() {
	ctx := kong.Parse(&cli,
		kong.Vars{
			"version": buildVersion(),
		},
		kong.Name("statement-analyzer"),
		kong.Description("Parses bank statements into categorized, sign-resolved transactions with a two-party revenue split."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if CommitSHA != "" {
		v += " (" + CommitSHA + ")"
	}
	return v
}
