// Command nesteddkg is the benchmark CLI for this module's hierarchical
// threshold-BLS engine: one subcommand per protocol stage (key generation,
// interactive DKG, non-interactive DKG, threshold signing), built as a
// single urfave/cli/v2 app with a flat commands list and no long-lived
// daemon.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "nesteddkg: %+v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "nesteddkg"
	app.Version = version
	app.Usage = "benchmark harness for hierarchical threshold-BLS DKG, NI-DKG, and signing"
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(os.Stdout, "nesteddkg %v (date %v, commit %v)\n", version, buildDate, gitCommit)
	}
	app.Flags = toArray(folderFlag, verboseFlag)
	app.Commands = []*cli.Command{
		generateKeypairsCmd,
		shareFileCmd,
		univariateDKGCmd,
		bivariateDKGCmd,
		univariateNIDKGCmd,
		bivariateNIDKGCmd,
		univariateThresholdSignatureCmd,
		bivariateThresholdSignatureCmd,
	}
	return app
}

func toArray(flags ...cli.Flag) []cli.Flag {
	return flags
}
