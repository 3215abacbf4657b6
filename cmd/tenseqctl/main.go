// tenseqctl is a small inspection and diagnostic CLI for tenseq container
// files, useful against a real .tsq file without writing Go.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:        "tenseqctl",
		Usage:       "inspect, append to, and verify tenseq container files",
		Description: "A diagnostic CLI over the tenseq container format (storage, codec pipelines, integrity-checked index chain).",
		Commands: []*cli.Command{
			newCmd_Inspect(),
			newCmd_Verify(),
			newCmd_Append(),
		},
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tenseqctl: "+err.Error())
		os.Exit(1)
	}
}
