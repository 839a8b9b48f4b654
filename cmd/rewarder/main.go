// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewarder/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Rewarder"
	app.Usage = "Continuous rewards engine for VeChain reward sources"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Flags = []cli.Flag{
		dataDirFlag,
		configFlag,
		apiAddrFlag,
		apiCorsFlag,
		enableMetricsFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		enableAdminFlag,
		adminAddrFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
	app.Action = serveAction
	app.Commands = []cli.Command{
		{
			Name:  "replay",
			Usage: "apply a file of balance, claim, snapshot and catch-up events",
			Flags: []cli.Flag{
				dataDirFlag,
				configFlag,
				eventsFlag,
				cacheFlag,
				verbosityFlag,
				jsonLogsFlag,
			},
			Action: replayAction,
		},
		{
			Name:  "inspect",
			Usage: "dump the stored records of a source and optionally one user",
			Flags: []cli.Flag{
				dataDirFlag,
				configFlag,
				sourceFlag,
				userFlag,
				dayFlag,
				cacheFlag,
				verbosityFlag,
				jsonLogsFlag,
			},
			Action: inspectAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
