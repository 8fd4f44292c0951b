// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v2"
)

var (
	dbFlag = &cli.StringFlag{
		Name:     "db",
		Usage:    "directory of the LevelDB substate database",
		Required: true,
	}
	configFlag = &cli.StringFlag{
		Name:      "config",
		Usage:     "TOML file overriding the default engine configuration",
		TakesFile: true,
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "log level, debug traces all invocations",
		Value: "info",
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve prometheus metrics on the given address while running",
	}
	interpreterFlag = &cli.StringFlag{
		Name:  "interpreter",
		Usage: "name of the registered interpreter running byte-code packages, e.g. kvm",
	}
	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "execute without committing the result",
	}
	cpuProfileFlag = &cli.StringFlag{
		Name:      "cpuprofile",
		Usage:     "store CPU profile in the provided filename",
		TakesFile: true,
	}
)

var commonFlags = []cli.Flag{
	cpuProfileFlag,
}

func addCommonFlags(command *cli.Command) *cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) error {
		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}
		return action(ctx)
	}
	return command
}
