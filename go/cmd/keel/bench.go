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
	"time"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

func benchCmd() *cli.Command {
	return &cli.Command{
		Action:    withEnvironment(doBench),
		Name:      "bench",
		Usage:     "Repeatedly execute a transaction without committing it and report the rate",
		ArgsUsage: "<transaction.json>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "iterations",
				Usage: "number of executions",
				Value: 1000,
			},
		},
	}
}

func doBench(ctx *cli.Context, env *environment) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one transaction file")
	}
	tx, err := readTransaction(ctx.Args().First())
	if err != nil {
		return err
	}
	iterations := ctx.Int("iterations")
	if iterations <= 0 {
		return fmt.Errorf("invalid number of iterations %d", iterations)
	}

	outcomes := map[keel.Outcome]int{}
	var costUnits uint64
	start := time.Now()
	for i := 0; i < iterations; i++ {
		receipt, err := env.engine.Execute(tx)
		if err != nil {
			return err
		}
		outcomes[receipt.Outcome]++
		costUnits += uint64(receipt.Fees.TotalExecutionCostUnitsConsumed)
	}
	duration := time.Since(start)

	rate := float64(iterations) / duration.Seconds()
	fmt.Fprintf(ctx.App.Writer, "executed %d transactions in %v, ~%s tx/s, ~%s cost units/s\n",
		iterations, duration.Round(time.Millisecond),
		unitconv.FormatPrefix(rate, unitconv.SI, 1),
		unitconv.FormatPrefix(float64(costUnits)/duration.Seconds(), unitconv.SI, 1),
	)
	for _, outcome := range []keel.Outcome{keel.OutcomeCommitSuccess, keel.OutcomeCommitFailure, keel.OutcomeReject, keel.OutcomeAbort} {
		if count := outcomes[outcome]; count > 0 {
			fmt.Fprintf(ctx.App.Writer, "  %v: %d\n", outcome, count)
		}
	}
	return nil
}
