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

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/urfave/cli/v2"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Action:    withEnvironment(doRun),
		Name:      "run",
		Usage:     "Execute a JSON encoded transaction and commit its result",
		ArgsUsage: "<transaction.json>",
		Flags: []cli.Flag{
			dryRunFlag,
		},
	}
}

func doRun(ctx *cli.Context, env *environment) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one transaction file")
	}
	tx, err := readTransaction(ctx.Args().First())
	if err != nil {
		return err
	}
	return execute(ctx, env, tx)
}

func transferCmd() *cli.Command {
	return &cli.Command{
		Action: withEnvironment(doTransfer),
		Name:   "transfer",
		Usage:  "Transfer XRD between the virtual accounts of two public keys",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Usage:    "hex encoded public key of the sender, who signs and pays the fees",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "hex encoded public key of the recipient",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "amount of XRD to transfer",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "fee",
				Usage: "amount of XRD locked for fees, unused fees are refunded",
				Value: "10",
			},
			&cli.Uint64Flag{
				Name:  "nonce",
				Usage: "nonce making otherwise identical transfers unique",
			},
			dryRunFlag,
		},
	}
}

func doTransfer(ctx *cli.Context, env *environment) error {
	from, err := parsePublicKey(ctx.String("from"))
	if err != nil {
		return err
	}
	to, err := parsePublicKey(ctx.String("to"))
	if err != nil {
		return err
	}
	amount, err := keel.ParseDecimal(ctx.String("amount"))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	fee, err := keel.ParseDecimal(ctx.String("fee"))
	if err != nil {
		return fmt.Errorf("invalid fee: %w", err)
	}
	return execute(ctx, env, newTransfer(ctx.Uint64("nonce"), from, to, amount, fee))
}

func newTransfer(nonce uint64, from, to keel.PublicKey, amount, fee keel.Decimal) keel.Transaction {
	sender := natives.VirtualAccountAddress(from)
	return keel.Transaction{
		Nonce:   nonce,
		Signers: []keel.PublicKey{from},
		Instructions: []keel.Instruction{
			keel.CallMethod(sender, "lock_fee", keel.MustIndexedValue(natives.LockFeeArgs{Amount: fee})),
			keel.CallMethod(sender, "withdraw", keel.MustIndexedValue(natives.ResourceAmountArgs{
				Resource: keel.Reference(natives.XRD),
				Amount:   amount,
			})),
			keel.CallMethodWithAllResources(natives.VirtualAccountAddress(to), "deposit_batch"),
		},
	}
}
