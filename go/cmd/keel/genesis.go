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
	"go.uber.org/zap"
)

const ErrAlreadyInitialized = keel.ConstError("database already initialized")

func genesisCmd() *cli.Command {
	return &cli.Command{
		Action: withEnvironment(doGenesis),
		Name:   "genesis",
		Usage:  "Initialize an empty database with the native packages and the initial XRD supply",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "hex encoded public key of the owner of the initial supply",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "supply",
				Usage: "initial XRD supply",
				Value: "1000000000",
			},
		},
	}
}

func doGenesis(ctx *cli.Context, env *environment) error {
	owner, err := parsePublicKey(ctx.String("owner"))
	if err != nil {
		return err
	}
	supply, err := keel.ParseDecimal(ctx.String("supply"))
	if err != nil {
		return fmt.Errorf("invalid supply: %w", err)
	}
	_, found, err := env.db.GetSubstate(natives.XRD, keel.TypeInfoPartition, keel.TypeInfoKey)
	if err != nil {
		return err
	}
	if found {
		return ErrAlreadyInitialized
	}
	updates, err := natives.Genesis(owner, supply)
	if err != nil {
		return err
	}
	if err := env.db.Commit(updates); err != nil {
		return err
	}
	account := natives.VirtualAccountAddress(owner)
	env.log.Info("genesis committed", zap.Stringer("owner_account", account), zap.Int("updates", updates.Len()))
	fmt.Fprintln(ctx.App.Writer, account)
	return nil
}
