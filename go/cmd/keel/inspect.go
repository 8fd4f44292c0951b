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

func inspectCmd() *cli.Command {
	return &cli.Command{
		Action:    withEnvironment(doInspect),
		Name:      "inspect",
		Usage:     "List the committed substates of a node",
		ArgsUsage: "<node-id>",
		Flags: []cli.Flag{
			&cli.UintSliceFlag{
				Name:  "partition",
				Usage: "partitions to list, all well-known partitions if not set",
			},
		},
	}
}

var wellKnownPartitions = []keel.PartitionNumber{
	keel.TypeInfoPartition,
	keel.GlobalPartition,
	keel.RoyaltyPartition,
	keel.MainPartition,
	natives.VaultsPartition,
}

func doInspect(ctx *cli.Context, env *environment) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one node id")
	}
	var node keel.NodeID
	if err := node.UnmarshalText([]byte(ctx.Args().First())); err != nil {
		return fmt.Errorf("invalid node id: %w", err)
	}
	partitions := wellKnownPartitions
	if selected := ctx.UintSlice("partition"); len(selected) > 0 {
		partitions = nil
		for _, partition := range selected {
			if partition > 255 {
				return fmt.Errorf("invalid partition %d", partition)
			}
			partitions = append(partitions, keel.PartitionNumber(partition))
		}
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "%v (%v)\n", node, node.EntityType())
	for _, partition := range partitions {
		entries, err := env.db.ListSubstates(node, partition)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			value, err := keel.IndexedValueFromBytes(entry.Value)
			if err != nil {
				return fmt.Errorf("invalid substate %v/%v: %w", partition, entry.Key, err)
			}
			fmt.Fprintf(w, "  %3d %v: %v\n", partition, entry.Key, value)
			for _, owned := range value.OwnedNodes() {
				fmt.Fprintf(w, "      owns %v\n", owned)
			}
			for _, ref := range value.References() {
				fmt.Fprintf(w, "      refs %v\n", ref)
			}
		}
	}
	return nil
}
