// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package natives

import (
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
)

const (
	TransactionProcessorBlueprint = "TransactionProcessor"
	RunIdent                      = "run"
)

// RunArgs are the arguments of the transaction processor. References lists
// the nodes addressed by the instructions so that they become visible to the
// processor's frame.
type RunArgs struct {
	Instructions []keel.Instruction
	References   []keel.Reference
}

// RunOutput holds the persisted form of each instruction's output. Nodes
// owned by outputs are kept on the worktop, so the outputs are returned as
// plain bytes.
type RunOutput struct {
	Outputs [][]byte
}

// TransactionReferences lists the nodes a transaction may access. Global
// nodes are those addressed by its instructions or referenced by their
// arguments. Internal nodes addressed by instructions can only be invoked
// through direct access.
func TransactionReferences(tx *keel.Transaction) []keel.NodeID {
	res := tx.References()
	for _, instruction := range tx.Instructions {
		address := instruction.Address
		if address == (keel.NodeID{}) || address.IsGlobal() || slices.Contains(res, address) {
			continue
		}
		res = append(res, address)
	}
	return res
}

// NewRunArgs prepares the arguments for running the given transaction.
func NewRunArgs(tx *keel.Transaction) (keel.IndexedValue, error) {
	refs := []keel.Reference{}
	for _, id := range TransactionReferences(tx) {
		refs = append(refs, keel.Reference(id))
	}
	return keel.NewIndexedValue(RunArgs{Instructions: tx.Instructions, References: refs})
}

// DecodeRunOutput restores the instruction outputs from the output of the
// transaction processor.
func DecodeRunOutput(value keel.IndexedValue) ([]keel.IndexedValue, error) {
	output, err := decodeState[RunOutput](value)
	if err != nil {
		return nil, err
	}
	res := make([]keel.IndexedValue, 0, len(output.Outputs))
	for _, data := range output.Outputs {
		if len(data) == 0 {
			res = append(res, keel.IndexedValue{})
			continue
		}
		value, err := keel.IndexedValueFromBytes(data)
		if err != nil {
			return nil, err
		}
		res = append(res, value)
	}
	return res, nil
}

// runTransaction executes the instructions of a transaction one by one.
// Buckets returned by instructions are collected on a worktop that has to be
// empty at the end of the transaction.
func runTransaction(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[RunArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	worktop, err := newWorktop(api)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	outputs := make([][]byte, 0, len(params.Instructions))
	for i, instruction := range params.Instructions {
		output, err := runInstruction(api, worktop, instruction)
		if err != nil {
			return keel.IndexedValue{}, fmt.Errorf("instruction %d (%v) failed: %w", i, instruction.Kind, err)
		}
		if err := collect(api, worktop, output); err != nil {
			return keel.IndexedValue{}, fmt.Errorf("instruction %d (%v) failed: %w", i, instruction.Kind, err)
		}
		outputs = append(outputs, output.Bytes())
	}
	if err := dropWorktop(api, worktop); err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(RunOutput{Outputs: outputs})
}

func runInstruction(api keel.ClientApi, worktop keel.NodeID, instruction keel.Instruction) (keel.IndexedValue, error) {
	args := instruction.Args
	if args.IsEmpty() {
		args = keel.UnitValue
	}
	switch instruction.Kind {
	case keel.InstructionCallFunction:
		return api.CallFunction(instruction.Address, instruction.Blueprint, instruction.Ident, args)
	case keel.InstructionCallMethod:
		if !instruction.Address.IsGlobal() {
			return api.CallDirectAccessMethod(instruction.Address, instruction.Ident, args)
		}
		return api.CallMethod(instruction.Address, instruction.Ident, args)
	case keel.InstructionCallMethodWithAllResources:
		buckets, err := api.CallMethod(worktop, "drain", keel.UnitValue)
		if err != nil {
			return keel.IndexedValue{}, err
		}
		return api.CallMethod(instruction.Address, instruction.Ident, buckets)
	case keel.InstructionAssertWorktopContains:
		return api.CallMethod(worktop, "assert_contains", keel.MustIndexedValue(AssertContainsArgs{
			Resource: keel.Reference(instruction.Address),
			Amount:   instruction.Amount,
		}))
	}
	return keel.IndexedValue{}, fmt.Errorf("%w: %v", ErrUnknownInstruction, instruction.Kind)
}

// collect moves the buckets owned by an instruction output to the worktop
// and drops its proofs.
func collect(api keel.ClientApi, worktop keel.NodeID, output keel.IndexedValue) error {
	for _, node := range output.OwnedNodes() {
		switch node.EntityType() {
		case keel.EntityTypeInternalFungibleBucket:
			if _, err := api.CallMethod(worktop, "put", keel.MustIndexedValue(BucketArgs{Bucket: keel.Own(node)})); err != nil {
				return err
			}
		case keel.EntityTypeInternalFungibleProof:
			if _, err := api.DropNode(node); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v returned by instruction", ErrUnexpectedNode, node)
		}
	}
	return nil
}
