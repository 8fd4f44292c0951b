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

	"github.com/Fantom-foundation/Keel/go/keel"
)

const WorktopBlueprint = "Worktop"

type AssertContainsArgs struct {
	Resource keel.Reference
	Amount   keel.Decimal
}

func newWorktop(api keel.KernelApi) (keel.NodeID, error) {
	worktop, err := api.AllocateNodeID(keel.EntityTypeInternalWorktop)
	if err != nil {
		return keel.NodeID{}, err
	}
	state, err := encode(WorktopState{})
	if err != nil {
		return keel.NodeID{}, err
	}
	err = api.CreateNode(worktop, keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(TransactionProcessorPackage, WorktopBlueprint, false, keel.NodeID{})).
		Set(keel.MainPartition, StateKey, state))
	return worktop, err
}

func worktopPut(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[BucketArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	bucket := params.Bucket.NodeID()
	content, err := readState[BucketState](api, bucket, keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if content.Amount.IsZero() {
		if _, err := api.DropNode(bucket); err != nil {
			return keel.IndexedValue{}, err
		}
		return keel.UnitValue, nil
	}
	err = updateState(api, receiver(api), keel.MainPartition, StateKey, 0, func(state *WorktopState) error {
		state.Entries = append(state.Entries, WorktopEntry{
			Resource: content.Resource.NodeID(),
			Amount:   content.Amount,
			Bucket:   params.Bucket,
		})
		return nil
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return keel.UnitValue, nil
}

// takeEntries removes all entries matching the filter from the worktop. The
// buckets of removed entries become owned by the current frame.
func takeEntries(api keel.KernelApi, filter func(WorktopEntry) bool) ([]WorktopEntry, error) {
	var taken []WorktopEntry
	err := updateState(api, receiver(api), keel.MainPartition, StateKey, 0, func(state *WorktopState) error {
		remaining := make([]WorktopEntry, 0, len(state.Entries))
		for _, entry := range state.Entries {
			if filter(entry) {
				taken = append(taken, entry)
			} else {
				remaining = append(remaining, entry)
			}
		}
		state.Entries = remaining
		return nil
	})
	return taken, err
}

// worktopTakeAll combines all buckets of a resource into a single one.
func worktopTakeAll(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[ResourceArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	resource := params.Resource.NodeID()
	entries, err := takeEntries(api, func(entry WorktopEntry) bool { return entry.Resource == resource })
	if err != nil {
		return keel.IndexedValue{}, err
	}
	total := keel.Decimal{}
	for _, entry := range entries {
		content, err := dropBucket(api, entry.Bucket.NodeID())
		if err != nil {
			return keel.IndexedValue{}, err
		}
		if total, err = total.Add(content.Amount); err != nil {
			return keel.IndexedValue{}, err
		}
	}
	bucket, err := newBucket(api, resource, total)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(BucketOutput{Bucket: keel.Own(bucket)})
}

func worktopDrain(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	entries, err := takeEntries(api, func(WorktopEntry) bool { return true })
	if err != nil {
		return keel.IndexedValue{}, err
	}
	buckets := make([]keel.Own, 0, len(entries))
	for _, entry := range entries {
		buckets = append(buckets, entry.Bucket)
	}
	return encode(BucketsArgs{Buckets: buckets})
}

func worktopAssertContains(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[AssertContainsArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	state, err := readState[WorktopState](api, receiver(api), keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	total := keel.Decimal{}
	for _, entry := range state.Entries {
		if entry.Resource != params.Resource.NodeID() {
			continue
		}
		if total, err = total.Add(entry.Amount); err != nil {
			return keel.IndexedValue{}, err
		}
	}
	if total.Cmp(params.Amount) < 0 {
		return keel.IndexedValue{}, fmt.Errorf("%w: wanted %v of %v, found %v", ErrAssertionFailed, params.Amount, params.Resource.NodeID(), total)
	}
	return keel.UnitValue, nil
}

// dropWorktop disposes of an empty worktop.
func dropWorktop(api keel.KernelApi, worktop keel.NodeID) error {
	state, err := readState[WorktopState](api, worktop, keel.MainPartition, StateKey)
	if err != nil {
		return err
	}
	if len(state.Entries) > 0 {
		return fmt.Errorf("%w: %d buckets", ErrWorktopNotEmpty, len(state.Entries))
	}
	_, err = api.DropNode(worktop)
	return err
}
