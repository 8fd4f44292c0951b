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

const (
	ResourceManagerBlueprint = "FungibleResourceManager"
	VaultBlueprint           = "FungibleVault"
	BucketBlueprint          = "FungibleBucket"
	ProofBlueprint           = "FungibleProof"
)

type CreateResourceArgs struct {
	Owner         keel.PublicKeyHash
	InitialSupply keel.Decimal
}

type CreateResourceOutput struct {
	Resource keel.Reference
	Bucket   keel.Own
}

type AmountArgs struct {
	Amount keel.Decimal
}

type BucketArgs struct {
	Bucket keel.Own
}

type BucketOutput struct {
	Bucket keel.Own
}

type VaultOutput struct {
	Vault keel.Own
}

type ProofOutput struct {
	Proof keel.Own
}

type LockFeeArgs struct {
	Amount     keel.Decimal
	Contingent bool
}

func checkAmount(amount keel.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %v", ErrInvalidArguments, amount)
	}
	return nil
}

// createResource creates a new fungible resource and a bucket holding its
// initial supply.
func createResource(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[CreateResourceArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := checkAmount(params.InitialSupply); err != nil {
		return keel.IndexedValue{}, err
	}
	resource, err := api.AllocateNodeID(keel.EntityTypeGlobalFungibleResource)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	state, err := encode(ResourceManagerState{TotalSupply: params.InitialSupply, Owner: params.Owner})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	err = api.CreateNode(resource, keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(ResourcePackage, ResourceManagerBlueprint, true, keel.NodeID{})).
		Set(keel.MainPartition, StateKey, state))
	if err != nil {
		return keel.IndexedValue{}, err
	}
	bucket, err := newBucket(api, resource, params.InitialSupply)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(CreateResourceOutput{Resource: keel.Reference(resource), Bucket: keel.Own(bucket)})
}

func mint(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[AmountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := checkAmount(params.Amount); err != nil {
		return keel.IndexedValue{}, err
	}
	resource := receiver(api)
	err = updateState(api, resource, keel.MainPartition, StateKey, 0, func(state *ResourceManagerState) (err error) {
		state.TotalSupply, err = state.TotalSupply.Add(params.Amount)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	bucket, err := newBucket(api, resource, params.Amount)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(BucketOutput{Bucket: keel.Own(bucket)})
}

func burn(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[BucketArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	resource := receiver(api)
	bucket, err := dropBucket(api, params.Bucket.NodeID())
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if bucket.Resource.NodeID() != resource {
		return keel.IndexedValue{}, ErrResourceMismatch
	}
	err = updateState(api, resource, keel.MainPartition, StateKey, 0, func(state *ResourceManagerState) (err error) {
		if state.TotalSupply.Cmp(bucket.Amount) < 0 {
			return ErrInsufficientFunds
		}
		state.TotalSupply, err = state.TotalSupply.Sub(bucket.Amount)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return keel.UnitValue, nil
}

func totalSupply(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	state, err := readState[ResourceManagerState](api, receiver(api), keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(state.TotalSupply)
}

func createEmptyBucket(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	bucket, err := newBucket(api, receiver(api), keel.Decimal{})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(BucketOutput{Bucket: keel.Own(bucket)})
}

func createEmptyVault(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	resource := receiver(api)
	vault, err := api.AllocateNodeID(keel.EntityTypeInternalFungibleVault)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	state, err := encode(VaultState{Resource: keel.Reference(resource)})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	err = api.CreateNode(vault, keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(ResourcePackage, VaultBlueprint, false, resource)).
		Set(keel.MainPartition, StateKey, state))
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(VaultOutput{Vault: keel.Own(vault)})
}

// newBucket creates a bucket owned by the current frame. The resource must
// be visible to the frame.
func newBucket(api keel.KernelApi, resource keel.NodeID, amount keel.Decimal) (keel.NodeID, error) {
	bucket, err := api.AllocateNodeID(keel.EntityTypeInternalFungibleBucket)
	if err != nil {
		return keel.NodeID{}, err
	}
	state, err := encode(BucketState{Resource: keel.Reference(resource), Amount: amount})
	if err != nil {
		return keel.NodeID{}, err
	}
	err = api.CreateNode(bucket, keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(ResourcePackage, BucketBlueprint, false, resource)).
		Set(keel.MainPartition, StateKey, state))
	return bucket, err
}

// dropBucket consumes an owned bucket and returns its content.
func dropBucket(api keel.KernelApi, bucket keel.NodeID) (BucketState, error) {
	if bucket.EntityType() != keel.EntityTypeInternalFungibleBucket {
		return BucketState{}, fmt.Errorf("%w: %v is not a bucket", ErrInvalidArguments, bucket)
	}
	substates, err := api.DropNode(bucket)
	if err != nil {
		return BucketState{}, err
	}
	value, found := substates.Get(keel.MainPartition, StateKey)
	if !found {
		return BucketState{}, ErrCorruptedState
	}
	return decodeState[BucketState](value)
}

func newProof(api keel.KernelApi, resource keel.NodeID, amount keel.Decimal) (keel.NodeID, error) {
	proof, err := api.AllocateNodeID(keel.EntityTypeInternalFungibleProof)
	if err != nil {
		return keel.NodeID{}, err
	}
	state, err := encode(ProofState{Resource: keel.Reference(resource), Amount: amount})
	if err != nil {
		return keel.NodeID{}, err
	}
	err = api.CreateNode(proof, keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(ResourcePackage, ProofBlueprint, false, resource)).
		Set(keel.MainPartition, StateKey, state))
	return proof, err
}

// take withdraws from the receiving vault into a new bucket. The bucket is
// created while the vault state is open so that its resource is visible.
func take(api keel.KernelApi, amount keel.Decimal, flags keel.LockFlags) (keel.NodeID, error) {
	if err := checkAmount(amount); err != nil {
		return keel.NodeID{}, err
	}
	var bucket keel.NodeID
	err := updateState(api, receiver(api), keel.MainPartition, StateKey, flags, func(state *VaultState) (err error) {
		if state.Amount.Cmp(amount) < 0 {
			return fmt.Errorf("%w: requested %v, available %v", ErrInsufficientFunds, amount, state.Amount)
		}
		if state.Amount, err = state.Amount.Sub(amount); err != nil {
			return err
		}
		bucket, err = newBucket(api, state.Resource.NodeID(), amount)
		return err
	})
	return bucket, err
}

func vaultTake(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[AmountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	bucket, err := take(api, params.Amount, 0)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(BucketOutput{Bucket: keel.Own(bucket)})
}

// vaultRecall takes resources from a vault without the consent of its owner.
// It is only reachable through direct access.
func vaultRecall(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	if !api.CurrentActor().DirectAccess {
		return keel.IndexedValue{}, ErrDirectAccessRequired
	}
	return vaultTake(args, api)
}

func vaultPut(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[BucketArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	bucket, err := dropBucket(api, params.Bucket.NodeID())
	if err != nil {
		return keel.IndexedValue{}, err
	}
	err = updateState(api, receiver(api), keel.MainPartition, StateKey, 0, func(state *VaultState) (err error) {
		if state.Resource != bucket.Resource {
			return ErrResourceMismatch
		}
		state.Amount, err = state.Amount.Add(bucket.Amount)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return keel.UnitValue, nil
}

func vaultAmount(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	state, err := readState[VaultState](api, receiver(api), keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(state.Amount)
}

// vaultLockFee withdraws a fee payment from the vault. The withdrawal
// survives a failure of the transaction; unused fees are refunded by the
// processor.
func vaultLockFee(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[LockFeeArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := checkAmount(params.Amount); err != nil {
		return keel.IndexedValue{}, err
	}
	vault := receiver(api)
	err = updateState(api, vault, keel.MainPartition, StateKey, keel.LockForceWrite, func(state *VaultState) (err error) {
		if state.Resource.NodeID() != XRD {
			return fmt.Errorf("%w: fees must be paid in XRD", ErrResourceMismatch)
		}
		if state.Amount.Cmp(params.Amount) < 0 {
			return fmt.Errorf("%w: requested %v, available %v", ErrInsufficientFunds, params.Amount, state.Amount)
		}
		state.Amount, err = state.Amount.Sub(params.Amount)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := api.LockFee(vault, params.Amount, params.Contingent); err != nil {
		return keel.IndexedValue{}, err
	}
	return keel.UnitValue, nil
}

func vaultCreateProof(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[AmountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := checkAmount(params.Amount); err != nil {
		return keel.IndexedValue{}, err
	}
	var proof keel.NodeID
	err = viewState(api, receiver(api), keel.MainPartition, StateKey, func(state VaultState) (err error) {
		if state.Amount.Cmp(params.Amount) < 0 {
			return ErrInsufficientFunds
		}
		proof, err = newProof(api, state.Resource.NodeID(), params.Amount)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(ProofOutput{Proof: keel.Own(proof)})
}

func bucketAmount(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	state, err := readState[BucketState](api, receiver(api), keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(state.Amount)
}

func proofAmount(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	state, err := readState[ProofState](api, receiver(api), keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(state.Amount)
}
