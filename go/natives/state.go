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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// StateKey is the key of the main state field of all native nodes.
var StateKey = keel.FieldKey(0)

// VaultsPartition of an account maps resource addresses to the vault
// holding the account's balance of that resource.
const VaultsPartition = keel.MainPartition + 1

// maxAccountResources limits the number of vaults an account may hold.
const maxAccountResources = 1024

// CodeKey is the key of the code substate in the main partition of a package.
var CodeKey = keel.FieldKey(0)

// RoyaltyKey is the key of the royalty charged for an export of a package or
// a method of a component in its RoyaltyPartition.
func RoyaltyKey(blueprint, ident string) keel.SubstateKey {
	if blueprint == "" {
		return keel.MapKey([]byte(ident))
	}
	return keel.MapKey([]byte(blueprint + "::" + ident))
}

func vaultKey(resource keel.NodeID) keel.SubstateKey {
	return keel.MapKey(resource[:])
}

type ResourceManagerState struct {
	TotalSupply keel.Decimal
	Owner       keel.PublicKeyHash
}

type VaultState struct {
	Resource keel.Reference
	Amount   keel.Decimal
}

type BucketState struct {
	Resource keel.Reference
	Amount   keel.Decimal
}

type ProofState struct {
	Resource keel.Reference
	Amount   keel.Decimal
}

// WorktopEntry is a bucket held by a worktop. Buckets on a worktop are not
// modified, their resource and amount are cached in the entry.
type WorktopEntry struct {
	Resource keel.NodeID
	Amount   keel.Decimal
	Bucket   keel.Own
}

type WorktopState struct {
	Entries []WorktopEntry
}

type AccountState struct {
	Owner keel.PublicKeyHash
}

// AccountVault is the value of an entry of an account's VaultsPartition.
type AccountVault struct {
	Vault keel.Own
}

type IdentityState struct {
	Owner keel.PublicKeyHash
}

// PackageCode is the byte-code of a published package.
type PackageCode struct {
	Code []byte
}

func typeInfo(pkg keel.NodeID, blueprint string, global bool, outer keel.NodeID) keel.IndexedValue {
	return keel.MustIndexedValue(keel.TypeInfo{Package: pkg, Blueprint: blueprint, Global: global, Outer: outer})
}

func decodeArgs[T any](args keel.IndexedValue) (T, error) {
	var res T
	if err := args.Decode(&res); err != nil {
		return res, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return res, nil
}

func encode(value any) (keel.IndexedValue, error) {
	return keel.NewIndexedValue(value)
}

func decodeState[T any](value keel.IndexedValue) (T, error) {
	var res T
	if err := value.Decode(&res); err != nil {
		return res, fmt.Errorf("%w: %w", ErrCorruptedState, err)
	}
	return res, nil
}

// readState loads and decodes a substate with a read lock held only for the
// duration of the call.
func readState[T any](api keel.KernelApi, node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (T, error) {
	var res T
	handle, err := api.OpenSubstate(node, partition, key, 0)
	if err != nil {
		return res, err
	}
	value, err := api.ReadSubstate(handle)
	if err == nil {
		res, err = decodeState[T](value)
	}
	return res, errors.Join(err, api.CloseSubstate(handle))
}

// updateState applies the given update to a substate under a write lock.
func updateState[T any](api keel.KernelApi, node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, flags keel.LockFlags, update func(*T) error) (err error) {
	handle, err := api.OpenSubstate(node, partition, key, keel.LockMutable|flags)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, api.CloseSubstate(handle))
	}()
	value, err := api.ReadSubstate(handle)
	if err != nil {
		return err
	}
	state, err := decodeState[T](value)
	if err != nil {
		return err
	}
	if err := update(&state); err != nil {
		return err
	}
	updated, err := encode(state)
	if err != nil {
		return err
	}
	return api.WriteSubstate(handle, updated)
}

// receiver is the node the current method was invoked on.
func receiver(api keel.KernelApi) keel.NodeID {
	return api.CurrentActor().Receiver
}

// viewState runs the given function while a read lock on the substate is
// held. Nodes referenced by the state stay visible until it returns.
func viewState[T any](api keel.KernelApi, node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, view func(T) error) (err error) {
	handle, err := api.OpenSubstate(node, partition, key, 0)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, api.CloseSubstate(handle))
	}()
	value, err := api.ReadSubstate(handle)
	if err != nil {
		return err
	}
	state, err := decodeState[T](value)
	if err != nil {
		return err
	}
	return view(state)
}
