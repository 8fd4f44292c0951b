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

const AccountBlueprint = "Account"

type CreateAccountArgs struct {
	Owner keel.PublicKeyHash
}

type AccountOutput struct {
	Account keel.Reference
}

type BucketsArgs struct {
	Buckets []keel.Own
}

type ResourceArgs struct {
	Resource keel.Reference
}

type ResourceAmountArgs struct {
	Resource keel.Reference
	Amount   keel.Decimal
}

// accountSubstates is the content of the component node of a new account.
func accountSubstates(owner keel.PublicKeyHash) (keel.NodeSubstates, error) {
	state, err := encode(AccountState{Owner: owner})
	if err != nil {
		return nil, err
	}
	return keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(AccountPackage, AccountBlueprint, false, keel.NodeID{})).
		Set(keel.MainPartition, StateKey, state), nil
}

func globalSubstates(pkg keel.NodeID, blueprint string, underlying keel.NodeID) keel.NodeSubstates {
	return keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(pkg, blueprint, true, keel.NodeID{})).
		Set(keel.GlobalPartition, keel.GlobalKey, keel.MustIndexedValue(keel.GlobalSubstate{Underlying: keel.Own(underlying)}))
}

func createAccount(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[CreateAccountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	component, err := api.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	substates, err := accountSubstates(params.Owner)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := api.CreateNode(component, substates); err != nil {
		return keel.IndexedValue{}, err
	}
	account, err := api.Globalize(keel.EntityTypeGlobalAccount, component)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(AccountOutput{Account: keel.Reference(account)})
}

// AccountOwner reads the owner of an account from its component state.
func AccountOwner(value keel.IndexedValue) (keel.PublicKeyHash, error) {
	state, err := decodeState[AccountState](value)
	return state.Owner, err
}

// hasVault reports whether the receiving account holds a vault for the
// given resource.
func hasVault(api keel.KernelApi, resource keel.NodeID) (bool, error) {
	keys, err := api.ScanKeys(receiver(api), VaultsPartition, maxAccountResources)
	if err != nil {
		return false, err
	}
	return slices.Contains(keys, vaultKey(resource)), nil
}

// withVault runs the given function while the account's vault for the
// resource is visible. It reports false if there is no such vault.
func withVault(api keel.KernelApi, resource keel.NodeID, run func(vault keel.NodeID) error) (bool, error) {
	found, err := hasVault(api, resource)
	if err != nil || !found {
		return false, err
	}
	return true, viewState(api, receiver(api), VaultsPartition, vaultKey(resource), func(entry AccountVault) error {
		return run(entry.Vault.NodeID())
	})
}

func deposit(api keel.ClientApi, bucket keel.NodeID) error {
	var resource keel.NodeID
	var vault keel.NodeID
	err := viewState(api, bucket, keel.MainPartition, StateKey, func(state BucketState) error {
		resource = state.Resource.NodeID()
		found, err := hasVault(api, resource)
		if err != nil || found {
			return err
		}
		// The resource is visible through the bucket until it is closed.
		output, err := api.CallMethod(resource, "create_empty_vault", keel.UnitValue)
		if err != nil {
			return err
		}
		created, err := decodeState[VaultOutput](output)
		vault = created.Vault.NodeID()
		return err
	})
	if err != nil {
		return err
	}
	if vault != (keel.NodeID{}) {
		// The new vault is still owned by this frame and thus visible.
		if _, err := api.CallMethod(vault, "put", keel.MustIndexedValue(BucketArgs{Bucket: keel.Own(bucket)})); err != nil {
			return err
		}
		entry, err := encode(AccountVault{Vault: keel.Own(vault)})
		if err != nil {
			return err
		}
		return api.SetSubstate(receiver(api), VaultsPartition, vaultKey(resource), entry)
	}
	_, err = withVault(api, resource, func(vault keel.NodeID) error {
		_, err := api.CallMethod(vault, "put", keel.MustIndexedValue(BucketArgs{Bucket: keel.Own(bucket)}))
		return err
	})
	return err
}

func accountDeposit(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[BucketArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := deposit(api, params.Bucket.NodeID()); err != nil {
		return keel.IndexedValue{}, err
	}
	return keel.UnitValue, nil
}

func accountDepositBatch(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[BucketsArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	for _, bucket := range params.Buckets {
		if err := deposit(api, bucket.NodeID()); err != nil {
			return keel.IndexedValue{}, err
		}
	}
	return keel.UnitValue, nil
}

func accountWithdraw(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[ResourceAmountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	var output keel.IndexedValue
	found, err := withVault(api, params.Resource.NodeID(), func(vault keel.NodeID) (err error) {
		output, err = api.CallMethod(vault, "take", keel.MustIndexedValue(AmountArgs{Amount: params.Amount}))
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if !found {
		return keel.IndexedValue{}, fmt.Errorf("%w: no vault for %v", ErrInsufficientFunds, params.Resource.NodeID())
	}
	return output, nil
}

func accountLockFee(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[LockFeeArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	found, err := withVault(api, XRD, func(vault keel.NodeID) error {
		_, err := api.CallMethod(vault, "lock_fee", keel.MustIndexedValue(params))
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if !found {
		return keel.IndexedValue{}, fmt.Errorf("%w: account holds no XRD", ErrInsufficientFunds)
	}
	return keel.UnitValue, nil
}

func accountBalance(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[ResourceArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	output, err := encode(keel.Decimal{})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	_, err = withVault(api, params.Resource.NodeID(), func(vault keel.NodeID) (err error) {
		output, err = api.CallMethod(vault, "amount", keel.UnitValue)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return output, nil
}

func accountCreateProof(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[ResourceAmountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	var output keel.IndexedValue
	found, err := withVault(api, params.Resource.NodeID(), func(vault keel.NodeID) (err error) {
		output, err = api.CallMethod(vault, "create_proof", keel.MustIndexedValue(AmountArgs{Amount: params.Amount}))
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if !found {
		return keel.IndexedValue{}, ErrInsufficientFunds
	}
	return output, nil
}
