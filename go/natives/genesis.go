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
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
	"golang.org/x/exp/maps"
)

// GenesisVault is the vault holding the initial XRD supply.
var GenesisVault = wellKnown(keel.EntityTypeInternalFungibleVault, "genesis_vault")

// Genesis produces the initial state of a ledger: the native packages, the
// XRD resource and the virtual account of the given owner holding the full
// initial supply.
func Genesis(owner keel.PublicKey, supply keel.Decimal) (*keel.DatabaseUpdates, error) {
	if err := checkAmount(supply); err != nil {
		return nil, err
	}
	ownerHash := owner.Hash()
	nodes := map[keel.NodeID]keel.NodeSubstates{}
	for _, pkg := range []keel.NodeID{ResourcePackage, AccountPackage, IdentityPackage, TransactionProcessorPackage, PackagePackage} {
		nodes[pkg] = keel.NodeSubstates{}.
			Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(PackagePackage, PackageBlueprint, true, keel.NodeID{}))
	}

	xrd, err := encode(ResourceManagerState{TotalSupply: supply, Owner: ownerHash})
	if err != nil {
		return nil, err
	}
	nodes[XRD] = keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(ResourcePackage, ResourceManagerBlueprint, true, keel.NodeID{})).
		Set(keel.MainPartition, StateKey, xrd)

	vault, err := encode(VaultState{Resource: keel.Reference(XRD), Amount: supply})
	if err != nil {
		return nil, err
	}
	nodes[GenesisVault] = keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(ResourcePackage, VaultBlueprint, false, XRD)).
		Set(keel.MainPartition, StateKey, vault)

	account := VirtualAccountAddress(owner)
	component := virtualComponent(account)
	substates, err := accountSubstates(ownerHash)
	if err != nil {
		return nil, err
	}
	entry, err := encode(AccountVault{Vault: keel.Own(GenesisVault)})
	if err != nil {
		return nil, err
	}
	nodes[component] = substates.Set(VaultsPartition, vaultKey(XRD), entry)
	nodes[account] = globalSubstates(AccountPackage, AccountBlueprint, component)

	res := &keel.DatabaseUpdates{}
	ids := maps.Keys(nodes)
	slices.SortFunc(ids, keel.CompareNodeIDs)
	for _, id := range ids {
		partitions := maps.Keys(nodes[id])
		slices.Sort(partitions)
		for _, partition := range partitions {
			keys := maps.Keys(nodes[id][partition])
			slices.SortFunc(keys, keel.CompareSubstateKeys)
			for _, key := range keys {
				res.Set(id, partition, key, nodes[id][partition][key].Bytes())
			}
		}
	}
	return res, nil
}
