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
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/ethereum/go-ethereum/crypto"
)

// virtualComponent is the id of the component node behind a virtual global
// address. It only depends on the address, so the materialized state is the
// same no matter when the address is first used.
func virtualComponent(address keel.NodeID) keel.NodeID {
	return keel.NewNodeID(keel.EntityTypeInternalGenericComponent, crypto.Keccak256(address[:])[:keel.NodeIDLength-1])
}

// Virtualize materializes the node behind a virtual account or identity
// address. It reports false for addresses of other types.
func Virtualize(address keel.NodeID, api keel.KernelApi) (bool, error) {
	var pkg keel.NodeID
	var blueprint string
	var substates keel.NodeSubstates
	var err error
	switch address.EntityType() {
	case keel.EntityTypeGlobalVirtualSecp256k1Account, keel.EntityTypeGlobalVirtualEd25519Account:
		pkg, blueprint = AccountPackage, AccountBlueprint
		substates, err = accountSubstates(ownerOf(address))
	case keel.EntityTypeGlobalVirtualSecp256k1Identity, keel.EntityTypeGlobalVirtualEd25519Identity:
		pkg, blueprint = IdentityPackage, IdentityBlueprint
		substates, err = identitySubstates(ownerOf(address))
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	component := virtualComponent(address)
	if err := api.CreateNode(component, substates); err != nil {
		return false, err
	}
	if err := api.CreateNode(address, globalSubstates(pkg, blueprint, component)); err != nil {
		return false, err
	}
	return true, nil
}
