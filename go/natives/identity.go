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
)

const IdentityBlueprint = "Identity"

type IdentityOutput struct {
	Identity keel.Reference
}

func identitySubstates(owner keel.PublicKeyHash) (keel.NodeSubstates, error) {
	state, err := encode(IdentityState{Owner: owner})
	if err != nil {
		return nil, err
	}
	return keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo(IdentityPackage, IdentityBlueprint, false, keel.NodeID{})).
		Set(keel.MainPartition, StateKey, state), nil
}

func createIdentity(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	params, err := decodeArgs[CreateAccountArgs](args)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	component, err := api.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	substates, err := identitySubstates(params.Owner)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := api.CreateNode(component, substates); err != nil {
		return keel.IndexedValue{}, err
	}
	identity, err := api.Globalize(keel.EntityTypeGlobalIdentity, component)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(IdentityOutput{Identity: keel.Reference(identity)})
}

func identityOwner(_ keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error) {
	state, err := readState[IdentityState](api, receiver(api), keel.MainPartition, StateKey)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return encode(state.Owner)
}
