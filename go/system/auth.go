// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package system

import (
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
)

// AuthModule enforces the access rules of native blueprints:
//   - withdrawals from accounts and proofs of their content need the
//     signature of the account's owner,
//   - minting needs the signature of the resource's owner,
//   - direct access is limited to recalling from vaults, which needs the
//     signature of the owner of the vault's resource.
type AuthModule struct {
	BaseModule
	signers []keel.PublicKeyHash
}

func NewAuthModule(signers []keel.PublicKey) *AuthModule {
	hashes := make([]keel.PublicKeyHash, 0, len(signers))
	for _, signer := range signers {
		hashes = append(hashes, signer.Hash())
	}
	return &AuthModule{signers: hashes}
}

func (m *AuthModule) Name() string {
	return "auth"
}

func (m *AuthModule) BeforePushFrame(actor keel.Actor, _ keel.IndexedValue, api kernel.InternalApi) error {
	isRecall := actor.Package == natives.ResourcePackage &&
		actor.Blueprint == natives.VaultBlueprint &&
		actor.Ident == "recall"
	if actor.DirectAccess != isRecall {
		return fmt.Errorf("%w: %v requires direct access: %t", ErrUnauthorized, actor, isRecall)
	}

	switch {
	case isRecall:
		vault, err := peekState[natives.VaultState](api, actor.Receiver)
		if err != nil {
			return err
		}
		resource, err := peekState[natives.ResourceManagerState](api, vault.Resource.NodeID())
		if err != nil {
			return err
		}
		return m.requireSigner(actor, resource.Owner)

	case actor.Package == natives.AccountPackage && actor.Blueprint == natives.AccountBlueprint:
		switch actor.Ident {
		case "withdraw", "lock_fee", "create_proof":
			account, err := peekState[natives.AccountState](api, actor.Receiver)
			if err != nil {
				return err
			}
			return m.requireSigner(actor, account.Owner)
		}

	case actor.Package == natives.ResourcePackage && actor.Blueprint == natives.ResourceManagerBlueprint && actor.Ident == "mint":
		resource, err := peekState[natives.ResourceManagerState](api, actor.Receiver)
		if err != nil {
			return err
		}
		return m.requireSigner(actor, resource.Owner)
	}
	return nil
}

func (m *AuthModule) requireSigner(actor keel.Actor, owner keel.PublicKeyHash) error {
	if !slices.Contains(m.signers, owner) {
		return fmt.Errorf("%w: %v requires a signature of %x", ErrUnauthorized, actor, owner)
	}
	return nil
}

func peekState[T any](api kernel.InternalApi, node keel.NodeID) (T, error) {
	var res T
	value, found, err := api.PeekSubstate(node, keel.MainPartition, natives.StateKey)
	if err != nil {
		return res, err
	}
	if !found {
		return res, fmt.Errorf("%w: no state for %v", natives.ErrCorruptedState, node)
	}
	if err := value.Decode(&res); err != nil {
		return res, fmt.Errorf("%w: %w", natives.ErrCorruptedState, err)
	}
	return res, nil
}
