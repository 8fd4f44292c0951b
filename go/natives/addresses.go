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

// wellKnown derives the address of a node created at genesis.
func wellKnown(entityType keel.EntityType, name string) keel.NodeID {
	return keel.NewNodeID(entityType, crypto.Keccak256([]byte("keel:"+name))[:keel.NodeIDLength-1])
}

var (
	ResourcePackage             = wellKnown(keel.EntityTypeGlobalPackage, "resource")
	AccountPackage              = wellKnown(keel.EntityTypeGlobalPackage, "account")
	IdentityPackage             = wellKnown(keel.EntityTypeGlobalPackage, "identity")
	TransactionProcessorPackage = wellKnown(keel.EntityTypeGlobalPackage, "transaction_processor")
	PackagePackage              = wellKnown(keel.EntityTypeGlobalPackage, "package")

	// XRD is the native token all fees are paid in.
	XRD = wellKnown(keel.EntityTypeGlobalFungibleResource, "xrd")
)

// AlwaysVisibleGlobalNodes are visible to every call frame without being
// referenced.
var AlwaysVisibleGlobalNodes = []keel.NodeID{
	ResourcePackage,
	AccountPackage,
	IdentityPackage,
	TransactionProcessorPackage,
	PackagePackage,
	XRD,
}

// VirtualAccountAddress is the address of the account owned by the given
// key. It is materialized on first use.
func VirtualAccountAddress(key keel.PublicKey) keel.NodeID {
	hash := key.Hash()
	if key.Ed25519 {
		return keel.NewNodeID(keel.EntityTypeGlobalVirtualEd25519Account, hash[:])
	}
	return keel.NewNodeID(keel.EntityTypeGlobalVirtualSecp256k1Account, hash[:])
}

// VirtualIdentityAddress is the address of the identity of the given key.
func VirtualIdentityAddress(key keel.PublicKey) keel.NodeID {
	hash := key.Hash()
	if key.Ed25519 {
		return keel.NewNodeID(keel.EntityTypeGlobalVirtualEd25519Identity, hash[:])
	}
	return keel.NewNodeID(keel.EntityTypeGlobalVirtualSecp256k1Identity, hash[:])
}

// ownerOf recovers the key hash a virtual address was derived from.
func ownerOf(address keel.NodeID) keel.PublicKeyHash {
	var res keel.PublicKeyHash
	copy(res[:], address[1:])
	return res
}
