// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package natives implements the blueprints built into the ledger: fungible
// resources with their vaults, buckets and proofs, accounts, identities,
// package publishing and the transaction processor.
package natives

import (
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// NativeFunction is the implementation of a native export. Methods find
// their receiver in the current actor.
type NativeFunction func(args keel.IndexedValue, api keel.ClientApi) (keel.IndexedValue, error)

type export struct {
	pkg       keel.NodeID
	blueprint string
	ident     string
}

var exports = map[export]NativeFunction{
	{ResourcePackage, ResourceManagerBlueprint, "create"}:              createResource,
	{ResourcePackage, ResourceManagerBlueprint, "mint"}:                mint,
	{ResourcePackage, ResourceManagerBlueprint, "burn"}:                burn,
	{ResourcePackage, ResourceManagerBlueprint, "total_supply"}:        totalSupply,
	{ResourcePackage, ResourceManagerBlueprint, "create_empty_bucket"}: createEmptyBucket,
	{ResourcePackage, ResourceManagerBlueprint, "create_empty_vault"}:  createEmptyVault,

	{ResourcePackage, VaultBlueprint, "take"}:         vaultTake,
	{ResourcePackage, VaultBlueprint, "put"}:          vaultPut,
	{ResourcePackage, VaultBlueprint, "amount"}:       vaultAmount,
	{ResourcePackage, VaultBlueprint, "lock_fee"}:     vaultLockFee,
	{ResourcePackage, VaultBlueprint, "create_proof"}: vaultCreateProof,
	{ResourcePackage, VaultBlueprint, "recall"}:       vaultRecall,

	{ResourcePackage, BucketBlueprint, "amount"}: bucketAmount,
	{ResourcePackage, ProofBlueprint, "amount"}:  proofAmount,

	{AccountPackage, AccountBlueprint, "create"}:        createAccount,
	{AccountPackage, AccountBlueprint, "deposit"}:       accountDeposit,
	{AccountPackage, AccountBlueprint, "deposit_batch"}: accountDepositBatch,
	{AccountPackage, AccountBlueprint, "withdraw"}:      accountWithdraw,
	{AccountPackage, AccountBlueprint, "lock_fee"}:      accountLockFee,
	{AccountPackage, AccountBlueprint, "balance"}:       accountBalance,
	{AccountPackage, AccountBlueprint, "create_proof"}:  accountCreateProof,

	{IdentityPackage, IdentityBlueprint, "create"}: createIdentity,
	{IdentityPackage, IdentityBlueprint, "owner"}:  identityOwner,

	{PackagePackage, PackageBlueprint, "publish"}: publish,

	{TransactionProcessorPackage, TransactionProcessorBlueprint, RunIdent}: runTransaction,
	{TransactionProcessorPackage, WorktopBlueprint, "put"}:                 worktopPut,
	{TransactionProcessorPackage, WorktopBlueprint, "take_all"}:            worktopTakeAll,
	{TransactionProcessorPackage, WorktopBlueprint, "drain"}:               worktopDrain,
	{TransactionProcessorPackage, WorktopBlueprint, "assert_contains"}:     worktopAssertContains,
}

var nativePackages = []keel.NodeID{
	ResourcePackage,
	AccountPackage,
	IdentityPackage,
	TransactionProcessorPackage,
	PackagePackage,
}

// IsNativePackage reports whether the code of the given package is built in.
func IsNativePackage(pkg keel.NodeID) bool {
	return slices.Contains(nativePackages, pkg)
}

// Lookup finds the native implementation of an export.
func Lookup(pkg keel.NodeID, blueprint, ident string) (NativeFunction, bool) {
	function, found := exports[export{pkg, blueprint, ident}]
	return function, found
}
