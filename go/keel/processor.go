// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package keel

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

//go:generate mockgen -source processor.go -destination processor_mock.go -package keel

// Processor is an interface for a component capable of executing
// transactions against the substate database it was created for.
type Processor interface {
	// Execute runs the given transaction. Failures of the transaction itself
	// are reported through the receipt; the error result is reserved for
	// failures of the underlying infrastructure.
	Execute(Transaction) (Receipt, error)

	// Commit persists the state changes of the given receipt.
	Commit(Receipt) error
}

// PublicKeyHash identifies the owner of a public key in substates.
type PublicKeyHash [29]byte

// PublicKey is the public key of a transaction signer.
type PublicKey struct {
	Ed25519 bool
	Key     []byte
}

func (k PublicKey) Hash() PublicKeyHash {
	var res PublicKeyHash
	copy(res[:], crypto.Keccak256(k.Key)[32-len(res):])
	return res
}

// InstructionKind enumerates the steps a transaction can be composed of.
type InstructionKind uint8

const (
	InstructionCallFunction InstructionKind = iota
	InstructionCallMethod
	// InstructionCallMethodWithAllResources drains the worktop and passes all
	// buckets to the named method.
	InstructionCallMethodWithAllResources
	// InstructionAssertWorktopContains fails the transaction if the worktop
	// holds less than Amount of the resource at Address.
	InstructionAssertWorktopContains
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionCallFunction:
		return "CallFunction"
	case InstructionCallMethod:
		return "CallMethod"
	case InstructionCallMethodWithAllResources:
		return "CallMethodWithAllResources"
	case InstructionAssertWorktopContains:
		return "AssertWorktopContains"
	}
	return fmt.Sprintf("InstructionKind(%d)", uint8(k))
}

// Instruction is a single step of a transaction.
type Instruction struct {
	Kind      InstructionKind
	Address   NodeID // the package, component or resource addressed
	Blueprint string
	Ident     string
	Args      IndexedValue
	Amount    Decimal
}

func CallFunction(pkg NodeID, blueprint, ident string, args IndexedValue) Instruction {
	return Instruction{Kind: InstructionCallFunction, Address: pkg, Blueprint: blueprint, Ident: ident, Args: args}
}

func CallMethod(receiver NodeID, ident string, args IndexedValue) Instruction {
	return Instruction{Kind: InstructionCallMethod, Address: receiver, Ident: ident, Args: args}
}

func CallMethodWithAllResources(receiver NodeID, ident string) Instruction {
	return Instruction{Kind: InstructionCallMethodWithAllResources, Address: receiver, Ident: ident}
}

func AssertWorktopContains(resource NodeID, amount Decimal) Instruction {
	return Instruction{Kind: InstructionAssertWorktopContains, Address: resource, Amount: amount}
}

// Transaction summarizes the parameters of a transaction to be executed.
type Transaction struct {
	Nonce         uint64
	Signers       []PublicKey
	Instructions  []Instruction
	CostUnitLimit uint32 // zero selects the processor's default limit
	TipPercentage uint16
}

// Hash computes the identity of the transaction. It seeds the allocation
// of new node ids.
func (t *Transaction) Hash() (Hash, error) {
	data, err := rlp.EncodeToBytes(t)
	if err != nil {
		return Hash{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return Hash(crypto.Keccak256Hash(data)), nil
}

// References lists the global nodes addressed by the transaction in
// instruction order, without duplicates.
func (t *Transaction) References() []NodeID {
	seen := map[NodeID]struct{}{}
	res := []NodeID{}
	add := func(id NodeID) {
		if _, found := seen[id]; found || !id.IsGlobal() {
			return
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	for _, instruction := range t.Instructions {
		add(instruction.Address)
		for _, ref := range instruction.Args.References() {
			add(ref)
		}
	}
	return res
}

// Outcome classifies the result of a transaction.
type Outcome uint8

const (
	// OutcomeCommitSuccess: the transaction succeeded, all state changes
	// and fees are committed.
	OutcomeCommitSuccess Outcome = iota
	// OutcomeCommitFailure: the transaction failed after its fees were
	// secured, only fee payments are committed.
	OutcomeCommitFailure
	// OutcomeReject: the transaction failed before its fees were secured,
	// nothing is committed.
	OutcomeReject
	// OutcomeAbort: the execution was stopped on purpose, nothing is
	// committed.
	OutcomeAbort
)

func (o Outcome) IsCommit() bool {
	return o == OutcomeCommitSuccess || o == OutcomeCommitFailure
}

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitSuccess:
		return "CommitSuccess"
	case OutcomeCommitFailure:
		return "CommitFailure"
	case OutcomeReject:
		return "Reject"
	case OutcomeAbort:
		return "Abort"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Event is an event emitted by blueprint code.
type Event struct {
	Emitter NodeID // the emitting node, the package for functions
	Name    string
	Data    IndexedValue
}

// Receipt summarizes the result of the execution of a transaction.
type Receipt struct {
	Outcome Outcome
	Error   error          // the reason for a failed, rejected or aborted transaction
	Outputs []IndexedValue // the results of the individual instructions
	Fees    FeeSummary
	Events  []Event
	// NewGlobalNodes lists the global nodes created by the transaction.
	NewGlobalNodes []NodeID
	// Updates are the state changes to be committed, nil for uncommitted
	// outcomes.
	Updates *DatabaseUpdates
}

// RoyaltyRecipientKind distinguishes the receivers of royalties.
type RoyaltyRecipientKind uint8

const (
	RoyaltyToPackage RoyaltyRecipientKind = iota
	RoyaltyToComponent
)

// RoyaltyRecipient identifies the receiver of a royalty payment.
type RoyaltyRecipient struct {
	Kind    RoyaltyRecipientKind
	Address NodeID
}

func CompareRoyaltyRecipients(a, b RoyaltyRecipient) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	return CompareNodeIDs(a.Address, b.Address)
}

// RoyaltyAmountKind names the currency a royalty is denominated in.
type RoyaltyAmountKind uint8

const (
	RoyaltyFree RoyaltyAmountKind = iota
	RoyaltyInXrd
	RoyaltyInUsd // converted at the USD price of the transaction
)

// RoyaltyAmount is the royalty charged for an invocation.
type RoyaltyAmount struct {
	Kind   RoyaltyAmountKind
	Amount Decimal
}

func XrdRoyalty(amount Decimal) RoyaltyAmount {
	return RoyaltyAmount{Kind: RoyaltyInXrd, Amount: amount}
}

func UsdRoyalty(amount Decimal) RoyaltyAmount {
	return RoyaltyAmount{Kind: RoyaltyInUsd, Amount: amount}
}

func (a RoyaltyAmount) IsZero() bool {
	return a.Kind == RoyaltyFree || a.Amount.IsZero()
}

// RoyaltyCost is the royalty accumulated for a recipient.
type RoyaltyCost struct {
	Recipient RoyaltyRecipient
	Amount    Decimal
}

// LockedFee is a fee payment taken from a vault.
type LockedFee struct {
	Vault      NodeID
	Amount     Decimal
	Contingent bool
}

// FeeSummary is the immutable result of the fee accounting of a transaction.
type FeeSummary struct {
	CostUnitLimit uint32
	CostUnitPrice Decimal
	UsdPrice      Decimal
	StoragePrice  Decimal
	TipPercentage uint16

	TotalExecutionCostUnitsConsumed uint32
	TotalExecutionCost              Decimal
	TotalTippingCost                Decimal
	TotalRoyaltyCost                Decimal
	TotalStorageCost                Decimal
	TotalBadDebt                    Decimal

	// The distribution of execution, tipping and storage costs.
	ToProposer     Decimal
	ToValidatorSet Decimal
	ToBurn         Decimal

	LockedFees           []LockedFee
	RoyaltyCostBreakdown []RoyaltyCost // ordered by recipient
}

func (s *FeeSummary) LoanFullyRepaid() bool {
	return s.TotalBadDebt.IsZero()
}

// TotalCost is the amount to be paid by the fee payers.
func (s *FeeSummary) TotalCost() (Decimal, error) {
	res := s.TotalExecutionCost
	for _, cost := range []Decimal{s.TotalTippingCost, s.TotalRoyaltyCost, s.TotalStorageCost} {
		var err error
		if res, err = res.Add(cost); err != nil {
			return Decimal{}, err
		}
	}
	return res, nil
}
