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
	"math"

	"github.com/Fantom-foundation/Keel/go/fees"
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/Fantom-foundation/Keel/go/track"
)

// CostTable lists the cost units charged for kernel operations. Per byte
// costs are charged on top of the base cost of an operation.
type CostTable struct {
	TxBase           uint32
	TxPayloadPerByte uint32
	TxSignature      uint32

	Invoke            uint32
	InvokePerByte     uint32
	AllocateNodeID    uint32
	CreateNode        uint32
	CreateNodePerByte uint32
	DropNode          uint32

	OpenSubstate      uint32
	ReadSubstate      uint32
	ReadPerByte       uint32
	WriteSubstate     uint32
	WritePerByte      uint32
	CloseSubstate     uint32
	SubstateOperation uint32
	OperationPerByte  uint32

	ReadFromDb         uint32
	ReadFromDbPerByte  uint32
	ReadFromDbNotFound uint32
	NewEntryInTrack    uint32

	Keccak256Hash    uint32
	Keccak256PerByte uint32
}

func DefaultCostTable() CostTable {
	return CostTable{
		TxBase:           50_000,
		TxPayloadPerByte: 5,
		TxSignature:      7_000,

		Invoke:            2_000,
		InvokePerByte:     1,
		AllocateNodeID:    100,
		CreateNode:        1_000,
		CreateNodePerByte: 1,
		DropNode:          1_000,

		OpenSubstate:      500,
		ReadSubstate:      100,
		ReadPerByte:       1,
		WriteSubstate:     200,
		WritePerByte:      1,
		CloseSubstate:     100,
		SubstateOperation: 500,
		OperationPerByte:  1,

		ReadFromDb:         5_000,
		ReadFromDbPerByte:  1,
		ReadFromDbNotFound: 5_000,
		NewEntryInTrack:    500,

		Keccak256Hash:    500,
		Keccak256PerByte: 2,
	}
}

// cost computes base + perByte * size, saturating at the largest number of
// cost units.
func cost(base, perByte uint32, size int) uint32 {
	res := uint64(base) + uint64(perByte)*uint64(max(size, 0))
	if res > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(res)
}

// CostingModule charges kernel operations and royalties to the fee reserve
// of the transaction.
type CostingModule struct {
	BaseModule
	reserve     *fees.SystemLoanFeeReserve
	table       CostTable
	payloadSize int
	signatures  int
}

// NewCostingModule creates a costing module for a transaction of the given
// payload size and number of signatures. Both are charged on initialization
// and paid with the loan repayment.
func NewCostingModule(reserve *fees.SystemLoanFeeReserve, table CostTable, payloadSize, signatures int) *CostingModule {
	return &CostingModule{
		reserve:     reserve,
		table:       table,
		payloadSize: payloadSize,
		signatures:  signatures,
	}
}

func (m *CostingModule) Name() string {
	return "costing"
}

func (m *CostingModule) Reserve() *fees.SystemLoanFeeReserve {
	return m.reserve
}

func (m *CostingModule) ConsumeExecution(units uint32) error {
	return m.reserve.ConsumeExecution(units)
}

// ConsumeHash charges the hashing of the given number of bytes.
func (m *CostingModule) ConsumeHash(size int) error {
	return m.reserve.ConsumeExecution(cost(m.table.Keccak256Hash, m.table.Keccak256PerByte, size))
}

func (m *CostingModule) LockFee(vault keel.NodeID, amount keel.Decimal, contingent bool) error {
	return m.reserve.LockFee(vault, amount, contingent)
}

func (m *CostingModule) OnInit(kernel.InternalApi) error {
	units := uint64(cost(m.table.TxBase, m.table.TxPayloadPerByte, m.payloadSize)) +
		uint64(m.table.TxSignature)*uint64(m.signatures)
	if units > math.MaxUint32 {
		return fees.ErrOverflow
	}
	return m.reserve.ConsumeDeferred(uint32(units))
}

func (m *CostingModule) BeforePushFrame(actor keel.Actor, args keel.IndexedValue, api kernel.InternalApi) error {
	if err := m.reserve.ConsumeExecution(cost(m.table.Invoke, m.table.InvokePerByte, args.Len())); err != nil {
		return err
	}
	if natives.IsNativePackage(actor.Package) {
		return nil
	}
	err := m.chargeRoyalty(api, actor.Package, natives.RoyaltyKey(actor.Blueprint, actor.Ident), keel.RoyaltyToPackage)
	if err != nil {
		return err
	}
	if actor.Global != (keel.NodeID{}) {
		return m.chargeRoyalty(api, actor.Global, natives.RoyaltyKey("", actor.Ident), keel.RoyaltyToComponent)
	}
	return nil
}

func (m *CostingModule) chargeRoyalty(api kernel.InternalApi, node keel.NodeID, key keel.SubstateKey, kind keel.RoyaltyRecipientKind) error {
	value, found, err := api.PeekSubstate(node, keel.RoyaltyPartition, key)
	if err != nil || !found {
		return err
	}
	var amount keel.RoyaltyAmount
	if err := value.Decode(&amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoyaltyValue, err)
	}
	return m.reserve.ConsumeRoyalty(amount, keel.RoyaltyRecipient{Kind: kind, Address: node})
}

func (m *CostingModule) OnAllocateNodeID(keel.EntityType, kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(m.table.AllocateNodeID)
}

func (m *CostingModule) OnCreateNode(event kernel.CreateNodeEvent, _ kernel.InternalApi) error {
	size := 0
	for _, partition := range event.Substates {
		for _, value := range partition {
			size += value.Len()
		}
	}
	return m.reserve.ConsumeExecution(cost(m.table.CreateNode, m.table.CreateNodePerByte, size))
}

func (m *CostingModule) OnDropNode(kernel.DropNodeEvent, kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(m.table.DropNode)
}

func (m *CostingModule) OnOpenSubstate(event kernel.OpenSubstateEvent, _ kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(cost(m.table.OpenSubstate, m.table.ReadPerByte, event.Size))
}

func (m *CostingModule) OnReadSubstate(event kernel.ReadSubstateEvent, _ kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(cost(m.table.ReadSubstate, m.table.ReadPerByte, event.Size))
}

func (m *CostingModule) OnWriteSubstate(event kernel.WriteSubstateEvent, _ kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(cost(m.table.WriteSubstate, m.table.WritePerByte, event.Size))
}

func (m *CostingModule) OnCloseSubstate(kernel.CloseSubstateEvent, kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(m.table.CloseSubstate)
}

func (m *CostingModule) OnSubstateOperation(event kernel.SubstateOperationEvent, _ kernel.InternalApi) error {
	return m.reserve.ConsumeExecution(cost(m.table.SubstateOperation, m.table.OperationPerByte, event.Size))
}

func (m *CostingModule) OnStoreAccess(access track.StoreAccess, _ kernel.InternalApi) error {
	switch access.Kind {
	case track.ReadFromDb:
		return m.reserve.ConsumeExecution(cost(m.table.ReadFromDb, m.table.ReadFromDbPerByte, access.Size))
	case track.ReadFromDbNotFound:
		return m.reserve.ConsumeExecution(m.table.ReadFromDbNotFound)
	case track.NewEntryInTrack:
		return m.reserve.ConsumeExecution(m.table.NewEntryInTrack)
	}
	return nil
}
