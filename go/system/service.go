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

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/ethereum/go-ethereum/crypto"
)

// Service is the ClientApi offered to the code of an actor.
type Service struct {
	keel.KernelApi
	internal kernel.InternalApi
	system   *System
}

var _ keel.ClientApi = (*Service)(nil)

func (s *Service) CallFunction(pkg keel.NodeID, blueprint string, ident string, args keel.IndexedValue) (keel.IndexedValue, error) {
	return s.Invoke(keel.Invocation{Package: pkg, Blueprint: blueprint, Ident: ident, Args: args})
}

func (s *Service) CallMethod(receiver keel.NodeID, ident string, args keel.IndexedValue) (keel.IndexedValue, error) {
	return s.Invoke(keel.Invocation{Receiver: receiver, Ident: ident, Args: args})
}

func (s *Service) CallDirectAccessMethod(receiver keel.NodeID, ident string, args keel.IndexedValue) (keel.IndexedValue, error) {
	return s.Invoke(keel.Invocation{Receiver: receiver, DirectAccess: true, Ident: ident, Args: args})
}

// Globalize moves an owned component node behind a new global address of
// the given type.
func (s *Service) Globalize(entityType keel.EntityType, underlying keel.NodeID) (keel.NodeID, error) {
	if !entityType.IsGlobalComponent() || entityType.IsGlobalVirtual() {
		return keel.NodeID{}, fmt.Errorf("%w: invalid entity type %v", ErrNotGlobalizable, entityType)
	}
	handle, err := s.OpenSubstate(underlying, keel.TypeInfoPartition, keel.TypeInfoKey, 0)
	if err != nil {
		return keel.NodeID{}, err
	}
	value, err := s.ReadSubstate(handle)
	if err != nil {
		s.CloseSubstate(handle)
		return keel.NodeID{}, err
	}
	if err := s.CloseSubstate(handle); err != nil {
		return keel.NodeID{}, err
	}
	var info keel.TypeInfo
	if err := value.Decode(&info); err != nil {
		return keel.NodeID{}, fmt.Errorf("%w: %w", ErrNotGlobalizable, err)
	}
	if info.Global || underlying.IsGlobal() {
		return keel.NodeID{}, fmt.Errorf("%w: %v is already global", ErrNotGlobalizable, underlying)
	}

	address, err := s.AllocateNodeID(entityType)
	if err != nil {
		return keel.NodeID{}, err
	}
	global, err := keel.NewIndexedValue(keel.GlobalSubstate{Underlying: keel.Own(underlying)})
	if err != nil {
		return keel.NodeID{}, err
	}
	err = s.CreateNode(address, keel.NodeSubstates{}.
		Set(keel.TypeInfoPartition, keel.TypeInfoKey, keel.MustIndexedValue(keel.TypeInfo{
			Package:   info.Package,
			Blueprint: info.Blueprint,
			Global:    true,
		})).
		Set(keel.GlobalPartition, keel.GlobalKey, global))
	if err != nil {
		return keel.NodeID{}, err
	}
	return address, nil
}

// LockFee records a fee payment. Only vaults may lock fees, and only from
// themselves.
func (s *Service) LockFee(vault keel.NodeID, amount keel.Decimal, contingent bool) error {
	actor := s.CurrentActor()
	if actor.Package != natives.ResourcePackage || actor.Blueprint != natives.VaultBlueprint || actor.Receiver != vault {
		return ErrInvalidFeeLock
	}
	if s.system.costing == nil {
		return fmt.Errorf("%w: no fee reserve", ErrInvalidFeeLock)
	}
	return s.system.costing.LockFee(vault, amount, contingent)
}

func (s *Service) ConsumeCostUnits(units uint32) error {
	if s.system.costing == nil {
		return nil
	}
	return s.system.costing.ConsumeExecution(units)
}

// EmitEvent records an event on behalf of the current actor. Events can not
// own nodes.
func (s *Service) EmitEvent(name string, data keel.IndexedValue) error {
	if len(data.OwnedNodes()) > 0 {
		return fmt.Errorf("events can not own nodes: %v", data.OwnedNodes())
	}
	if s.system.events == nil {
		return nil
	}
	actor := s.CurrentActor()
	emitter := actor.Package
	if actor.Global != (keel.NodeID{}) {
		emitter = actor.Global
	} else if actor.IsMethod() {
		emitter = actor.Receiver
	}
	return s.system.events.Emit(keel.Event{Emitter: emitter, Name: name, Data: data})
}

// Keccak256Hash hashes the given data. The hashing is charged by its size.
func (s *Service) Keccak256Hash(data []byte) (keel.Hash, error) {
	if s.system.costing != nil {
		if err := s.system.costing.ConsumeHash(len(data)); err != nil {
			return keel.Hash{}, &ModuleError{Module: s.system.costing.Name(), Err: err}
		}
	}
	return keel.Hash(crypto.Keccak256Hash(data)), nil
}

func (s *Service) TransactionHash() keel.Hash {
	return s.system.txHash
}
