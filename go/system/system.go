// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package system connects the kernel to the rest of the ledger. It runs the
// code of actors, offers system services to blueprint code and hosts the
// system modules observing the execution of a transaction.
package system

import (
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/Fantom-foundation/Keel/go/track"
)

// System is the kernel callback of a single transaction.
type System struct {
	txHash   keel.Hash
	executor *Executor
	modules  []Module
	costing  *CostingModule
	events   *EventsModule
}

var _ kernel.Callback = (*System)(nil)

// New creates a system running the given modules in the given order.
func New(txHash keel.Hash, executor *Executor, modules ...Module) *System {
	res := &System{txHash: txHash, executor: executor, modules: modules}
	for _, module := range modules {
		switch m := module.(type) {
		case *CostingModule:
			res.costing = m
		case *EventsModule:
			res.events = m
		}
	}
	return res
}

func (s *System) forEach(run func(Module) error) error {
	for _, module := range s.modules {
		if err := run(module); err != nil {
			return &ModuleError{Module: module.Name(), Err: err}
		}
	}
	return nil
}

func (s *System) OnInit(api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnInit(api) })
}

func (s *System) OnTeardown(api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnTeardown(api) })
}

func (s *System) BeforePushFrame(actor keel.Actor, args keel.IndexedValue, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.BeforePushFrame(actor, args, api) })
}

func (s *System) OnExecutionStart(api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnExecutionStart(api) })
}

func (s *System) OnExecutionFinish(output keel.IndexedValue, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnExecutionFinish(output, api) })
}

func (s *System) AfterPopFrame(api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.AfterPopFrame(api) })
}

func (s *System) OnAllocateNodeID(entityType keel.EntityType, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnAllocateNodeID(entityType, api) })
}

func (s *System) OnCreateNode(event kernel.CreateNodeEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnCreateNode(event, api) })
}

func (s *System) OnDropNode(event kernel.DropNodeEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnDropNode(event, api) })
}

func (s *System) OnOpenSubstate(event kernel.OpenSubstateEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnOpenSubstate(event, api) })
}

func (s *System) OnReadSubstate(event kernel.ReadSubstateEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnReadSubstate(event, api) })
}

func (s *System) OnWriteSubstate(event kernel.WriteSubstateEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnWriteSubstate(event, api) })
}

func (s *System) OnCloseSubstate(event kernel.CloseSubstateEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnCloseSubstate(event, api) })
}

func (s *System) OnSubstateOperation(event kernel.SubstateOperationEvent, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnSubstateOperation(event, api) })
}

func (s *System) OnStoreAccess(access track.StoreAccess, api kernel.InternalApi) error {
	return s.forEach(func(m Module) error { return m.OnStoreAccess(access, api) })
}

func (s *System) Virtualize(address keel.NodeID, api kernel.InternalApi) (bool, error) {
	return natives.Virtualize(address, api)
}

func (s *System) InvokeUpstream(args keel.IndexedValue, api kernel.InternalApi) (keel.IndexedValue, error) {
	return s.executor.Invoke(args, s.service(api))
}

func (s *System) AutoDrop(nodes []keel.NodeID, api kernel.InternalApi) error {
	return natives.AutoDrop(nodes, api)
}

func (s *System) service(api kernel.InternalApi) *Service {
	return &Service{KernelApi: api, internal: api, system: s}
}
