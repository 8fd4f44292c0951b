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
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/track"
)

// Module is a system extension observing kernel operations. Modules are
// invoked in registration order; the first failing module aborts the
// operation.
type Module interface {
	Name() string

	OnInit(api kernel.InternalApi) error
	OnTeardown(api kernel.InternalApi) error

	BeforePushFrame(actor keel.Actor, args keel.IndexedValue, api kernel.InternalApi) error
	OnExecutionStart(api kernel.InternalApi) error
	OnExecutionFinish(output keel.IndexedValue, api kernel.InternalApi) error
	AfterPopFrame(api kernel.InternalApi) error

	OnAllocateNodeID(entityType keel.EntityType, api kernel.InternalApi) error
	OnCreateNode(event kernel.CreateNodeEvent, api kernel.InternalApi) error
	OnDropNode(event kernel.DropNodeEvent, api kernel.InternalApi) error
	OnOpenSubstate(event kernel.OpenSubstateEvent, api kernel.InternalApi) error
	OnReadSubstate(event kernel.ReadSubstateEvent, api kernel.InternalApi) error
	OnWriteSubstate(event kernel.WriteSubstateEvent, api kernel.InternalApi) error
	OnCloseSubstate(event kernel.CloseSubstateEvent, api kernel.InternalApi) error
	OnSubstateOperation(event kernel.SubstateOperationEvent, api kernel.InternalApi) error
	OnStoreAccess(access track.StoreAccess, api kernel.InternalApi) error
}

// BaseModule implements all hooks of a Module as no-ops. Modules embed it
// and override the hooks they are interested in.
type BaseModule struct{}

func (BaseModule) OnInit(kernel.InternalApi) error { return nil }
func (BaseModule) OnTeardown(kernel.InternalApi) error { return nil }

func (BaseModule) BeforePushFrame(keel.Actor, keel.IndexedValue, kernel.InternalApi) error {
	return nil
}
func (BaseModule) OnExecutionStart(kernel.InternalApi) error { return nil }
func (BaseModule) OnExecutionFinish(keel.IndexedValue, kernel.InternalApi) error { return nil }
func (BaseModule) AfterPopFrame(kernel.InternalApi) error { return nil }
func (BaseModule) OnAllocateNodeID(keel.EntityType, kernel.InternalApi) error { return nil }
func (BaseModule) OnCreateNode(kernel.CreateNodeEvent, kernel.InternalApi) error { return nil }
func (BaseModule) OnDropNode(kernel.DropNodeEvent, kernel.InternalApi) error { return nil }
func (BaseModule) OnOpenSubstate(kernel.OpenSubstateEvent, kernel.InternalApi) error { return nil }
func (BaseModule) OnReadSubstate(kernel.ReadSubstateEvent, kernel.InternalApi) error { return nil }
func (BaseModule) OnWriteSubstate(kernel.WriteSubstateEvent, kernel.InternalApi) error {
	return nil
}
func (BaseModule) OnCloseSubstate(kernel.CloseSubstateEvent, kernel.InternalApi) error {
	return nil
}
func (BaseModule) OnSubstateOperation(kernel.SubstateOperationEvent, kernel.InternalApi) error {
	return nil
}
func (BaseModule) OnStoreAccess(track.StoreAccess, kernel.InternalApi) error { return nil }
