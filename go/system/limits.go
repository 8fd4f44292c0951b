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
)

const (
	DefaultMaxInvokePayloadSize = 1 << 20
	DefaultMaxSubstateSize      = 2 << 20
)

// LimitsModule bounds the size of invocation arguments and substate values.
type LimitsModule struct {
	BaseModule
	MaxInvokePayloadSize int
	MaxSubstateSize      int
}

func NewLimitsModule() *LimitsModule {
	return &LimitsModule{
		MaxInvokePayloadSize: DefaultMaxInvokePayloadSize,
		MaxSubstateSize:      DefaultMaxSubstateSize,
	}
}

func (m *LimitsModule) Name() string {
	return "limits"
}

func (m *LimitsModule) BeforePushFrame(actor keel.Actor, args keel.IndexedValue, _ kernel.InternalApi) error {
	if args.Len() > m.MaxInvokePayloadSize {
		return fmt.Errorf("%w: %d bytes passed to %v", ErrPayloadTooLarge, args.Len(), actor)
	}
	return nil
}

func (m *LimitsModule) OnExecutionFinish(output keel.IndexedValue, _ kernel.InternalApi) error {
	if output.Len() > m.MaxInvokePayloadSize {
		return fmt.Errorf("%w: %d bytes returned", ErrPayloadTooLarge, output.Len())
	}
	return nil
}

func (m *LimitsModule) checkSubstate(node keel.NodeID, size int) error {
	if size > m.MaxSubstateSize {
		return fmt.Errorf("%w: %d bytes in %v", ErrSubstateTooLarge, size, node)
	}
	return nil
}

func (m *LimitsModule) OnCreateNode(event kernel.CreateNodeEvent, _ kernel.InternalApi) error {
	for _, partition := range event.Substates {
		for _, value := range partition {
			if err := m.checkSubstate(event.Node, value.Len()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *LimitsModule) OnWriteSubstate(event kernel.WriteSubstateEvent, _ kernel.InternalApi) error {
	return m.checkSubstate(event.Node, event.Size)
}

func (m *LimitsModule) OnSubstateOperation(event kernel.SubstateOperationEvent, _ kernel.InternalApi) error {
	if event.Kind != kernel.SetSubstateOperation {
		return nil
	}
	return m.checkSubstate(event.Node, event.Size)
}
