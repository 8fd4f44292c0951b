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
	"go.uber.org/zap"
)

// TraceModule logs the invocations and node life cycle of a transaction at
// debug level.
type TraceModule struct {
	BaseModule
	log *zap.Logger
}

func NewTraceModule(log *zap.Logger) *TraceModule {
	if log == nil {
		log = zap.NewNop()
	}
	return &TraceModule{log: log}
}

func (m *TraceModule) Name() string {
	return "trace"
}

func (m *TraceModule) BeforePushFrame(actor keel.Actor, args keel.IndexedValue, api kernel.InternalApi) error {
	m.log.Debug("invoke",
		zap.Int("depth", api.Depth()+1),
		zap.Stringer("actor", actor),
		zap.Bool("direct_access", actor.DirectAccess),
		zap.Int("args_size", args.Len()),
	)
	return nil
}

func (m *TraceModule) OnExecutionFinish(output keel.IndexedValue, api kernel.InternalApi) error {
	m.log.Debug("return",
		zap.Int("depth", api.Depth()),
		zap.Stringer("actor", api.CurrentActor()),
		zap.Int("output_size", output.Len()),
		zap.Int("owned_nodes", len(output.OwnedNodes())),
	)
	return nil
}

func (m *TraceModule) OnCreateNode(event kernel.CreateNodeEvent, api kernel.InternalApi) error {
	m.log.Debug("create node",
		zap.Int("depth", api.Depth()),
		zap.Stringer("node", event.Node),
		zap.Int("partitions", len(event.Substates)+len(event.Moves)),
	)
	return nil
}

func (m *TraceModule) OnDropNode(event kernel.DropNodeEvent, api kernel.InternalApi) error {
	m.log.Debug("drop node",
		zap.Int("depth", api.Depth()),
		zap.Stringer("node", event.Node),
	)
	return nil
}
