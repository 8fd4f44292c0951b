// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kernel

import (
	"testing"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/store"
	"github.com/Fantom-foundation/Keel/go/track"
)

var (
	testPackage = keel.NewNodeID(keel.EntityTypeGlobalPackage, []byte{1})
	unit        = keel.UnitValue
)

func own(id keel.NodeID) keel.IndexedValue {
	return keel.MustIndexedValue(keel.Own(id))
}

func ref(id keel.NodeID) keel.IndexedValue {
	return keel.MustIndexedValue(keel.Reference(id))
}

// fields creates the content of a node with the given values as fields of
// its main partition.
func fields(values ...keel.IndexedValue) keel.NodeSubstates {
	res := keel.NodeSubstates{}
	for i, value := range values {
		res.Set(keel.MainPartition, keel.FieldKey(uint8(i)), value)
	}
	return res
}

func typeInfo(blueprint string) keel.IndexedValue {
	return keel.MustIndexedValue(keel.TypeInfo{Package: testPackage, Blueprint: blueprint})
}

func function(ident string, args keel.IndexedValue) keel.Invocation {
	return keel.Invocation{Package: testPackage, Blueprint: "Test", Ident: ident, Args: args}
}

func newTestKernel(t *testing.T, db keel.SubstateDatabase, callback Callback, references ...keel.NodeID) (*Kernel, *track.Track) {
	t.Helper()
	if db == nil {
		db = store.NewMemory()
	}
	tr := track.New(db, nil)
	config := DefaultConfig()
	config.AlwaysVisible = []keel.NodeID{testPackage}
	kernel := New(config, tr, NewIdAllocator(keel.Hash{1}), callback)
	if err := kernel.Boot(references); err != nil {
		t.Fatalf("failed to boot kernel: %v", err)
	}
	return kernel, tr
}

// newNode allocates and creates an internal node with the given fields.
func newNode(t *testing.T, api keel.KernelApi, entityType keel.EntityType, values ...keel.IndexedValue) keel.NodeID {
	t.Helper()
	id, err := api.AllocateNodeID(entityType)
	if err != nil {
		t.Fatalf("failed to allocate node id: %v", err)
	}
	if err := api.CreateNode(id, fields(values...)); err != nil {
		t.Fatalf("failed to create node: %v", err)
	}
	return id
}

// testCallback is a callback with configurable behavior recording the
// life cycle hooks it observes.
type testCallback struct {
	upstream   func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error)
	autoDrop   func(nodes []keel.NodeID, api InternalApi) error
	virtualize func(address keel.NodeID, api InternalApi) (bool, error)
	onCreate   func(event CreateNodeEvent, api InternalApi) error

	trace    []string
	accesses []track.StoreAccess
}

func (c *testCallback) record(name string) error {
	c.trace = append(c.trace, name)
	return nil
}

func (c *testCallback) OnInit(InternalApi) error     { return nil }
func (c *testCallback) OnTeardown(InternalApi) error { return c.record("teardown") }

func (c *testCallback) BeforePushFrame(actor keel.Actor, _ keel.IndexedValue, _ InternalApi) error {
	return c.record("before_push:" + actor.Ident)
}

func (c *testCallback) OnExecutionStart(InternalApi) error { return c.record("start") }

func (c *testCallback) OnExecutionFinish(keel.IndexedValue, InternalApi) error {
	return c.record("finish")
}

func (c *testCallback) AfterPopFrame(InternalApi) error { return c.record("after_pop") }

func (c *testCallback) OnAllocateNodeID(keel.EntityType, InternalApi) error { return nil }

func (c *testCallback) OnCreateNode(event CreateNodeEvent, api InternalApi) error {
	if c.onCreate != nil {
		return c.onCreate(event, api)
	}
	return nil
}

func (c *testCallback) OnDropNode(DropNodeEvent, InternalApi) error                   { return nil }
func (c *testCallback) OnOpenSubstate(OpenSubstateEvent, InternalApi) error           { return nil }
func (c *testCallback) OnReadSubstate(ReadSubstateEvent, InternalApi) error           { return nil }
func (c *testCallback) OnWriteSubstate(WriteSubstateEvent, InternalApi) error         { return nil }
func (c *testCallback) OnCloseSubstate(CloseSubstateEvent, InternalApi) error         { return nil }
func (c *testCallback) OnSubstateOperation(SubstateOperationEvent, InternalApi) error { return nil }

func (c *testCallback) OnStoreAccess(access track.StoreAccess, _ InternalApi) error {
	c.accesses = append(c.accesses, access)
	return nil
}

func (c *testCallback) Virtualize(address keel.NodeID, api InternalApi) (bool, error) {
	if c.virtualize != nil {
		return c.virtualize(address, api)
	}
	return false, nil
}

func (c *testCallback) InvokeUpstream(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
	c.record("upstream:" + api.CurrentActor().Ident)
	if c.upstream != nil {
		return c.upstream(args, api)
	}
	return args, nil
}

func (c *testCallback) AutoDrop(nodes []keel.NodeID, api InternalApi) error {
	if c.autoDrop != nil {
		return c.autoDrop(nodes, api)
	}
	for _, node := range nodes {
		if _, err := api.DropNode(node); err != nil {
			return err
		}
	}
	return nil
}
