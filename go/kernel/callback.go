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
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/track"
)

//go:generate mockgen -source callback.go -destination callback_mock.go -package kernel

// InternalApi is the view of the kernel offered to callback hooks.
type InternalApi interface {
	keel.KernelApi

	// Depth is the depth of the current call frame, 0 for the root frame.
	Depth() int

	Mode() ExecutionMode

	// PeekSubstate reads a substate without locking it or checking its
	// visibility.
	PeekSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool, error)

	// OwnedNodes lists the root nodes owned by the current frame.
	OwnedNodes() []keel.NodeID
}

// Callback is the set of hooks through which the system layer above the
// kernel observes and extends kernel operations. Every hook may fail,
// aborting the operation that triggered it.
type Callback interface {
	OnInit(api InternalApi) error
	OnTeardown(api InternalApi) error

	// BeforePushFrame runs before the frame of an invocation is pushed. The
	// actor is resolved but the arguments are still owned by the caller.
	BeforePushFrame(actor keel.Actor, args keel.IndexedValue, api InternalApi) error
	OnExecutionStart(api InternalApi) error
	OnExecutionFinish(output keel.IndexedValue, api InternalApi) error
	AfterPopFrame(api InternalApi) error

	OnAllocateNodeID(entityType keel.EntityType, api InternalApi) error
	OnCreateNode(event CreateNodeEvent, api InternalApi) error
	OnDropNode(event DropNodeEvent, api InternalApi) error
	OnOpenSubstate(event OpenSubstateEvent, api InternalApi) error
	OnReadSubstate(event ReadSubstateEvent, api InternalApi) error
	OnWriteSubstate(event WriteSubstateEvent, api InternalApi) error
	OnCloseSubstate(event CloseSubstateEvent, api InternalApi) error
	OnSubstateOperation(event SubstateOperationEvent, api InternalApi) error
	OnStoreAccess(access track.StoreAccess, api InternalApi) error

	// Virtualize is called when a virtual global address is invoked that has
	// no node yet. It creates the node and reports whether the address could
	// be virtualized.
	Virtualize(address keel.NodeID, api InternalApi) (bool, error)

	// InvokeUpstream runs the code of the current actor.
	InvokeUpstream(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error)

	// AutoDrop disposes of the given nodes left behind by a returning frame.
	AutoDrop(nodes []keel.NodeID, api InternalApi) error
}

type CreateNodeEvent struct {
	Node      keel.NodeID
	Substates keel.NodeSubstates
	// Moves is set for nodes created from partitions of other nodes.
	Moves []keel.PartitionMove
}

type DropNodeEvent struct {
	Node      keel.NodeID
	Substates keel.NodeSubstates
}

type OpenSubstateEvent struct {
	Node      keel.NodeID
	Partition keel.PartitionNumber
	Key       keel.SubstateKey
	Flags     keel.LockFlags
	Handle    keel.LockHandle
	Size      int
}

type ReadSubstateEvent struct {
	Handle keel.LockHandle
	Node   keel.NodeID
	Size   int
}

type WriteSubstateEvent struct {
	Handle keel.LockHandle
	Node   keel.NodeID
	Size   int
}

type CloseSubstateEvent struct {
	Handle keel.LockHandle
	Node   keel.NodeID
}

// SubstateOperationKind enumerates the unlocked substate operations.
type SubstateOperationKind uint8

const (
	SetSubstateOperation SubstateOperationKind = iota
	RemoveSubstateOperation
	ScanKeysOperation
	ScanSortedSubstatesOperation
	DrainSubstatesOperation
)

func (k SubstateOperationKind) String() string {
	switch k {
	case SetSubstateOperation:
		return "set"
	case RemoveSubstateOperation:
		return "remove"
	case ScanKeysOperation:
		return "scan_keys"
	case ScanSortedSubstatesOperation:
		return "scan_sorted"
	case DrainSubstatesOperation:
		return "drain"
	}
	return "unknown"
}

type SubstateOperationEvent struct {
	Kind      SubstateOperationKind
	Node      keel.NodeID
	Partition keel.PartitionNumber
	Key       keel.SubstateKey // zero for partition operations
	// Count is the number of substates listed or removed.
	Count int
	// Size is the encoded size of the values written, removed or listed.
	Size int
}
