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

//go:generate mockgen -source api.go -destination api_mock.go -package keel

// NodeSubstates is the full content of a node, grouped by partition.
type NodeSubstates map[PartitionNumber]map[SubstateKey]IndexedValue

// Set adds the given substate, creating the partition on demand.
func (n NodeSubstates) Set(partition PartitionNumber, key SubstateKey, value IndexedValue) NodeSubstates {
	p, found := n[partition]
	if !found {
		p = map[SubstateKey]IndexedValue{}
		n[partition] = p
	}
	p[key] = value
	return n
}

// Get returns the given substate, if present.
func (n NodeSubstates) Get(partition PartitionNumber, key SubstateKey) (IndexedValue, bool) {
	value, found := n[partition][key]
	return value, found
}

// Substate is a single key/value pair of a partition.
type Substate struct {
	Key   SubstateKey
	Value IndexedValue
}

// PartitionMove names a partition of an existing node to be moved into a
// new node.
type PartitionMove struct {
	Source          NodeID
	SourcePartition PartitionNumber
	Partition       PartitionNumber
}

// TypeInfo is stored in the TypeInfoPartition of every node created from a
// blueprint and names the code operating on it.
type TypeInfo struct {
	Package   NodeID
	Blueprint string
	Global    bool
	Outer     NodeID // the object this one belongs to, zero if none
}

// TypeInfoKey is the key of the TypeInfo substate.
var TypeInfoKey = FieldKey(0)

// GlobalKey is the key of the substate in the GlobalPartition of a global
// component holding its underlying node.
var GlobalKey = FieldKey(0)

// GlobalSubstate is the content of a global component's address wrapper.
type GlobalSubstate struct {
	Underlying Own
}

// Actor describes the code running in a call frame.
type Actor struct {
	Package      NodeID
	Blueprint    string
	Ident        string
	Receiver     NodeID // zero for function calls
	Global       NodeID // the global address the receiver was reached through, if any
	DirectAccess bool   // the receiver was reached through a direct access reference
}

// IsMethod reports whether the actor is a method call on a receiver.
func (a Actor) IsMethod() bool {
	return a.Receiver != NodeID{}
}

// IsRoot reports whether the actor describes the root call frame.
func (a Actor) IsRoot() bool {
	return a == Actor{}
}

func (a Actor) String() string {
	if a.IsRoot() {
		return "root"
	}
	if a.IsMethod() {
		return a.Blueprint + "::" + a.Ident + "@" + a.Receiver.String()
	}
	return a.Blueprint + "::" + a.Ident
}

// Invocation is a request to run a function or a method.
type Invocation struct {
	// Receiver is the node to invoke a method on. For functions, it is zero
	// and Package and Blueprint name the code to run.
	Receiver     NodeID
	DirectAccess bool
	Package      NodeID
	Blueprint    string
	Ident        string
	Args         IndexedValue
}

// KernelApi is the interface offered by the kernel to code executed within a
// call frame. All operations are subject to the ownership, visibility and
// locking rules of the current call frame.
type KernelApi interface {
	// AllocateNodeID reserves a new node id of the given type. The id must be
	// used for a node before the current frame is popped.
	AllocateNodeID(entityType EntityType) (NodeID, error)

	// CreateNode creates a node owned by the current frame. Nodes owned by
	// the substates are moved from the frame into the new node. Global nodes
	// are persisted immediately.
	CreateNode(id NodeID, substates NodeSubstates) error

	// CreateNodeFrom creates a node from partitions of existing nodes owned
	// by the current frame.
	CreateNodeFrom(id NodeID, partitions []PartitionMove) error

	// DropNode removes an owned node from the heap and returns its content.
	// Nodes owned by the dropped node become owned by the current frame.
	DropNode(id NodeID) (NodeSubstates, error)

	OpenSubstate(node NodeID, partition PartitionNumber, key SubstateKey, flags LockFlags) (LockHandle, error)

	// OpenSubstateWithDefault is like OpenSubstate but initializes missing
	// substates with the given value.
	OpenSubstateWithDefault(node NodeID, partition PartitionNumber, key SubstateKey, flags LockFlags, value IndexedValue) (LockHandle, error)
	ReadSubstate(handle LockHandle) (IndexedValue, error)
	WriteSubstate(handle LockHandle, value IndexedValue) error
	CloseSubstate(handle LockHandle) error

	SetSubstate(node NodeID, partition PartitionNumber, key SubstateKey, value IndexedValue) error
	RemoveSubstate(node NodeID, partition PartitionNumber, key SubstateKey) (IndexedValue, bool, error)
	ScanKeys(node NodeID, partition PartitionNumber, limit uint32) ([]SubstateKey, error)
	ScanSortedSubstates(node NodeID, partition PartitionNumber, limit uint32) ([]Substate, error)
	DrainSubstates(node NodeID, partition PartitionNumber, limit uint32) ([]Substate, error)

	// Invoke runs the given invocation in a new call frame. Nodes owned by
	// the arguments are moved into the new frame, nodes owned by the result
	// are moved back to the caller.
	Invoke(invocation Invocation) (IndexedValue, error)

	// CurrentActor describes the code running in the current frame.
	CurrentActor() Actor
}

// ClientApi extends the KernelApi by system services available to blueprint
// code.
type ClientApi interface {
	KernelApi

	CallFunction(pkg NodeID, blueprint string, ident string, args IndexedValue) (IndexedValue, error)
	CallMethod(receiver NodeID, ident string, args IndexedValue) (IndexedValue, error)
	CallDirectAccessMethod(receiver NodeID, ident string, args IndexedValue) (IndexedValue, error)

	// Globalize wraps an owned component node into a new global address.
	Globalize(entityType EntityType, underlying NodeID) (NodeID, error)

	// LockFee records a fee payment taken from the given vault.
	LockFee(vault NodeID, amount Decimal, contingent bool) error

	// ConsumeCostUnits charges execution cost units to the transaction.
	ConsumeCostUnits(units uint32) error

	EmitEvent(name string, data IndexedValue) error

	// Keccak256Hash computes the Keccak-256 hash of the given data.
	Keccak256Hash(data []byte) (Hash, error)

	TransactionHash() Hash
}
