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
	"errors"
	"slices"
	"testing"

	"github.com/Fantom-foundation/Keel/go/keel"
	"golang.org/x/exp/maps"
	"pgregory.net/rand"
)

func TestCallFrame_MovingNodesWithOpenSubstatesFails(t *testing.T) {
	tests := map[string]struct {
		move func(t *testing.T, k *Kernel, child keel.NodeID) error
		kind CallFrameErrorKind
	}{
		"create node": {
			move: func(t *testing.T, k *Kernel, child keel.NodeID) error {
				id, _ := k.AllocateNodeID(keel.EntityTypeGlobalGenericComponent)
				return k.CreateNode(id, fields(own(child)))
			},
			kind: CreateNodeError,
		},
		"create node from partition": {
			move: func(t *testing.T, k *Kernel, child keel.NodeID) error {
				id, _ := k.AllocateNodeID(keel.EntityTypeGlobalGenericComponent)
				return k.CreateNodeFrom(id, []keel.PartitionMove{{
					Source:          child,
					SourcePartition: keel.MainPartition,
					Partition:       keel.MainPartition,
				}})
			},
			kind: MovePartitionError,
		},
		"write substate": {
			move: func(t *testing.T, k *Kernel, child keel.NodeID) error {
				id, _ := k.AllocateNodeID(keel.EntityTypeGlobalGenericComponent)
				if err := k.CreateNode(id, fields(unit)); err != nil {
					t.Fatalf("failed to create parent: %v", err)
				}
				handle, err := k.OpenSubstate(id, keel.MainPartition, keel.FieldKey(0), keel.LockMutable)
				if err != nil {
					t.Fatalf("failed to open parent: %v", err)
				}
				return k.WriteSubstate(handle, own(child))
			},
			kind: WriteSubstateError,
		},
		"invoke": {
			move: func(t *testing.T, k *Kernel, child keel.NodeID) error {
				_, err := k.Invoke(function("consume", own(child)))
				return err
			},
			kind: CreateFrameError,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			k, _ := newTestKernel(t, nil, &testCallback{})
			child := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
			if _, err := k.OpenSubstate(child, keel.MainPartition, keel.FieldKey(0), 0); err != nil {
				t.Fatalf("failed to open child: %v", err)
			}

			err := test.move(t, k, child)
			var frameErr *CallFrameError
			if !errors.As(err, &frameErr) {
				t.Fatalf("expected call frame error, got %v", err)
			}
			if want, got := test.kind, frameErr.Kind; want != got {
				t.Errorf("unexpected error kind, wanted %v, got %v", want, got)
			}
			if want, got := child, frameErr.Node; want != got {
				t.Errorf("unexpected node in error, wanted %v, got %v", want, got)
			}
			if !errors.Is(err, ErrSubstateBorrowed) {
				t.Errorf("expected borrowed substate error, got %v", err)
			}
			if !k.CurrentFrame().Owns(child) {
				t.Errorf("child should still be owned by the root frame")
			}
		})
	}
}

func TestCallFrame_NodeReturnedByOpenSubstateCannotBeMovedUntilClosed(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	b := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	a := newNode(t, k, keel.EntityTypeInternalGenericComponent, own(b))

	handle, err := k.OpenSubstate(a, keel.MainPartition, keel.FieldKey(0), keel.LockMutable)
	if err != nil {
		t.Fatalf("failed to open substate: %v", err)
	}
	if err := k.WriteSubstate(handle, unit); err != nil {
		t.Fatalf("failed to write substate: %v", err)
	}
	if !k.CurrentFrame().Owns(b) {
		t.Fatalf("b should be owned by the frame after being removed from a")
	}

	c, err := k.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err != nil {
		t.Fatalf("failed to allocate id: %v", err)
	}
	err = k.CreateNode(c, fields(own(b)))
	var frameErr *CallFrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != CreateNodeError || !errors.Is(err, ErrSubstateBorrowed) {
		t.Fatalf("expected borrowed substate error on create, got %v", err)
	}

	if err := k.CloseSubstate(handle); err != nil {
		t.Fatalf("failed to close substate: %v", err)
	}
	if err := k.CreateNode(c, fields(own(b))); err != nil {
		t.Fatalf("failed to create node after closing substate: %v", err)
	}
	if want, got := []keel.NodeID{a, c}, k.OwnedNodes(); !slices.Equal(want, got) {
		t.Errorf("unexpected owned nodes, wanted %v, got %v", want, got)
	}
}

func TestCallFrame_NodeNestedInOpenSubstateCannotBeMoved(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	b := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	a := newNode(t, k, keel.EntityTypeInternalGenericComponent, own(b))

	handle, err := k.OpenSubstate(a, keel.MainPartition, keel.FieldKey(0), 0)
	if err != nil {
		t.Fatalf("failed to open substate: %v", err)
	}
	c, _ := k.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err := k.CreateNode(c, fields(own(b))); !errors.Is(err, ErrSubstateBorrowed) {
		t.Errorf("expected borrowed substate error, got %v", err)
	}
	if err := k.CreateNode(c, fields(unit)); err != nil {
		t.Fatalf("failed to create node: %v", err)
	}
	value, err := k.ReadSubstate(handle)
	if err != nil {
		t.Fatalf("failed to read substate: %v", err)
	}
	if !value.Equal(own(b)) {
		t.Errorf("content of a was modified: %v", value)
	}
}

func TestCallFrame_ClosingSubstateWithOpenChildFails(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	b := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	a := newNode(t, k, keel.EntityTypeInternalGenericComponent, own(b))

	parent, err := k.OpenSubstate(a, keel.MainPartition, keel.FieldKey(0), 0)
	if err != nil {
		t.Fatalf("failed to open parent: %v", err)
	}
	child, err := k.OpenSubstate(b, keel.MainPartition, keel.FieldKey(0), 0)
	if err != nil {
		t.Fatalf("failed to open child reached through parent: %v", err)
	}

	err = k.CloseSubstate(parent)
	var frameErr *CallFrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != CloseSubstateError || !errors.Is(err, ErrSubstateBorrowed) {
		t.Fatalf("expected borrowed substate error on close, got %v", err)
	}
	if err := k.CloseSubstate(child); err != nil {
		t.Fatalf("failed to close child: %v", err)
	}
	if err := k.CloseSubstate(parent); err != nil {
		t.Fatalf("failed to close parent: %v", err)
	}
	if want, got := 0, k.CurrentFrame().OpenSubstates(); want != got {
		t.Errorf("unexpected number of open substates, wanted %d, got %d", want, got)
	}
}

func TestCallFrame_NodesCannotBeMovedTwice(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	b := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	id, _ := k.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err := k.CreateNode(id, fields(own(b), own(b))); !errors.Is(err, ErrDuplicateOwnedRef) {
		t.Errorf("expected duplicate owned reference error, got %v", err)
	}
	if err := k.CreateNode(id, fields(ref(b))); err != nil {
		t.Errorf("references to owned nodes should be allowed, got %v", err)
	}
}

func TestCallFrame_ReferencesMustBeVisible(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	unknown := keel.NewNodeID(keel.EntityTypeGlobalAccount, []byte{42})
	id, _ := k.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
	if err := k.CreateNode(id, fields(ref(unknown))); !errors.Is(err, ErrRefNotVisible) {
		t.Errorf("expected invisible reference error, got %v", err)
	}
	if err := k.CreateNode(id, fields(ref(testPackage))); err != nil {
		t.Errorf("always visible nodes should be referable, got %v", err)
	}
}

func TestCallFrame_PersistedNodesCannotBeDropped(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	child := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	global, _ := k.AllocateNodeID(keel.EntityTypeGlobalGenericComponent)
	if err := k.CreateNode(global, fields(own(child))); err != nil {
		t.Fatalf("failed to create global node: %v", err)
	}
	if k.HeapSize() != 0 {
		t.Errorf("global node and its children should have been persisted")
	}
	if _, err := k.DropNode(global); !errors.Is(err, ErrOwnedGlobalNode) {
		t.Errorf("expected error when dropping a global node, got %v", err)
	}

	handle, err := k.OpenSubstate(global, keel.MainPartition, keel.FieldKey(0), keel.LockMutable)
	if err != nil {
		t.Fatalf("failed to open global substate: %v", err)
	}
	if err := k.WriteSubstate(handle, unit); !errors.Is(err, ErrPersistedNode) {
		t.Errorf("expected error when removing a persisted node, got %v", err)
	}
}

// ownerCounts counts for every heap node the places owning it.
func ownerCounts(k *Kernel) map[keel.NodeID]int {
	res := map[keel.NodeID]int{}
	for id := range k.shared.heap.nodes {
		res[id] += 0
	}
	for _, frame := range k.frames {
		for id := range frame.owned {
			res[id]++
		}
	}
	for _, node := range k.shared.heap.nodes {
		for _, partition := range node.partitions {
			for _, value := range partition.substates {
				for _, id := range value.OwnedNodes() {
					res[id]++
				}
			}
		}
	}
	return res
}

func sortedHeapNodes(k *Kernel) []keel.NodeID {
	res := maps.Keys(k.shared.heap.nodes)
	slices.SortFunc(res, keel.CompareNodeIDs)
	return res
}

func TestCallFrame_RandomOperationsNeverMoveBorrowedNodes(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		r := rand.New(seed)
		k, _ := newTestKernel(t, nil, &testCallback{})
		frame := k.CurrentFrame()
		handles := []keel.LockHandle{}
		moved, rejected := 0, 0

		for step := 0; step < 300; step++ {
			nodes := sortedHeapNodes(k)
			switch op := r.Intn(5); {
			case op == 0 || len(nodes) == 0:
				newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)

			case op == 1:
				node := nodes[r.Intn(len(nodes))]
				if !frame.isVisible(k.shared, node) {
					continue
				}
				var flags keel.LockFlags
				if r.Intn(2) == 0 {
					flags = keel.LockMutable
				}
				handle, err := k.OpenSubstate(node, keel.MainPartition, keel.FieldKey(0), flags)
				if err != nil && !errors.Is(err, ErrLockConflict) {
					t.Fatalf("unexpected error opening substate: %v", err)
				}
				if err == nil {
					handles = append(handles, handle)
				}

			case op == 2 && len(handles) > 0:
				i := r.Intn(len(handles))
				err := k.CloseSubstate(handles[i])
				if err != nil && !errors.Is(err, ErrSubstateBorrowed) {
					t.Fatalf("unexpected error closing substate: %v", err)
				}
				if err == nil {
					handles = slices.Delete(handles, i, i+1)
				}

			case op == 3 && len(handles) > 0:
				handle := handles[r.Intn(len(handles))]
				value := unit
				if r.Intn(2) == 0 {
					value = own(nodes[r.Intn(len(nodes))])
				}
				err := k.WriteSubstate(handle, value)
				if err != nil &&
					!errors.Is(err, ErrNotMutable) &&
					!errors.Is(err, ErrSubstateBorrowed) &&
					!errors.Is(err, ErrNodeNotOwned) {
					t.Fatalf("unexpected error writing substate: %v", err)
				}

			default:
				candidate := nodes[r.Intn(len(nodes))]
				borrowed := frame.transient[candidate] > 0 || k.shared.locks.IsNodeLocked(candidate)
				owned := frame.Owns(candidate)
				id, _ := k.AllocateNodeID(keel.EntityTypeInternalGenericComponent)
				err := k.CreateNode(id, fields(own(candidate)))
				switch {
				case borrowed:
					if !errors.Is(err, ErrSubstateBorrowed) {
						t.Fatalf("moving borrowed node %v should fail, got %v", candidate, err)
					}
				case !owned:
					if !errors.Is(err, ErrNodeNotOwned) {
						t.Fatalf("moving foreign node %v should fail, got %v", candidate, err)
					}
				default:
					if err != nil {
						t.Fatalf("moving owned node %v failed: %v", candidate, err)
					}
				}
				if err != nil {
					rejected++
					if err := k.CreateNode(id, fields(unit)); err != nil {
						t.Fatalf("failed to create node: %v", err)
					}
				} else {
					moved++
				}
			}

			for id, count := range ownerCounts(k) {
				if count != 1 {
					t.Fatalf("seed %d step %d: node %v has %d owners", seed, step, id, count)
				}
			}
		}
		if moved == 0 || rejected == 0 {
			t.Errorf("seed %d: test did not cover both outcomes, moved %d, rejected %d", seed, moved, rejected)
		}
	}
}
