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
	"github.com/Fantom-foundation/Keel/go/store"
	"github.com/Fantom-foundation/Keel/go/track"
	"go.uber.org/mock/gomock"
)

func TestKernel_InvokeRunsHooksInOrder(t *testing.T) {
	callback := &testCallback{}
	var modes []ExecutionMode
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		modes = append(modes, api.Mode())
		if want, got := 1, api.Depth(); want != got {
			t.Errorf("unexpected depth, wanted %d, got %d", want, got)
		}
		return keel.MustIndexedValue(uint64(12)), nil
	}
	k, _ := newTestKernel(t, nil, callback)

	output, err := k.Invoke(function("run", unit))
	if err != nil {
		t.Fatalf("failed to invoke: %v", err)
	}
	var result uint64
	if err := output.Decode(&result); err != nil || result != 12 {
		t.Errorf("unexpected output %v, err %v", output, err)
	}
	want := []string{"before_push:run", "start", "upstream:run", "finish", "after_pop"}
	if !slices.Equal(want, callback.trace) {
		t.Errorf("unexpected hook sequence, wanted %v, got %v", want, callback.trace)
	}
	if want, got := []ExecutionMode{ModeClient}, modes; !slices.Equal(want, got) {
		t.Errorf("unexpected modes, wanted %v, got %v", want, got)
	}
	if k.Depth() != 0 || k.Mode() != ModeKernel {
		t.Errorf("kernel not restored after invocation, depth %d, mode %v", k.Depth(), k.Mode())
	}
}

func TestKernel_FunctionsOfInvisiblePackagesCannotBeInvoked(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	unknown := keel.NewNodeID(keel.EntityTypeGlobalPackage, []byte{99})
	_, err := k.Invoke(keel.Invocation{Package: unknown, Blueprint: "Test", Ident: "run", Args: unit})
	var frameErr *CallFrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != InvokeError || !errors.Is(err, ErrNodeNotVisible) {
		t.Errorf("expected invisible package error, got %v", err)
	}
}

func TestKernel_NodesPassedThroughNestedFramesCanBeDropped(t *testing.T) {
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		switch api.CurrentActor().Ident {
		case "a":
			if !slices.Equal(args.OwnedNodes(), api.OwnedNodes()) {
				t.Errorf("argument not owned by frame of a")
			}
			return api.Invoke(function("b", args))
		case "b":
			if _, err := api.DropNode(args.OwnedNodes()[0]); err != nil {
				return keel.IndexedValue{}, err
			}
			return unit, nil
		}
		return keel.IndexedValue{}, errors.New("unexpected function")
	}
	k, _ := newTestKernel(t, nil, callback)
	n := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)

	if _, err := k.Invoke(function("a", own(n))); err != nil {
		t.Fatalf("failed to invoke: %v", err)
	}
	if k.CurrentFrame().Owns(n) || k.shared.heap.Contains(n) {
		t.Errorf("node should have been dropped")
	}
	want := []string{
		"before_push:a", "start", "upstream:a",
		"before_push:b", "start", "upstream:b", "finish", "after_pop",
		"finish", "after_pop",
	}
	if !slices.Equal(want, callback.trace) {
		t.Errorf("unexpected hook sequence, wanted %v, got %v", want, callback.trace)
	}
	if err := k.Teardown(); err != nil {
		t.Errorf("failed to tear down: %v", err)
	}
}

func TestKernel_LeftoverNodesAreAutoDropped(t *testing.T) {
	type pair struct {
		First, Second keel.Own
	}
	var created, dropped []keel.NodeID
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		x := args.OwnedNodes()[0]
		y := newNode(t, api, keel.EntityTypeInternalKeyValueStore, unit)
		z := newNode(t, api, keel.EntityTypeInternalKeyValueStore, unit)
		created = append(created, y, z)
		return keel.NewIndexedValue(pair{First: keel.Own(x), Second: keel.Own(y)})
	}
	callback.autoDrop = func(nodes []keel.NodeID, api InternalApi) error {
		if want, got := ModeAutoDrop, api.Mode(); want != got {
			t.Errorf("unexpected mode, wanted %v, got %v", want, got)
		}
		dropped = append(dropped, nodes...)
		for _, node := range nodes {
			if _, err := api.DropNode(node); err != nil {
				return err
			}
		}
		return nil
	}
	k, _ := newTestKernel(t, nil, callback)
	x := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)

	if _, err := k.Invoke(function("run", own(x))); err != nil {
		t.Fatalf("failed to invoke: %v", err)
	}
	y, z := created[0], created[1]
	if want, got := []keel.NodeID{z}, dropped; !slices.Equal(want, got) {
		t.Errorf("unexpected dropped nodes, wanted %v, got %v", want, got)
	}
	if want, got := []keel.NodeID{x, y}, k.OwnedNodes(); !slices.Equal(want, got) {
		t.Errorf("unexpected owned nodes, wanted %v, got %v", want, got)
	}
	if k.shared.heap.Contains(z) {
		t.Errorf("dropped node still on heap")
	}
}

func TestKernel_NodesLeftAfterAutoDropFailTheInvocation(t *testing.T) {
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		newNode(t, api, keel.EntityTypeInternalKeyValueStore, unit)
		return unit, nil
	}
	callback.autoDrop = func([]keel.NodeID, InternalApi) error { return nil }
	k, _ := newTestKernel(t, nil, callback)

	if _, err := k.Invoke(function("run", unit)); !errors.Is(err, ErrOrphanedNodes) {
		t.Errorf("expected orphaned nodes error, got %v", err)
	}
	if want, got := 0, k.Depth(); want != got {
		t.Errorf("frames were not unwound, depth %d", got)
	}
}

func TestKernel_UnusedNodeIDsFailTheInvocation(t *testing.T) {
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		_, err := api.AllocateNodeID(keel.EntityTypeInternalKeyValueStore)
		return unit, err
	}
	k, _ := newTestKernel(t, nil, callback)
	if _, err := k.Invoke(function("run", unit)); !errors.Is(err, ErrUnusedNodeIDs) {
		t.Errorf("expected unused node ids error, got %v", err)
	}
}

func TestKernel_CallDepthIsLimited(t *testing.T) {
	callback := &testCallback{}
	maxDepth := 0
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		maxDepth = max(maxDepth, api.Depth())
		return api.Invoke(function("recurse", args))
	}
	k, _ := newTestKernel(t, nil, callback)
	if _, err := k.Invoke(function("recurse", unit)); !errors.Is(err, ErrMaxCallDepth) {
		t.Errorf("expected max call depth error, got %v", err)
	}
	if want, got := DefaultMaxCallDepth, maxDepth; want != got {
		t.Errorf("unexpected maximum depth, wanted %d, got %d", want, got)
	}
	if want, got := 0, k.Depth(); want != got {
		t.Errorf("frames were not unwound, depth %d", got)
	}
}

func TestKernel_InternalReferencesCanNotBePassedUp(t *testing.T) {
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		hidden := newNode(t, api, keel.EntityTypeInternalKeyValueStore, unit)
		holder := newNode(t, api, keel.EntityTypeInternalGenericComponent, own(hidden))
		handle, err := api.OpenSubstate(holder, keel.MainPartition, keel.FieldKey(0), 0)
		if err != nil {
			return keel.IndexedValue{}, err
		}
		defer api.CloseSubstate(handle)
		return ref(hidden), nil
	}
	k, _ := newTestKernel(t, nil, callback)
	_, err := k.Invoke(function("run", unit))
	var frameErr *CallFrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != ReturnError {
		t.Errorf("expected return error, got %v", err)
	}
}

// counterDb creates a database holding a global component wrapping an
// internal counter node.
func counterDb(t *testing.T) (keel.SubstateDatabase, keel.NodeID, keel.NodeID) {
	t.Helper()
	global := keel.NewNodeID(keel.EntityTypeGlobalGenericComponent, []byte{7})
	inner := keel.NewNodeID(keel.EntityTypeInternalGenericComponent, []byte{7})
	updates := &keel.DatabaseUpdates{}
	updates.Set(global, keel.TypeInfoPartition, keel.TypeInfoKey, keel.MustIndexedValue(keel.TypeInfo{Package: testPackage, Blueprint: "Counter", Global: true}).Bytes())
	updates.Set(global, keel.GlobalPartition, keel.GlobalKey, keel.MustIndexedValue(keel.GlobalSubstate{Underlying: keel.Own(inner)}).Bytes())
	updates.Set(inner, keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo("Counter").Bytes())
	updates.Set(inner, keel.MainPartition, keel.FieldKey(0), keel.MustIndexedValue(uint64(5)).Bytes())
	db := store.NewMemory()
	if err := db.Commit(updates); err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	return db, global, inner
}

func increment(api keel.KernelApi, node keel.NodeID) (uint64, error) {
	handle, err := api.OpenSubstate(node, keel.MainPartition, keel.FieldKey(0), keel.LockMutable)
	if err != nil {
		return 0, err
	}
	value, err := api.ReadSubstate(handle)
	if err != nil {
		return 0, err
	}
	var counter uint64
	if err := value.Decode(&counter); err != nil {
		return 0, err
	}
	counter++
	if err := api.WriteSubstate(handle, keel.MustIndexedValue(counter)); err != nil {
		return 0, err
	}
	return counter, api.CloseSubstate(handle)
}

func TestKernel_GlobalReceiversAreDereferencedWhileHoldingALock(t *testing.T) {
	db, global, inner := counterDb(t)
	derefLock := substateID{node: global, partition: keel.GlobalPartition, key: keel.GlobalKey}
	var k *Kernel
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		actor := api.CurrentActor()
		if actor.Receiver != inner || actor.Global != global || actor.Blueprint != "Counter" {
			t.Errorf("unexpected actor %v", actor)
		}
		if !k.shared.locks.IsLocked(derefLock) {
			t.Errorf("global substate should be locked during the call")
		}
		counter, err := increment(api, actor.Receiver)
		if err != nil {
			return keel.IndexedValue{}, err
		}
		return keel.NewIndexedValue(counter)
	}
	k, tr := newTestKernel(t, db, callback, global)

	output, err := k.Invoke(keel.Invocation{Receiver: global, Ident: "increment", Args: unit})
	if err != nil {
		t.Fatalf("failed to invoke: %v", err)
	}
	var counter uint64
	if err := output.Decode(&counter); err != nil || counter != 6 {
		t.Errorf("unexpected output %v, err %v", output, err)
	}
	if k.shared.locks.IsLocked(derefLock) {
		t.Errorf("global substate still locked after the call")
	}
	if err := k.Teardown(); err != nil {
		t.Fatalf("failed to tear down: %v", err)
	}
	commits, _, err := tr.Finalize()
	if err != nil {
		t.Fatalf("failed to finalize: %v", err)
	}
	if len(commits) != 1 || commits[0].Node != inner || commits[0].Kind != track.Update {
		t.Errorf("unexpected commits %v", commits)
	}
}

func TestKernel_FailuresToCloseSubstatesAreReportedWhenUnwinding(t *testing.T) {
	db, global, inner := counterDb(t)
	derefLock := substateID{node: global, partition: keel.GlobalPartition, key: keel.GlobalKey}
	injected := errors.New("injected")
	var tr *track.Track
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		if _, err := api.OpenSubstate(inner, keel.MainPartition, keel.FieldKey(0), keel.LockMutable); err != nil {
			return keel.IndexedValue{}, err
		}
		// Drop the track locks behind the kernel's back.
		for handle := uint32(1); handle <= 16; handle++ {
			_ = tr.ReleaseLock(handle)
		}
		return keel.IndexedValue{}, injected
	}
	k, tr := newTestKernel(t, db, callback, global)

	_, err := k.Invoke(keel.Invocation{Receiver: global, Ident: "increment", Args: unit})
	if !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
	if !errors.Is(err, track.ErrInvalidHandle) {
		t.Errorf("expected failed release to be reported, got %v", err)
	}
	if want, got := 0, k.Depth(); want != got {
		t.Errorf("unexpected depth, wanted %d, got %d", want, got)
	}
	if k.shared.locks.IsLocked(derefLock) {
		t.Errorf("global substate still locked after the call")
	}
	if k.shared.locks.IsLocked(substateID{node: inner, partition: keel.MainPartition, key: keel.FieldKey(0)}) {
		t.Errorf("counter substate still locked after the call")
	}
}

func TestKernel_ReentrantCallsRespectHeldLocks(t *testing.T) {
	tests := map[string]struct {
		outer   keel.LockFlags
		inner   keel.LockFlags
		succeed bool
	}{
		"mutable lock and nested write": {outer: keel.LockMutable, inner: keel.LockMutable},
		"mutable lock and nested read":  {outer: keel.LockMutable, inner: 0},
		"read lock and nested write":    {outer: 0, inner: keel.LockMutable},
		"read lock and nested read":     {outer: 0, inner: 0, succeed: true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			db, global, inner := counterDb(t)
			callback := &testCallback{}
			callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
				flags := test.outer
				if api.CurrentActor().Ident == "nested" {
					flags = test.inner
				}
				handle, err := api.OpenSubstate(inner, keel.MainPartition, keel.FieldKey(0), flags)
				if err != nil {
					return keel.IndexedValue{}, err
				}
				if api.CurrentActor().Ident == "outer" {
					if _, err := api.Invoke(keel.Invocation{Receiver: global, Ident: "nested", Args: unit}); err != nil {
						return keel.IndexedValue{}, err
					}
				}
				return unit, api.CloseSubstate(handle)
			}
			k, _ := newTestKernel(t, db, callback, global)

			_, err := k.Invoke(keel.Invocation{Receiver: global, Ident: "outer", Args: unit})
			if test.succeed {
				if err != nil {
					t.Fatalf("failed to invoke: %v", err)
				}
				return
			}
			var frameErr *CallFrameError
			if !errors.As(err, &frameErr) || frameErr.Kind != OpenSubstateError || !errors.Is(err, ErrLockConflict) {
				t.Errorf("expected lock conflict, got %v", err)
			}
			if want, got := 0, k.Depth(); want != got {
				t.Errorf("unexpected depth, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestKernel_FailedWritesKeepNodesOwnedByTheFrame(t *testing.T) {
	db, global, inner := counterDb(t)
	var tr *track.Track
	var k *Kernel
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		child := newNode(t, api, keel.EntityTypeInternalKeyValueStore, unit)
		parent := newNode(t, api, keel.EntityTypeInternalKeyValueStore, own(child))
		// The child can no longer be moved to the track.
		if err := tr.CreateNode(child, nil); err != nil {
			t.Fatalf("failed to create node in track: %v", err)
		}
		handle, err := api.OpenSubstate(inner, keel.MainPartition, keel.FieldKey(0), keel.LockMutable)
		if err != nil {
			return keel.IndexedValue{}, err
		}
		err = api.WriteSubstate(handle, own(parent))
		if !errors.Is(err, track.ErrNodeExists) {
			t.Errorf("expected existing node error, got %v", err)
		}
		if !k.CurrentFrame().Owns(parent) {
			t.Errorf("parent no longer owned by the frame")
		}
		if !k.shared.heap.Contains(parent) || !k.shared.heap.Contains(child) {
			t.Errorf("nodes removed from the heap")
		}
		if tr.IsNew(parent) {
			t.Errorf("parent persisted by failed write")
		}
		return keel.IndexedValue{}, err
	}
	k, tr = newTestKernel(t, db, callback, global)

	if _, err := k.Invoke(keel.Invocation{Receiver: global, Ident: "store", Args: unit}); err == nil {
		t.Errorf("expected invocation to fail")
	}
}

func TestKernel_DirectAccessRequiresDirectAccessReference(t *testing.T) {
	vault := keel.NewNodeID(keel.EntityTypeInternalFungibleVault, []byte{9})
	updates := &keel.DatabaseUpdates{}
	updates.Set(vault, keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo("Vault").Bytes())
	updates.Set(vault, keel.MainPartition, keel.FieldKey(0), keel.MustIndexedValue(uint64(0)).Bytes())
	db := store.NewMemory()
	if err := db.Commit(updates); err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	callback := &testCallback{}
	callback.upstream = func(args keel.IndexedValue, api InternalApi) (keel.IndexedValue, error) {
		if !api.CurrentActor().DirectAccess {
			t.Errorf("actor should be marked as direct access")
		}
		_, err := increment(api, api.CurrentActor().Receiver)
		return unit, err
	}
	k, _ := newTestKernel(t, db, callback, vault)

	tests := map[string]struct {
		invocation keel.Invocation
		err        error
	}{
		"direct access": {
			invocation: keel.Invocation{Receiver: vault, DirectAccess: true, Ident: "recall", Args: unit},
		},
		"normal access": {
			invocation: keel.Invocation{Receiver: vault, Ident: "take", Args: unit},
			err:        ErrNodeNotVisible,
		},
		"direct access on package": {
			invocation: keel.Invocation{Receiver: testPackage, DirectAccess: true, Ident: "recall", Args: unit},
			err:        ErrNotDirectAccess,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := k.Invoke(test.invocation)
			if test.err == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if test.err != nil && !errors.Is(err, test.err) {
				t.Errorf("expected %v, got %v", test.err, err)
			}
		})
	}
}

// virtualAccount materializes virtual accounts from their address.
func virtualAccount(calls *int) func(keel.NodeID, InternalApi) (bool, error) {
	return func(address keel.NodeID, api InternalApi) (bool, error) {
		*calls++
		inner := keel.NewNodeID(keel.EntityTypeInternalGenericComponent, address[1:])
		err := api.CreateNode(inner, keel.NodeSubstates{}.
			Set(keel.TypeInfoPartition, keel.TypeInfoKey, typeInfo("Account")).
			Set(keel.MainPartition, keel.FieldKey(0), keel.MustIndexedValue(uint64(0))))
		if err != nil {
			return false, err
		}
		err = api.CreateNode(address, keel.NodeSubstates{}.
			Set(keel.TypeInfoPartition, keel.TypeInfoKey, keel.MustIndexedValue(keel.TypeInfo{Package: testPackage, Blueprint: "Account", Global: true})).
			Set(keel.GlobalPartition, keel.GlobalKey, keel.MustIndexedValue(keel.GlobalSubstate{Underlying: keel.Own(inner)})))
		return err == nil, err
	}
}

func TestKernel_VirtualNodesAreMaterializedOnce(t *testing.T) {
	address := keel.NewNodeID(keel.EntityTypeGlobalVirtualSecp256k1Account, []byte{1, 2, 3})
	calls := 0
	callback := &testCallback{virtualize: virtualAccount(&calls)}
	k, _ := newTestKernel(t, nil, callback, address)

	for i := 0; i < 3; i++ {
		if _, err := k.Invoke(keel.Invocation{Receiver: address, Ident: "balance", Args: unit}); err != nil {
			t.Fatalf("failed to invoke virtual account: %v", err)
		}
	}
	if want, got := 1, calls; want != got {
		t.Errorf("unexpected number of virtualizations, wanted %d, got %d", want, got)
	}
}

func TestKernel_UnknownVirtualNodesCanNotBeInvoked(t *testing.T) {
	address := keel.NewNodeID(keel.EntityTypeGlobalVirtualEd25519Account, []byte{1})
	k, _ := newTestKernel(t, nil, &testCallback{}, address)
	_, err := k.Invoke(keel.Invocation{Receiver: address, Ident: "balance", Args: unit})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected node not found error, got %v", err)
	}
}

func TestKernel_VirtualizationIsIndependentOfHistory(t *testing.T) {
	address := keel.NewNodeID(keel.EntityTypeGlobalVirtualSecp256k1Account, []byte{4, 5, 6})
	run := func(prefix int) []track.StoreCommit {
		calls := 0
		callback := &testCallback{virtualize: virtualAccount(&calls)}
		db := store.NewMemory()
		tr := track.New(db, nil)
		config := DefaultConfig()
		config.AlwaysVisible = []keel.NodeID{testPackage}
		k := New(config, tr, NewIdAllocator(keel.Hash{byte(prefix)}), callback)
		if err := k.Boot([]keel.NodeID{address}); err != nil {
			t.Fatalf("failed to boot: %v", err)
		}
		for i := 0; i < prefix; i++ {
			id := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
			if _, err := k.DropNode(id); err != nil {
				t.Fatalf("failed to drop node: %v", err)
			}
		}
		if _, err := k.Invoke(keel.Invocation{Receiver: address, Ident: "balance", Args: unit}); err != nil {
			t.Fatalf("failed to invoke: %v", err)
		}
		if err := k.Teardown(); err != nil {
			t.Fatalf("failed to tear down: %v", err)
		}
		commits, _, err := tr.Finalize()
		if err != nil {
			t.Fatalf("failed to finalize: %v", err)
		}
		return commits
	}

	reference := run(0)
	if len(reference) == 0 {
		t.Fatalf("virtualization did not produce any state")
	}
	for _, prefix := range []int{1, 5} {
		commits := run(prefix)
		if len(commits) != len(reference) {
			t.Fatalf("unexpected number of commits, wanted %d, got %d", len(reference), len(commits))
		}
		for i := range commits {
			want, got := reference[i], commits[i]
			if want.Kind != got.Kind || want.Node != got.Node || want.Partition != got.Partition ||
				want.Key != got.Key || !want.Value.Equal(got.Value) {
				t.Errorf("commit %d differs, wanted %v, got %v", i, want, got)
			}
		}
	}
}

func TestKernel_HooksCanNotInvokeOrDropNodes(t *testing.T) {
	tests := map[string]struct {
		run  func(api InternalApi) error
		mode ExecutionMode
	}{
		"invoke": {
			run: func(api InternalApi) error {
				_, err := api.Invoke(function("run", unit))
				return err
			},
			mode: ModeResolver,
		},
		"drop": {
			run: func(api InternalApi) error {
				_, err := api.DropNode(api.OwnedNodes()[0])
				return err
			},
			mode: ModeDropNode,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var hookErr error
			callback := &testCallback{}
			callback.onCreate = func(event CreateNodeEvent, api InternalApi) error {
				if want, got := ModeKernelModule, api.Mode(); want != got {
					t.Errorf("unexpected mode in hook, wanted %v, got %v", want, got)
				}
				hookErr = test.run(api)
				return nil
			}
			k, _ := newTestKernel(t, nil, callback)
			newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)

			var modeErr *InvalidModeTransitionError
			if !errors.As(hookErr, &modeErr) {
				t.Fatalf("expected invalid mode transition, got %v", hookErr)
			}
			if modeErr.From != ModeKernelModule || modeErr.To != test.mode {
				t.Errorf("unexpected transition %v -> %v", modeErr.From, modeErr.To)
			}
		})
	}
}

func TestKernel_StoreAccessesAreReported(t *testing.T) {
	db, global, _ := counterDb(t)
	callback := &testCallback{}
	k, _ := newTestKernel(t, db, callback, global)
	handle, err := k.OpenSubstate(global, keel.GlobalPartition, keel.GlobalKey, 0)
	if err != nil {
		t.Fatalf("failed to open substate: %v", err)
	}
	if len(callback.accesses) == 0 {
		t.Fatalf("no store access reported")
	}
	if want, got := track.ReadFromDb, callback.accesses[0].Kind; want != got {
		t.Errorf("unexpected access kind, wanted %v, got %v", want, got)
	}
	if err := k.CloseSubstate(handle); err != nil {
		t.Errorf("failed to close substate: %v", err)
	}
}

func TestKernel_TeardownDetectsOrphanedNodes(t *testing.T) {
	k, _ := newTestKernel(t, nil, &testCallback{})
	newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	if err := k.Teardown(); !errors.Is(err, ErrOrphanedNodes) {
		t.Errorf("expected orphaned nodes error, got %v", err)
	}
}

func TestKernel_OperationsFailAfterTeardown(t *testing.T) {
	callback := &testCallback{}
	k, _ := newTestKernel(t, nil, callback)
	if err := k.Teardown(); err != nil {
		t.Fatalf("failed to tear down: %v", err)
	}
	if want, got := PhaseFinished, k.Phase(); want != got {
		t.Errorf("unexpected phase, wanted %v, got %v", want, got)
	}
	if _, err := k.AllocateNodeID(keel.EntityTypeInternalKeyValueStore); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected not running error, got %v", err)
	}
	if _, err := k.Invoke(function("run", unit)); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected not running error, got %v", err)
	}
	if want, got := []string{"teardown"}, callback.trace; !slices.Equal(want, got) {
		t.Errorf("unexpected hooks, wanted %v, got %v", want, got)
	}
}

func TestKernel_HookFailuresAbortOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	callback := NewMockCallback(ctrl)
	injected := errors.New("injected")

	callback.EXPECT().OnInit(gomock.Any()).Return(nil)
	callback.EXPECT().OnAllocateNodeID(keel.EntityTypeInternalKeyValueStore, gomock.Any()).Return(nil)
	callback.EXPECT().OnCreateNode(gomock.Any(), gomock.Any()).Return(injected)

	k := New(DefaultConfig(), track.New(store.NewMemory(), nil), NewIdAllocator(keel.Hash{}), callback)
	if err := k.Boot(nil); err != nil {
		t.Fatalf("failed to boot: %v", err)
	}
	id, err := k.AllocateNodeID(keel.EntityTypeInternalKeyValueStore)
	if err != nil {
		t.Fatalf("failed to allocate id: %v", err)
	}
	if err := k.CreateNode(id, fields(unit)); !errors.Is(err, injected) {
		t.Errorf("expected hook error, got %v", err)
	}
}

func TestKernel_RejectedFramesKeepArgumentsWithCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	callback := NewMockCallback(ctrl)
	injected := errors.New("unauthorized")

	callback.EXPECT().OnInit(gomock.Any()).Return(nil)
	callback.EXPECT().OnAllocateNodeID(gomock.Any(), gomock.Any()).Return(nil)
	callback.EXPECT().OnCreateNode(gomock.Any(), gomock.Any()).Return(nil)
	callback.EXPECT().BeforePushFrame(gomock.Any(), gomock.Any(), gomock.Any()).Return(injected)

	config := DefaultConfig()
	config.AlwaysVisible = []keel.NodeID{testPackage}
	k := New(config, track.New(store.NewMemory(), nil), NewIdAllocator(keel.Hash{}), callback)
	if err := k.Boot(nil); err != nil {
		t.Fatalf("failed to boot: %v", err)
	}
	n := newNode(t, k, keel.EntityTypeInternalKeyValueStore, unit)
	if _, err := k.Invoke(function("run", own(n))); !errors.Is(err, injected) {
		t.Errorf("expected hook error, got %v", err)
	}
	if !k.CurrentFrame().Owns(n) {
		t.Errorf("argument should remain with the caller")
	}
}
