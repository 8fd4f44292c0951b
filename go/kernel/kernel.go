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
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/track"
)

// DefaultMaxCallDepth is the default limit of nested invocations.
const DefaultMaxCallDepth = 8

// Config summarizes the parameters of a kernel.
type Config struct {
	// MaxCallDepth limits the number of frames on top of the root frame.
	MaxCallDepth int
	// AlwaysVisible lists global nodes visible to every frame without a
	// reference, e.g. the native packages.
	AlwaysVisible []keel.NodeID
}

func DefaultConfig() Config {
	return Config{MaxCallDepth: DefaultMaxCallDepth}
}

// Kernel runs the invocations of a single transaction on a stack of call
// frames on top of a heap and a track. A kernel is used for exactly one
// transaction.
type Kernel struct {
	config   Config
	phase    Phase
	mode     ExecutionMode
	shared   *sharedState
	ids      *IdAllocator
	callback Callback
	frames   []*CallFrame
}

var _ InternalApi = (*Kernel)(nil)

func New(config Config, store *track.Track, ids *IdAllocator, callback Callback) *Kernel {
	alwaysVisible := make(map[keel.NodeID]struct{}, len(config.AlwaysVisible))
	for _, id := range config.AlwaysVisible {
		alwaysVisible[id] = struct{}{}
	}
	if config.MaxCallDepth <= 0 {
		config.MaxCallDepth = DefaultMaxCallDepth
	}
	return &Kernel{
		config: config,
		shared: &sharedState{
			heap:          NewHeap(),
			track:         store,
			locks:         NewSubstateLocks(),
			alwaysVisible: alwaysVisible,
		},
		ids:      ids,
		callback: callback,
	}
}

// Boot creates the root frame and runs the initialization hook. Global
// references become visible to the root frame, internal references are
// accessible through direct access only.
func (k *Kernel) Boot(references []keel.NodeID) error {
	if k.phase != PhaseUninitialized {
		return fmt.Errorf("cannot boot kernel in phase %v", k.phase)
	}
	root := newCallFrame(0, keel.Actor{})
	for _, ref := range references {
		if ref.IsGlobal() {
			root.addReference(ref, VisibilityNormal)
		} else {
			root.addReference(ref, VisibilityDirectAccess)
		}
	}
	k.frames = []*CallFrame{root}
	k.phase = PhaseRunning
	k.shared.track.SetStoreAccessHandler(k.onStoreAccess)
	return k.hook(func() error { return k.callback.OnInit(k) })
}

// Teardown runs the teardown hook and verifies that the root frame was left
// clean.
func (k *Kernel) Teardown() error {
	if k.phase != PhaseRunning {
		return fmt.Errorf("%w: phase %v", ErrNotRunning, k.phase)
	}
	k.phase = PhaseTearingDown
	if err := k.hook(func() error { return k.callback.OnTeardown(k) }); err != nil {
		return err
	}
	root := k.frames[0]
	if err := root.releaseAll(k.shared); err != nil {
		return err
	}
	if len(root.owned) > 0 {
		return fmt.Errorf("%w: %v", ErrOrphanedNodes, root.OwnedNodes())
	}
	if len(root.allocated) > 0 {
		return fmt.Errorf("%w: %d", ErrUnusedNodeIDs, len(root.allocated))
	}
	k.phase = PhaseFinished
	return nil
}

func (k *Kernel) Phase() Phase {
	return k.phase
}

func (k *Kernel) Mode() ExecutionMode {
	return k.mode
}

func (k *Kernel) Depth() int {
	return len(k.frames) - 1
}

func (k *Kernel) current() *CallFrame {
	return k.frames[len(k.frames)-1]
}

// CurrentFrame exposes the book keeping of the current frame.
func (k *Kernel) CurrentFrame() *CallFrame {
	return k.current()
}

func (k *Kernel) CurrentActor() keel.Actor {
	return k.current().actor
}

func (k *Kernel) OwnedNodes() []keel.NodeID {
	return k.current().OwnedNodes()
}

// HeapSize is the number of nodes on the heap.
func (k *Kernel) HeapSize() int {
	return k.shared.heap.Len()
}

func (k *Kernel) checkRunning() error {
	if k.phase != PhaseRunning && k.phase != PhaseTearingDown {
		return fmt.Errorf("%w: phase %v", ErrNotRunning, k.phase)
	}
	return nil
}

// inMode runs the given function in the given execution mode.
func (k *Kernel) inMode(mode ExecutionMode, run func() error) error {
	if !CanTransition(k.mode, mode) {
		return &InvalidModeTransitionError{From: k.mode, To: mode}
	}
	previous := k.mode
	k.mode = mode
	defer func() { k.mode = previous }()
	return run()
}

// hook runs a callback hook in KernelModule mode. Hooks triggered by other
// hooks stay in this mode.
func (k *Kernel) hook(run func() error) error {
	if k.mode == ModeKernelModule {
		return run()
	}
	return k.inMode(ModeKernelModule, run)
}

func (k *Kernel) onStoreAccess(access track.StoreAccess) error {
	return k.hook(func() error { return k.callback.OnStoreAccess(access, k) })
}

func (k *Kernel) PeekSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool, error) {
	return k.shared.getSubstate(substateID{node, partition, key})
}

func (k *Kernel) AllocateNodeID(entityType keel.EntityType) (keel.NodeID, error) {
	if err := k.checkRunning(); err != nil {
		return keel.NodeID{}, err
	}
	if err := k.hook(func() error { return k.callback.OnAllocateNodeID(entityType, k) }); err != nil {
		return keel.NodeID{}, err
	}
	id, err := k.ids.Allocate(entityType)
	if err != nil {
		return keel.NodeID{}, err
	}
	k.current().allocated[id] = struct{}{}
	return id, nil
}

func (k *Kernel) CreateNode(id keel.NodeID, substates keel.NodeSubstates) error {
	if err := k.checkRunning(); err != nil {
		return err
	}
	frame := k.current()
	if err := frame.createNode(k.shared, id, substates); err != nil {
		return err
	}
	delete(frame.allocated, id)
	return k.hook(func() error {
		return k.callback.OnCreateNode(CreateNodeEvent{Node: id, Substates: substates}, k)
	})
}

func (k *Kernel) CreateNodeFrom(id keel.NodeID, partitions []keel.PartitionMove) error {
	if err := k.checkRunning(); err != nil {
		return err
	}
	frame := k.current()
	if err := frame.createNodeFrom(k.shared, id, partitions); err != nil {
		return err
	}
	delete(frame.allocated, id)
	return k.hook(func() error {
		return k.callback.OnCreateNode(CreateNodeEvent{Node: id, Moves: partitions}, k)
	})
}

func (k *Kernel) DropNode(id keel.NodeID) (keel.NodeSubstates, error) {
	if err := k.checkRunning(); err != nil {
		return nil, err
	}
	var res keel.NodeSubstates
	err := k.inMode(ModeDropNode, func() error {
		substates, err := k.current().dropNode(k.shared, id)
		if err != nil {
			return err
		}
		res = substates
		return k.hook(func() error {
			return k.callback.OnDropNode(DropNodeEvent{Node: id, Substates: substates}, k)
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (k *Kernel) OpenSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, flags keel.LockFlags) (keel.LockHandle, error) {
	return k.openSubstate(node, partition, key, flags, nil)
}

func (k *Kernel) OpenSubstateWithDefault(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, flags keel.LockFlags, value keel.IndexedValue) (keel.LockHandle, error) {
	return k.openSubstate(node, partition, key, flags, &value)
}

func (k *Kernel) openSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, flags keel.LockFlags, defaultValue *keel.IndexedValue) (keel.LockHandle, error) {
	if err := k.checkRunning(); err != nil {
		return 0, err
	}
	handle, value, err := k.current().openSubstate(k.shared, node, partition, key, flags, defaultValue)
	if err != nil {
		return 0, err
	}
	event := OpenSubstateEvent{Node: node, Partition: partition, Key: key, Flags: flags, Handle: handle, Size: value.Len()}
	if err := k.hook(func() error { return k.callback.OnOpenSubstate(event, k) }); err != nil {
		return 0, err
	}
	return handle, nil
}

func (k *Kernel) ReadSubstate(handle keel.LockHandle) (keel.IndexedValue, error) {
	if err := k.checkRunning(); err != nil {
		return keel.IndexedValue{}, err
	}
	value, open, err := k.current().readSubstate(k.shared, handle)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	event := ReadSubstateEvent{Handle: handle, Node: open.id.node, Size: value.Len()}
	if err := k.hook(func() error { return k.callback.OnReadSubstate(event, k) }); err != nil {
		return keel.IndexedValue{}, err
	}
	return value, nil
}

func (k *Kernel) WriteSubstate(handle keel.LockHandle, value keel.IndexedValue) error {
	if err := k.checkRunning(); err != nil {
		return err
	}
	open, err := k.current().writeSubstate(k.shared, handle, value)
	if err != nil {
		return err
	}
	event := WriteSubstateEvent{Handle: handle, Node: open.id.node, Size: value.Len()}
	return k.hook(func() error { return k.callback.OnWriteSubstate(event, k) })
}

func (k *Kernel) CloseSubstate(handle keel.LockHandle) error {
	if err := k.checkRunning(); err != nil {
		return err
	}
	open, err := k.current().closeSubstate(k.shared, handle)
	if err != nil {
		return err
	}
	event := CloseSubstateEvent{Handle: handle, Node: open.id.node}
	return k.hook(func() error { return k.callback.OnCloseSubstate(event, k) })
}

func (k *Kernel) substateOperation(event SubstateOperationEvent) error {
	return k.hook(func() error { return k.callback.OnSubstateOperation(event, k) })
}

func (k *Kernel) SetSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, value keel.IndexedValue) error {
	if err := k.checkRunning(); err != nil {
		return err
	}
	if err := k.current().setSubstate(k.shared, node, partition, key, value); err != nil {
		return err
	}
	return k.substateOperation(SubstateOperationEvent{
		Kind: SetSubstateOperation, Node: node, Partition: partition, Key: key, Count: 1, Size: value.Len(),
	})
}

func (k *Kernel) RemoveSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool, error) {
	if err := k.checkRunning(); err != nil {
		return keel.IndexedValue{}, false, err
	}
	value, found, err := k.current().removeSubstate(k.shared, node, partition, key)
	if err != nil {
		return keel.IndexedValue{}, false, err
	}
	event := SubstateOperationEvent{Kind: RemoveSubstateOperation, Node: node, Partition: partition, Key: key}
	if found {
		event.Count, event.Size = 1, value.Len()
	}
	if err := k.substateOperation(event); err != nil {
		return keel.IndexedValue{}, false, err
	}
	return value, found, nil
}

func (k *Kernel) ScanKeys(node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.SubstateKey, error) {
	if err := k.checkRunning(); err != nil {
		return nil, err
	}
	keys, err := k.current().scanKeys(k.shared, node, partition, limit)
	if err != nil {
		return nil, err
	}
	size := 0
	for _, key := range keys {
		size += len(key.Bytes())
	}
	event := SubstateOperationEvent{Kind: ScanKeysOperation, Node: node, Partition: partition, Count: len(keys), Size: size}
	if err := k.substateOperation(event); err != nil {
		return nil, err
	}
	return keys, nil
}

func (k *Kernel) ScanSortedSubstates(node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.Substate, error) {
	if err := k.checkRunning(); err != nil {
		return nil, err
	}
	substates, err := k.current().scanSortedSubstates(k.shared, node, partition, limit)
	if err != nil {
		return nil, err
	}
	event := SubstateOperationEvent{Kind: ScanSortedSubstatesOperation, Node: node, Partition: partition, Count: len(substates), Size: sizeOf(substates)}
	if err := k.substateOperation(event); err != nil {
		return nil, err
	}
	return substates, nil
}

func (k *Kernel) DrainSubstates(node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.Substate, error) {
	if err := k.checkRunning(); err != nil {
		return nil, err
	}
	substates, err := k.current().drainSubstates(k.shared, node, partition, limit)
	if err != nil {
		return nil, err
	}
	event := SubstateOperationEvent{Kind: DrainSubstatesOperation, Node: node, Partition: partition, Count: len(substates), Size: sizeOf(substates)}
	if err := k.substateOperation(event); err != nil {
		return nil, err
	}
	return substates, nil
}

func sizeOf(substates []keel.Substate) int {
	res := 0
	for _, substate := range substates {
		res += len(substate.Key.Bytes()) + substate.Value.Len()
	}
	return res
}

// Invoke runs an invocation in a new call frame on top of the current one.
// On failure, all frames pushed by the invocation are discarded.
func (k *Kernel) Invoke(invocation keel.Invocation) (keel.IndexedValue, error) {
	if err := k.checkRunning(); err != nil {
		return keel.IndexedValue{}, err
	}
	if !CanTransition(k.mode, ModeResolver) {
		return keel.IndexedValue{}, &InvalidModeTransitionError{From: k.mode, To: ModeResolver}
	}
	caller := k.current()
	if caller.depth >= k.config.MaxCallDepth {
		return keel.IndexedValue{}, fmt.Errorf("%w: %d", ErrMaxCallDepth, k.config.MaxCallDepth)
	}
	depth := len(k.frames)
	output, err := k.invoke(caller, invocation)
	if err != nil {
		if unwindErr := k.unwind(depth); unwindErr != nil {
			err = errors.Join(err, unwindErr)
		}
		return keel.IndexedValue{}, err
	}
	return output, nil
}

func (k *Kernel) invoke(caller *CallFrame, invocation keel.Invocation) (_ keel.IndexedValue, resErr error) {
	receiver := invocation.Receiver
	if receiver.IsGlobalVirtual() && caller.isVisible(k.shared, receiver) {
		if err := k.virtualize(receiver); err != nil {
			return keel.IndexedValue{}, err
		}
	}

	var actor keel.Actor
	var deref keel.LockHandle
	err := k.inMode(ModeResolver, func() (err error) {
		actor, deref, err = k.resolve(caller, invocation)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	releaseDeref := func() error {
		if open, found := caller.open[deref]; deref != 0 && found {
			return caller.release(k.shared, deref, open)
		}
		return nil
	}
	defer func() {
		if resErr == nil {
			return
		}
		if releaseErr := releaseDeref(); releaseErr != nil {
			resErr = errors.Join(resErr, releaseErr)
		}
	}()

	if err := k.hook(func() error { return k.callback.BeforePushFrame(actor, invocation.Args, k) }); err != nil {
		return keel.IndexedValue{}, err
	}

	callee := newCallFrame(caller.depth+1, actor)
	if actor.IsMethod() {
		visibility := VisibilityNormal
		if invocation.DirectAccess {
			visibility = VisibilityDirectAccess
		}
		callee.addReference(actor.Receiver, visibility)
	}
	if actor.Global != (keel.NodeID{}) {
		callee.addReference(actor.Global, VisibilityNormal)
	}
	callee.addReference(actor.Package, VisibilityNormal)
	if err := passMessage(k.shared, CreateFrameError, caller, callee, invocation.Args); err != nil {
		return keel.IndexedValue{}, err
	}
	k.frames = append(k.frames, callee)

	if err := k.hook(func() error { return k.callback.OnExecutionStart(k) }); err != nil {
		return keel.IndexedValue{}, err
	}
	var output keel.IndexedValue
	err = k.inMode(ModeClient, func() (err error) {
		output, err = k.callback.InvokeUpstream(invocation.Args, k)
		return err
	})
	if err != nil {
		return keel.IndexedValue{}, err
	}
	if err := k.hook(func() error { return k.callback.OnExecutionFinish(output, k) }); err != nil {
		return keel.IndexedValue{}, err
	}

	if err := callee.releaseAll(k.shared); err != nil {
		return keel.IndexedValue{}, err
	}
	if err := passMessage(k.shared, ReturnError, callee, caller, output); err != nil {
		return keel.IndexedValue{}, err
	}
	if leftover := callee.OwnedNodes(); len(leftover) > 0 {
		err := k.inMode(ModeAutoDrop, func() error { return k.callback.AutoDrop(leftover, k) })
		if err != nil {
			return keel.IndexedValue{}, err
		}
		if len(callee.owned) > 0 {
			return keel.IndexedValue{}, fmt.Errorf("%w: %v", ErrOrphanedNodes, callee.OwnedNodes())
		}
	}
	if err := callee.releaseAll(k.shared); err != nil {
		return keel.IndexedValue{}, err
	}
	if len(callee.allocated) > 0 {
		return keel.IndexedValue{}, fmt.Errorf("%w: %d", ErrUnusedNodeIDs, len(callee.allocated))
	}
	k.frames = k.frames[:len(k.frames)-1]

	if err := releaseDeref(); err != nil {
		return keel.IndexedValue{}, err
	}
	if err := k.hook(func() error { return k.callback.AfterPopFrame(k) }); err != nil {
		return keel.IndexedValue{}, err
	}
	return output, nil
}

// resolve determines the actor of an invocation. Global components are
// dereferenced to their underlying node; the read lock taken on the global
// substate stays open in the caller until the invocation completes.
func (k *Kernel) resolve(caller *CallFrame, invocation keel.Invocation) (keel.Actor, keel.LockHandle, error) {
	if invocation.Receiver == (keel.NodeID{}) {
		if !caller.isVisible(k.shared, invocation.Package) {
			return keel.Actor{}, 0, frameError(InvokeError, invocation.Package, ErrNodeNotVisible)
		}
		return keel.Actor{
			Package:   invocation.Package,
			Blueprint: invocation.Blueprint,
			Ident:     invocation.Ident,
		}, 0, nil
	}

	receiver := invocation.Receiver
	if invocation.DirectAccess {
		if visibility, found := caller.stable[receiver]; !found || visibility != VisibilityDirectAccess {
			return keel.Actor{}, 0, frameError(InvokeError, receiver, ErrNotDirectAccess)
		}
	} else if !caller.isVisible(k.shared, receiver) || caller.onlyDirectAccess(receiver) {
		return keel.Actor{}, 0, frameError(InvokeError, receiver, ErrNodeNotVisible)
	}

	actor := keel.Actor{Ident: invocation.Ident, Receiver: receiver, DirectAccess: invocation.DirectAccess}
	var handle keel.LockHandle
	if receiver.EntityType().IsGlobalComponent() {
		err := k.inMode(ModeDeref, func() error {
			h, value, err := caller.openSubstate(k.shared, receiver, keel.GlobalPartition, keel.GlobalKey, 0, nil)
			if err != nil {
				return err
			}
			var global keel.GlobalSubstate
			if err := value.Decode(&global); err != nil {
				caller.release(k.shared, h, caller.open[h])
				return frameError(InvokeError, receiver, fmt.Errorf("%w: %w", ErrInvalidReceiver, err))
			}
			handle = h
			actor.Global = receiver
			actor.Receiver = global.Underlying.NodeID()
			return nil
		})
		if err != nil {
			return keel.Actor{}, 0, err
		}
	}

	value, found, err := k.PeekSubstate(actor.Receiver, keel.TypeInfoPartition, keel.TypeInfoKey)
	var info keel.TypeInfo
	if err == nil && !found {
		err = frameError(InvokeError, actor.Receiver, fmt.Errorf("%w: no type info", ErrInvalidReceiver))
	} else if err == nil {
		if decodeErr := value.Decode(&info); decodeErr != nil {
			err = frameError(InvokeError, actor.Receiver, fmt.Errorf("%w: %w", ErrInvalidReceiver, decodeErr))
		}
	}
	if err != nil {
		if handle != 0 {
			caller.release(k.shared, handle, caller.open[handle])
		}
		return keel.Actor{}, 0, err
	}
	actor.Package = info.Package
	actor.Blueprint = info.Blueprint
	return actor, handle, nil
}

// virtualize materializes a virtual global node on first use.
func (k *Kernel) virtualize(address keel.NodeID) error {
	_, found, err := k.PeekSubstate(address, keel.TypeInfoPartition, keel.TypeInfoKey)
	if err != nil || found {
		return err
	}
	virtualized, err := k.callback.Virtualize(address, k)
	if err != nil {
		return err
	}
	if !virtualized {
		return frameError(InvokeError, address, ErrNodeNotFound)
	}
	return nil
}

// unwind discards all frames above the given height, closing their open
// substates. Frames are discarded even if closing a substate fails.
func (k *Kernel) unwind(height int) error {
	var errs []error
	for len(k.frames) > height {
		frame := k.current()
		if err := frame.releaseAll(k.shared); err != nil {
			errs = append(errs, err)
		}
		k.frames = k.frames[:len(k.frames)-1]
	}
	return errors.Join(errs...)
}
