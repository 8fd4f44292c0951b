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
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/track"
	"golang.org/x/exp/maps"
)

// Visibility describes how a frame may access a referenced node.
type Visibility uint8

const (
	VisibilityNormal Visibility = iota
	// VisibilityDirectAccess grants access to an internal node bypassing its
	// owner, e.g. for recalling vaults.
	VisibilityDirectAccess
)

// sharedState is the storage shared by all call frames of a transaction.
type sharedState struct {
	heap          *Heap
	track         *track.Track
	locks         *SubstateLocks
	alwaysVisible map[keel.NodeID]struct{}
}

// persist moves a heap node and all heap nodes owned by it into the track.
func (s *sharedState) persist(id keel.NodeID) error {
	substates, err := s.heap.RemoveNode(id)
	if err != nil {
		return fmt.Errorf("failed to persist %v: %w", id, err)
	}
	if err := s.track.CreateNode(id, substates); err != nil {
		return fmt.Errorf("failed to persist %v: %w", id, err)
	}
	for _, child := range ownedNodes(substates) {
		if s.heap.Contains(child) {
			if err := s.persist(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkPersist reports whether the heap node and all heap nodes owned by it
// can be moved to the track.
func (s *sharedState) checkPersist(id keel.NodeID) error {
	if !s.heap.Contains(id) {
		return nil
	}
	if err := s.track.CanCreateNode(id); err != nil {
		return err
	}
	for _, child := range s.heap.OwnedNodes(id) {
		if err := s.checkPersist(child); err != nil {
			return err
		}
	}
	return nil
}

func (s *sharedState) exists(id keel.NodeID) bool {
	return s.heap.Contains(id) || s.track.IsNew(id)
}

func (s *sharedState) getSubstate(id substateID) (keel.IndexedValue, bool, error) {
	if s.heap.Contains(id.node) {
		value, found := s.heap.GetSubstate(id.node, id.partition, id.key)
		return value, found, nil
	}
	return s.track.GetSubstate(id.node, id.partition, id.key)
}

// CallFrame is the ownership, visibility and lock book keeping of a single
// level of the call stack.
type CallFrame struct {
	depth int
	actor keel.Actor

	// owned maps the root nodes owned by this frame to the order in which
	// they were acquired.
	owned     map[keel.NodeID]uint64
	ownedSeq  uint64
	stable    map[keel.NodeID]Visibility
	transient map[keel.NodeID]int
	allocated map[keel.NodeID]struct{}

	open       map[keel.LockHandle]*openSubstate
	nextHandle keel.LockHandle
}

type openSubstate struct {
	id          substateID
	flags       keel.LockFlags
	inHeap      bool
	trackHandle uint32
	// pinned lists the nodes owned or referenced by any value this substate
	// held while open. They are visible and can not change owner until the
	// substate is closed.
	pinned []keel.NodeID
}

func newCallFrame(depth int, actor keel.Actor) *CallFrame {
	return &CallFrame{
		depth:     depth,
		actor:     actor,
		owned:     map[keel.NodeID]uint64{},
		stable:    map[keel.NodeID]Visibility{},
		transient: map[keel.NodeID]int{},
		allocated: map[keel.NodeID]struct{}{},
		open:      map[keel.LockHandle]*openSubstate{},
	}
}

func (f *CallFrame) Depth() int {
	return f.depth
}

func (f *CallFrame) Actor() keel.Actor {
	return f.actor
}

// OwnedNodes lists the root nodes owned by this frame in the order they
// were acquired.
func (f *CallFrame) OwnedNodes() []keel.NodeID {
	res := maps.Keys(f.owned)
	slices.SortFunc(res, func(a, b keel.NodeID) int {
		return cmp.Compare(f.owned[a], f.owned[b])
	})
	return res
}

func (f *CallFrame) Owns(id keel.NodeID) bool {
	_, found := f.owned[id]
	return found
}

// OpenSubstates is the number of substates opened by this frame.
func (f *CallFrame) OpenSubstates() int {
	return len(f.open)
}

func (f *CallFrame) addOwned(id keel.NodeID) {
	f.ownedSeq++
	f.owned[id] = f.ownedSeq
}

func (f *CallFrame) addReference(id keel.NodeID, visibility Visibility) {
	if current, found := f.stable[id]; found && current == VisibilityNormal {
		return
	}
	f.stable[id] = visibility
}

func (f *CallFrame) isVisible(s *sharedState, id keel.NodeID) bool {
	if _, found := f.owned[id]; found {
		return true
	}
	if _, found := f.stable[id]; found {
		return true
	}
	if f.transient[id] > 0 {
		return true
	}
	_, found := s.alwaysVisible[id]
	return found
}

// onlyDirectAccess reports whether the node is reachable through a direct
// access reference only. Such nodes may be invoked with direct access only.
func (f *CallFrame) onlyDirectAccess(id keel.NodeID) bool {
	if _, found := f.owned[id]; found || f.transient[id] > 0 {
		return false
	}
	visibility, found := f.stable[id]
	return found && visibility == VisibilityDirectAccess
}

// checkTake is the single rule deciding whether a node may leave the
// ownership of this frame.
func (f *CallFrame) checkTake(s *sharedState, id keel.NodeID) error {
	if f.transient[id] > 0 || s.locks.IsNodeLocked(id) {
		return ErrSubstateBorrowed
	}
	if _, found := f.owned[id]; !found {
		if id.IsGlobal() {
			return ErrOwnedGlobalNode
		}
		return ErrNodeNotOwned
	}
	return nil
}

func (f *CallFrame) checkMove(s *sharedState, nodes []keel.NodeID) (keel.NodeID, error) {
	seen := make(map[keel.NodeID]struct{}, len(nodes))
	for _, id := range nodes {
		if _, found := seen[id]; found {
			return id, ErrDuplicateOwnedRef
		}
		seen[id] = struct{}{}
		if err := f.checkTake(s, id); err != nil {
			return id, err
		}
	}
	return keel.NodeID{}, nil
}

func (f *CallFrame) checkRefs(s *sharedState, refs []keel.NodeID) (keel.NodeID, error) {
	for _, id := range refs {
		if !f.isVisible(s, id) {
			return id, ErrRefNotVisible
		}
	}
	return keel.NodeID{}, nil
}

func (f *CallFrame) pin(open *openSubstate, value keel.IndexedValue) {
	for _, list := range [][]keel.NodeID{value.OwnedNodes(), value.References()} {
		for _, id := range list {
			f.transient[id]++
			open.pinned = append(open.pinned, id)
		}
	}
}

func (f *CallFrame) unpin(open *openSubstate) {
	for _, id := range open.pinned {
		if f.transient[id]--; f.transient[id] <= 0 {
			delete(f.transient, id)
		}
	}
	open.pinned = nil
}

// createNode registers a new node owned by this frame, taking the nodes
// owned by its substates from the frame. Global nodes are persisted right
// away and become visible as references.
func (f *CallFrame) createNode(s *sharedState, id keel.NodeID, substates keel.NodeSubstates) error {
	if s.exists(id) {
		return frameError(CreateNodeError, id, ErrNodeExists)
	}
	children := ownedNodes(substates)
	if node, err := f.checkMove(s, children); err != nil {
		return frameError(CreateNodeError, node, err)
	}
	for _, partition := range substates {
		for _, value := range partition {
			if node, err := f.checkRefs(s, value.References()); err != nil {
				return frameError(CreateNodeError, node, err)
			}
		}
	}
	if id.IsGlobal() {
		if err := s.track.CanCreateNode(id); err != nil {
			return frameError(CreateNodeError, id, err)
		}
		for _, child := range children {
			if err := s.checkPersist(child); err != nil {
				return frameError(CreateNodeError, child, err)
			}
		}
	}
	for _, child := range children {
		delete(f.owned, child)
	}
	s.heap.CreateNode(id, substates)
	if id.IsGlobal() {
		if err := s.persist(id); err != nil {
			return err
		}
		f.addReference(id, VisibilityNormal)
		return nil
	}
	f.addOwned(id)
	return nil
}

// createNodeFrom creates a node out of partitions of heap nodes owned by
// this frame.
func (f *CallFrame) createNodeFrom(s *sharedState, id keel.NodeID, moves []keel.PartitionMove) error {
	if s.exists(id) {
		return frameError(CreateNodeError, id, ErrNodeExists)
	}
	for _, move := range moves {
		if err := f.checkTake(s, move.Source); err != nil {
			return frameError(MovePartitionError, move.Source, err)
		}
		if !s.heap.Contains(move.Source) {
			return frameError(MovePartitionError, move.Source, ErrPersistedNode)
		}
	}
	s.heap.CreateNode(id, nil)
	for _, move := range moves {
		if err := s.heap.MovePartition(move.Source, move.SourcePartition, id, move.Partition); err != nil {
			return frameError(MovePartitionError, move.Source, err)
		}
	}
	if id.IsGlobal() {
		if err := s.persist(id); err != nil {
			return err
		}
		f.addReference(id, VisibilityNormal)
		return nil
	}
	f.addOwned(id)
	return nil
}

// dropNode removes an owned heap node. The nodes it owned become owned by
// this frame.
func (f *CallFrame) dropNode(s *sharedState, id keel.NodeID) (keel.NodeSubstates, error) {
	if err := f.checkTake(s, id); err != nil {
		return nil, frameError(DropNodeError, id, err)
	}
	if !s.heap.Contains(id) {
		return nil, frameError(DropNodeError, id, ErrPersistedNode)
	}
	substates, err := s.heap.RemoveNode(id)
	if err != nil {
		return nil, frameError(DropNodeError, id, err)
	}
	delete(f.owned, id)
	for _, child := range ownedNodes(substates) {
		f.addOwned(child)
	}
	return substates, nil
}

func (f *CallFrame) openSubstate(s *sharedState, node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, flags keel.LockFlags, defaultValue *keel.IndexedValue) (keel.LockHandle, keel.IndexedValue, error) {
	if !f.isVisible(s, node) {
		return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, ErrNodeNotVisible)
	}
	if defaultValue != nil && len(defaultValue.OwnedNodes()) > 0 {
		return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, ErrDefaultOwnsNodes)
	}
	id := substateID{node, partition, key}
	if !s.locks.Lock(id, flags.IsMutable()) {
		return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, ErrLockConflict)
	}
	open := &openSubstate{id: id, flags: flags}
	var value keel.IndexedValue
	if s.heap.Contains(node) {
		open.inHeap = true
		current, found := s.heap.GetSubstate(node, partition, key)
		if !found {
			if defaultValue == nil {
				s.locks.Unlock(id, flags.IsMutable())
				return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, ErrSubstateNotFound)
			}
			current = *defaultValue
			if err := s.heap.SetSubstate(node, partition, key, current); err != nil {
				s.locks.Unlock(id, flags.IsMutable())
				return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, err)
			}
		}
		value = current
	} else {
		handle, err := s.track.AcquireLock(node, partition, key, flags, defaultValue)
		if err != nil {
			s.locks.Unlock(id, flags.IsMutable())
			return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, err)
		}
		open.trackHandle = handle
		if value, err = s.track.ReadSubstate(handle); err != nil {
			s.track.ReleaseLock(handle)
			s.locks.Unlock(id, flags.IsMutable())
			return 0, keel.IndexedValue{}, frameError(OpenSubstateError, node, err)
		}
	}
	f.pin(open, value)
	f.nextHandle++
	f.open[f.nextHandle] = open
	return f.nextHandle, value, nil
}

func (f *CallFrame) getOpen(kind CallFrameErrorKind, handle keel.LockHandle) (*openSubstate, error) {
	open, found := f.open[handle]
	if !found {
		return nil, frameError(kind, keel.NodeID{}, fmt.Errorf("%w: %d", ErrInvalidHandle, handle))
	}
	return open, nil
}

func (f *CallFrame) currentValue(s *sharedState, open *openSubstate) (keel.IndexedValue, error) {
	if open.inHeap {
		value, _ := s.heap.GetSubstate(open.id.node, open.id.partition, open.id.key)
		return value, nil
	}
	return s.track.ReadSubstate(open.trackHandle)
}

func (f *CallFrame) readSubstate(s *sharedState, handle keel.LockHandle) (keel.IndexedValue, *openSubstate, error) {
	open, err := f.getOpen(ReadSubstateError, handle)
	if err != nil {
		return keel.IndexedValue{}, nil, err
	}
	value, err := f.currentValue(s, open)
	if err != nil {
		return keel.IndexedValue{}, nil, frameError(ReadSubstateError, open.id.node, err)
	}
	return value, open, nil
}

// exchange moves nodes between this frame and a substate of the given node
// whose value is replaced. Nodes newly owned by the value are taken from
// the frame, nodes no longer owned by it are returned to the frame.
func (f *CallFrame) exchange(s *sharedState, kind CallFrameErrorKind, node keel.NodeID, old, updated keel.IndexedValue) error {
	inHeap := s.heap.Contains(node)
	added := difference(updated.OwnedNodes(), old.OwnedNodes())
	removed := difference(old.OwnedNodes(), updated.OwnedNodes())
	if id, err := f.checkMove(s, added); err != nil {
		return frameError(kind, id, err)
	}
	if id, err := f.checkRefs(s, updated.References()); err != nil {
		return frameError(kind, id, err)
	}
	if !inHeap && len(removed) > 0 {
		return frameError(kind, removed[0], ErrPersistedNode)
	}
	if !inHeap {
		for _, id := range added {
			if err := s.checkPersist(id); err != nil {
				return frameError(kind, id, err)
			}
		}
		for _, id := range added {
			if s.heap.Contains(id) {
				if err := s.persist(id); err != nil {
					return err
				}
			}
		}
	}
	for _, id := range added {
		delete(f.owned, id)
	}
	for _, id := range removed {
		f.addOwned(id)
	}
	return nil
}

func difference(a, b []keel.NodeID) []keel.NodeID {
	res := []keel.NodeID{}
	for _, id := range a {
		if !slices.Contains(b, id) {
			res = append(res, id)
		}
	}
	return res
}

func (f *CallFrame) writeSubstate(s *sharedState, handle keel.LockHandle, value keel.IndexedValue) (*openSubstate, error) {
	open, err := f.getOpen(WriteSubstateError, handle)
	if err != nil {
		return nil, err
	}
	if !open.flags.IsMutable() {
		return nil, frameError(WriteSubstateError, open.id.node, ErrNotMutable)
	}
	old, err := f.currentValue(s, open)
	if err != nil {
		return nil, frameError(WriteSubstateError, open.id.node, err)
	}
	if err := f.exchange(s, WriteSubstateError, open.id.node, old, value); err != nil {
		return nil, err
	}
	if open.inHeap {
		err = s.heap.SetSubstate(open.id.node, open.id.partition, open.id.key, value)
	} else {
		err = s.track.UpdateSubstate(open.trackHandle, value)
	}
	if err != nil {
		return nil, frameError(WriteSubstateError, open.id.node, err)
	}
	f.pin(open, value)
	return open, nil
}

// closeSubstate releases a lock. It fails while a node owned by the current
// value of the substate has open substates itself.
func (f *CallFrame) closeSubstate(s *sharedState, handle keel.LockHandle) (*openSubstate, error) {
	open, err := f.getOpen(CloseSubstateError, handle)
	if err != nil {
		return nil, err
	}
	value, err := f.currentValue(s, open)
	if err != nil {
		return nil, frameError(CloseSubstateError, open.id.node, err)
	}
	for _, child := range value.OwnedNodes() {
		if s.locks.IsNodeLocked(child) {
			return nil, frameError(CloseSubstateError, child, ErrSubstateBorrowed)
		}
	}
	return open, f.release(s, handle, open)
}

func (f *CallFrame) release(s *sharedState, handle keel.LockHandle, open *openSubstate) error {
	delete(f.open, handle)
	f.unpin(open)
	s.locks.Unlock(open.id, open.flags.IsMutable())
	if !open.inHeap {
		if err := s.track.ReleaseLock(open.trackHandle); err != nil {
			return frameError(CloseSubstateError, open.id.node, err)
		}
	}
	return nil
}

// releaseAll closes all substates still open in this frame, most recently
// opened first. All substates are closed even if some of them fail.
func (f *CallFrame) releaseAll(s *sharedState) error {
	handles := maps.Keys(f.open)
	slices.Sort(handles)
	slices.Reverse(handles)
	var errs []error
	for _, handle := range handles {
		if err := f.release(s, handle, f.open[handle]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *CallFrame) checkOperation(s *sharedState, id substateID) error {
	if !f.isVisible(s, id.node) {
		return frameError(SubstateOperationError, id.node, ErrNodeNotVisible)
	}
	if s.locks.IsLocked(id) {
		return frameError(SubstateOperationError, id.node, ErrSubstateLocked)
	}
	return nil
}

func (f *CallFrame) setSubstate(s *sharedState, node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, value keel.IndexedValue) error {
	id := substateID{node, partition, key}
	if err := f.checkOperation(s, id); err != nil {
		return err
	}
	old, _, err := s.getSubstate(id)
	if err != nil {
		return frameError(SubstateOperationError, node, err)
	}
	if err := f.exchange(s, SubstateOperationError, node, old, value); err != nil {
		return err
	}
	if s.heap.Contains(node) {
		err = s.heap.SetSubstate(node, partition, key, value)
	} else {
		err = s.track.SetSubstate(node, partition, key, value)
	}
	if err != nil {
		return frameError(SubstateOperationError, node, err)
	}
	return nil
}

func (f *CallFrame) removeSubstate(s *sharedState, node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool, error) {
	id := substateID{node, partition, key}
	if err := f.checkOperation(s, id); err != nil {
		return keel.IndexedValue{}, false, err
	}
	old, found, err := s.getSubstate(id)
	if err != nil {
		return keel.IndexedValue{}, false, frameError(SubstateOperationError, node, err)
	}
	if !found {
		return keel.IndexedValue{}, false, nil
	}
	if err := f.exchange(s, SubstateOperationError, node, old, keel.IndexedValue{}); err != nil {
		return keel.IndexedValue{}, false, err
	}
	if s.heap.Contains(node) {
		s.heap.RemoveSubstate(node, partition, key)
	} else if _, _, err := s.track.RemoveSubstate(node, partition, key); err != nil {
		return keel.IndexedValue{}, false, frameError(SubstateOperationError, node, err)
	}
	return old, true, nil
}

func (f *CallFrame) scanKeys(s *sharedState, node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.SubstateKey, error) {
	if !f.isVisible(s, node) {
		return nil, frameError(SubstateOperationError, node, ErrNodeNotVisible)
	}
	if !s.heap.Contains(node) {
		keys, err := s.track.ScanKeys(node, partition, limit)
		if err != nil {
			return nil, frameError(SubstateOperationError, node, err)
		}
		return keys, nil
	}
	res := []keel.SubstateKey{}
	for _, substate := range s.heap.ListSubstates(node, partition) {
		if uint32(len(res)) >= limit {
			break
		}
		res = append(res, substate.Key)
	}
	return res, nil
}

func (f *CallFrame) scanSortedSubstates(s *sharedState, node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.Substate, error) {
	if !f.isVisible(s, node) {
		return nil, frameError(SubstateOperationError, node, ErrNodeNotVisible)
	}
	if !s.heap.Contains(node) {
		substates, err := s.track.ScanSortedSubstates(node, partition, limit)
		if err != nil {
			return nil, frameError(SubstateOperationError, node, err)
		}
		return substates, nil
	}
	res := s.heap.ListSubstates(node, partition)
	slices.SortFunc(res, func(a, b keel.Substate) int {
		return keel.CompareSubstateKeys(a.Key, b.Key)
	})
	if uint32(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *CallFrame) drainSubstates(s *sharedState, node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.Substate, error) {
	if !f.isVisible(s, node) {
		return nil, frameError(SubstateOperationError, node, ErrNodeNotVisible)
	}
	if !s.heap.Contains(node) {
		substates, err := s.track.DrainSubstates(node, partition, limit)
		if err != nil {
			return nil, frameError(SubstateOperationError, node, err)
		}
		for _, substate := range substates {
			if owned := substate.Value.OwnedNodes(); len(owned) > 0 {
				return nil, frameError(SubstateOperationError, owned[0], ErrPersistedNode)
			}
		}
		return substates, nil
	}
	substates := s.heap.ListSubstates(node, partition)
	if uint32(len(substates)) > limit {
		substates = substates[:limit]
	}
	for _, substate := range substates {
		if s.locks.IsLocked(substateID{node, partition, substate.Key}) {
			return nil, frameError(SubstateOperationError, node, ErrSubstateLocked)
		}
	}
	for _, substate := range substates {
		if err := f.exchange(s, SubstateOperationError, node, substate.Value, keel.IndexedValue{}); err != nil {
			return nil, err
		}
		s.heap.RemoveSubstate(node, partition, substate.Key)
	}
	return substates, nil
}

// passMessage moves the nodes owned by a message from one frame to another
// and copies the references it carries. Internal references are only
// copied down the stack; passed up they must already be visible to the
// receiving frame.
func passMessage(s *sharedState, kind CallFrameErrorKind, from, to *CallFrame, message keel.IndexedValue) error {
	if id, err := from.checkMove(s, message.OwnedNodes()); err != nil {
		return frameError(kind, id, err)
	}
	if id, err := from.checkRefs(s, message.References()); err != nil {
		return frameError(kind, id, err)
	}
	down := to.depth > from.depth
	for _, ref := range message.References() {
		if !down && !ref.IsGlobal() && !to.isVisible(s, ref) {
			return frameError(kind, ref, ErrRefNotVisible)
		}
	}
	for _, id := range message.OwnedNodes() {
		delete(from.owned, id)
		to.addOwned(id)
	}
	for _, ref := range message.References() {
		if to.isVisible(s, ref) {
			continue
		}
		if from.onlyDirectAccess(ref) {
			to.addReference(ref, VisibilityDirectAccess)
		} else {
			to.addReference(ref, VisibilityNormal)
		}
	}
	return nil
}
