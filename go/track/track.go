// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package track

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// Track is the transactional overlay of a single transaction over a
// SubstateDatabase. Reads observe the transaction's own writes on top of the
// database state at the time the substate was first accessed. No changes
// reach the database; Finalize produces the diff to be committed.
type Track struct {
	db       keel.SubstateDatabase
	onAccess StoreAccessHandler

	nodes     map[keel.NodeID]*trackedNode
	nodeOrder []keel.NodeID

	locks      map[uint32]*trackLock
	nextHandle uint32

	finalized bool
}

// StoreAccessHandler is notified about every access to the underlying
// database and every new entry of the track. An error aborts the operation
// causing the access.
type StoreAccessHandler func(StoreAccess) error

type substateID struct {
	node      keel.NodeID
	partition keel.PartitionNumber
	key       keel.SubstateKey
}

type trackedNode struct {
	isNew          bool
	partitions     map[keel.PartitionNumber]*trackedPartition
	partitionOrder []keel.PartitionNumber
}

type trackedPartition struct {
	substates map[keel.SubstateKey]*trackedSubstate
	order     []keel.SubstateKey
}

type trackedSubstate struct {
	// The state in the database, valid for all tracked substates.
	original *keel.IndexedValue
	// The current state, nil if absent.
	value   *keel.IndexedValue
	written bool

	// The last value written through a force-write lock.
	forced     bool
	forceValue *keel.IndexedValue

	readers int
	mutable bool
}

type trackLock struct {
	id    substateID
	flags keel.LockFlags
}

// New creates a track on top of the given database. The handler, if not nil,
// is notified about store accesses.
func New(db keel.SubstateDatabase, onAccess StoreAccessHandler) *Track {
	return &Track{
		db:       db,
		onAccess: onAccess,
		nodes:    map[keel.NodeID]*trackedNode{},
		locks:    map[uint32]*trackLock{},
	}
}

// SetStoreAccessHandler replaces the handler notified about store accesses.
func (t *Track) SetStoreAccessHandler(handler StoreAccessHandler) {
	t.onAccess = handler
}

func (t *Track) notify(access StoreAccess) error {
	if t.onAccess == nil {
		return nil
	}
	return t.onAccess(access)
}

func (t *Track) getNode(id keel.NodeID) *trackedNode {
	node, found := t.nodes[id]
	if !found {
		node = &trackedNode{partitions: map[keel.PartitionNumber]*trackedPartition{}}
		t.nodes[id] = node
		t.nodeOrder = append(t.nodeOrder, id)
	}
	return node
}

func (n *trackedNode) getPartition(number keel.PartitionNumber) *trackedPartition {
	partition, found := n.partitions[number]
	if !found {
		partition = &trackedPartition{substates: map[keel.SubstateKey]*trackedSubstate{}}
		n.partitions[number] = partition
		n.partitionOrder = append(n.partitionOrder, number)
	}
	return partition
}

func (p *trackedPartition) add(key keel.SubstateKey, substate *trackedSubstate) {
	p.substates[key] = substate
	p.order = append(p.order, key)
}

// lookup returns the tracked substate if it is already part of the track.
func (t *Track) lookup(id substateID) *trackedSubstate {
	node, found := t.nodes[id.node]
	if !found {
		return nil
	}
	partition, found := node.partitions[id.partition]
	if !found {
		return nil
	}
	return partition.substates[id.key]
}

// load returns the tracked substate, fetching it from the database if it is
// not yet part of the track.
func (t *Track) load(id substateID) (*trackedSubstate, error) {
	if t.finalized {
		return nil, newError(ErrFinalized, id)
	}
	if substate := t.lookup(id); substate != nil {
		return substate, nil
	}
	node := t.getNode(id.node)
	substate := &trackedSubstate{}
	if !node.isNew {
		data, exists, err := t.db.GetSubstate(id.node, id.partition, id.key)
		if err != nil {
			return nil, newError(fmt.Errorf("failed to read substate: %w", err), id)
		}
		if exists {
			value, err := keel.IndexedValueFromBytes(data)
			if err != nil {
				return nil, newError(fmt.Errorf("corrupted substate: %w", err), id)
			}
			substate.original = &value
			substate.value = &value
			if err := t.notify(StoreAccess{Kind: ReadFromDb, Node: id.node, Partition: id.partition, Key: id.key, Size: len(data)}); err != nil {
				return nil, err
			}
		} else if err := t.notify(StoreAccess{Kind: ReadFromDbNotFound, Node: id.node, Partition: id.partition, Key: id.key}); err != nil {
			return nil, err
		}
	}
	if err := t.notify(StoreAccess{Kind: NewEntryInTrack, Node: id.node, Partition: id.partition, Key: id.key}); err != nil {
		return nil, err
	}
	node.getPartition(id.partition).add(id.key, substate)
	return substate, nil
}

// CanCreateNode reports the error CreateNode would fail with for the given id.
func (t *Track) CanCreateNode(id keel.NodeID) error {
	if t.finalized {
		return newError(ErrFinalized, substateID{node: id})
	}
	if node, found := t.nodes[id]; found && (node.isNew || node.hasContent()) {
		return newError(ErrNodeExists, substateID{node: id})
	}
	return nil
}

// CreateNode adds a node that did not exist before this transaction. Its
// substates are inserted in key order of each partition, partitions in
// increasing order. Nodes only known to be absent may be created.
func (t *Track) CreateNode(id keel.NodeID, substates keel.NodeSubstates) error {
	if err := t.CanCreateNode(id); err != nil {
		return err
	}
	node := t.getNode(id)
	node.isNew = true
	partitions := make([]keel.PartitionNumber, 0, len(substates))
	for number := range substates {
		partitions = append(partitions, number)
	}
	slices.Sort(partitions)
	for _, number := range partitions {
		keys := make([]keel.SubstateKey, 0, len(substates[number]))
		for key := range substates[number] {
			keys = append(keys, key)
		}
		slices.SortFunc(keys, keel.CompareSubstateKeys)
		partition := node.getPartition(number)
		for _, key := range keys {
			value := substates[number][key]
			if substate, found := partition.substates[key]; found {
				substate.value = &value
				substate.written = true
				continue
			}
			if err := t.notify(StoreAccess{Kind: NewEntryInTrack, Node: id, Partition: number, Key: key}); err != nil {
				return err
			}
			partition.add(key, &trackedSubstate{value: &value, written: true})
		}
	}
	return nil
}

// hasContent reports whether any substate of the node is known to exist,
// now or in the database.
func (n *trackedNode) hasContent() bool {
	for _, partition := range n.partitions {
		for _, substate := range partition.substates {
			if substate.value != nil || substate.original != nil {
				return true
			}
		}
	}
	return false
}

// IsNew reports whether the node was created in this transaction.
func (t *Track) IsNew(id keel.NodeID) bool {
	node, found := t.nodes[id]
	return found && node.isNew
}

// AcquireLock locks the given substate. Read-only locks are shared, mutable
// locks are exclusive. If the substate does not exist and a default value is
// given, the substate is initialized with it.
func (t *Track) AcquireLock(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, flags keel.LockFlags, defaultValue *keel.IndexedValue) (uint32, error) {
	id := substateID{node, partition, key}
	substate, err := t.load(id)
	if err != nil {
		return 0, err
	}
	if substate.mutable || (flags.IsMutable() && substate.readers > 0) {
		return 0, newError(ErrLockConflict, id)
	}
	if flags&keel.LockUnmodifiedBase != 0 && substate.written {
		return 0, newError(ErrModifiedBase, id)
	}
	if substate.value == nil {
		if defaultValue == nil {
			return 0, newError(ErrSubstateNotFound, id)
		}
		value := *defaultValue
		substate.value = &value
		substate.written = true
	}
	if flags.IsMutable() {
		substate.mutable = true
	} else {
		substate.readers++
	}
	t.nextHandle++
	t.locks[t.nextHandle] = &trackLock{id: id, flags: flags}
	return t.nextHandle, nil
}

func (t *Track) getLock(handle uint32) (*trackLock, *trackedSubstate, error) {
	lock, found := t.locks[handle]
	if !found {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidHandle, handle)
	}
	return lock, t.lookup(lock.id), nil
}

// ReadSubstate reads the current value of a locked substate.
func (t *Track) ReadSubstate(handle uint32) (keel.IndexedValue, error) {
	_, substate, err := t.getLock(handle)
	if err != nil {
		return keel.IndexedValue{}, err
	}
	return *substate.value, nil
}

// UpdateSubstate replaces the value of a mutably locked substate.
func (t *Track) UpdateSubstate(handle uint32, value keel.IndexedValue) error {
	lock, substate, err := t.getLock(handle)
	if err != nil {
		return err
	}
	if !lock.flags.IsMutable() {
		return newError(ErrNotMutable, lock.id)
	}
	substate.value = &value
	substate.written = true
	if lock.flags&keel.LockForceWrite != 0 {
		forced := value
		substate.forced = true
		substate.forceValue = &forced
	}
	return nil
}

// ReleaseLock releases the given lock.
func (t *Track) ReleaseLock(handle uint32) error {
	lock, substate, err := t.getLock(handle)
	if err != nil {
		return err
	}
	if lock.flags.IsMutable() {
		substate.mutable = false
	} else {
		substate.readers--
	}
	delete(t.locks, handle)
	return nil
}

// GetSubstate reads a substate without locking it.
func (t *Track) GetSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool, error) {
	substate, err := t.load(substateID{node, partition, key})
	if err != nil {
		return keel.IndexedValue{}, false, err
	}
	if substate.value == nil {
		return keel.IndexedValue{}, false, nil
	}
	return *substate.value, true, nil
}

// SetSubstate writes a substate without locking it. Locked substates can not
// be written this way.
func (t *Track) SetSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, value keel.IndexedValue) error {
	id := substateID{node, partition, key}
	substate, err := t.load(id)
	if err != nil {
		return err
	}
	if substate.mutable || substate.readers > 0 {
		return newError(ErrSubstateLocked, id)
	}
	substate.value = &value
	substate.written = true
	return nil
}

// RemoveSubstate deletes a substate and returns its last value, if any.
func (t *Track) RemoveSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool, error) {
	id := substateID{node, partition, key}
	substate, err := t.load(id)
	if err != nil {
		return keel.IndexedValue{}, false, err
	}
	if substate.mutable || substate.readers > 0 {
		return keel.IndexedValue{}, false, newError(ErrSubstateLocked, id)
	}
	if substate.value == nil {
		return keel.IndexedValue{}, false, nil
	}
	res := *substate.value
	substate.value = nil
	substate.written = true
	return res, true, nil
}

// collect lists up to limit present substates of a partition. Unsorted
// listings name tracked substates in the order they joined the track,
// followed by untracked database entries in database order. Sorted listings
// are in key order. Database entries join the track, and are reported as
// read, only once they are part of the result.
func (t *Track) collect(node keel.NodeID, partition keel.PartitionNumber, limit uint32, sorted bool) ([]keel.Substate, error) {
	tracked := t.getNode(node)
	res := []keel.Substate{}
	if p, found := tracked.partitions[partition]; found {
		for _, key := range p.order {
			if substate := p.substates[key]; substate.value != nil {
				res = append(res, keel.Substate{Key: key, Value: *substate.value})
			}
		}
	}
	if sorted {
		slices.SortFunc(res, compareSubstates)
	}
	if tracked.isNew || (!sorted && uint32(len(res)) >= limit) {
		return res[:min(uint32(len(res)), limit)], nil
	}

	entries, err := t.db.ListSubstates(node, partition)
	if err != nil {
		return nil, newError(fmt.Errorf("failed to list partition: %w", err), substateID{node: node, partition: partition})
	}
	untracked := make([]keel.DatabaseEntry, 0, len(entries))
	for _, entry := range entries {
		if t.lookup(substateID{node, partition, entry.Key}) == nil {
			untracked = append(untracked, entry)
		}
	}

	if !sorted {
		for _, entry := range untracked {
			if uint32(len(res)) >= limit {
				break
			}
			substate, err := t.join(node, partition, entry)
			if err != nil {
				return nil, err
			}
			res = append(res, substate)
		}
		return res, nil
	}

	slices.SortFunc(untracked, func(a, b keel.DatabaseEntry) int {
		return keel.CompareSubstateKeys(a.Key, b.Key)
	})
	merged := make([]keel.Substate, 0, min(uint32(len(res)+len(untracked)), limit))
	i, j := 0, 0
	for uint32(len(merged)) < limit && (i < len(res) || j < len(untracked)) {
		if j == len(untracked) || (i < len(res) && keel.CompareSubstateKeys(res[i].Key, untracked[j].Key) < 0) {
			merged = append(merged, res[i])
			i++
			continue
		}
		substate, err := t.join(node, partition, untracked[j])
		if err != nil {
			return nil, err
		}
		merged = append(merged, substate)
		j++
	}
	return merged, nil
}

func compareSubstates(a, b keel.Substate) int {
	return keel.CompareSubstateKeys(a.Key, b.Key)
}

// join adds a database entry listed by a scan to the track.
func (t *Track) join(node keel.NodeID, partition keel.PartitionNumber, entry keel.DatabaseEntry) (keel.Substate, error) {
	id := substateID{node, partition, entry.Key}
	value, err := keel.IndexedValueFromBytes(entry.Value)
	if err != nil {
		return keel.Substate{}, newError(fmt.Errorf("corrupted substate: %w", err), id)
	}
	if err := t.notify(StoreAccess{Kind: ReadFromDb, Node: node, Partition: partition, Key: entry.Key, Size: len(entry.Value)}); err != nil {
		return keel.Substate{}, err
	}
	if err := t.notify(StoreAccess{Kind: NewEntryInTrack, Node: node, Partition: partition, Key: entry.Key}); err != nil {
		return keel.Substate{}, err
	}
	t.getNode(node).getPartition(partition).add(entry.Key, &trackedSubstate{original: &value, value: &value})
	return keel.Substate{Key: entry.Key, Value: value}, nil
}

// ScanKeys lists up to limit keys of the given partition.
func (t *Track) ScanKeys(node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.SubstateKey, error) {
	if t.finalized {
		return nil, newError(ErrFinalized, substateID{node: node, partition: partition})
	}
	substates, err := t.collect(node, partition, limit, false)
	if err != nil {
		return nil, err
	}
	res := make([]keel.SubstateKey, 0, len(substates))
	for _, substate := range substates {
		res = append(res, substate.Key)
	}
	return res, nil
}

// ScanSortedSubstates lists up to limit substates of a sorted partition in
// key order.
func (t *Track) ScanSortedSubstates(node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.Substate, error) {
	if t.finalized {
		return nil, newError(ErrFinalized, substateID{node: node, partition: partition})
	}
	return t.collect(node, partition, limit, true)
}

// DrainSubstates removes and returns up to limit substates of the given
// partition, in the order of ScanKeys. Nothing is removed if one of them is
// locked.
func (t *Track) DrainSubstates(node keel.NodeID, partition keel.PartitionNumber, limit uint32) ([]keel.Substate, error) {
	if t.finalized {
		return nil, newError(ErrFinalized, substateID{node: node, partition: partition})
	}
	substates, err := t.collect(node, partition, limit, false)
	if err != nil {
		return nil, err
	}
	drained := make([]*trackedSubstate, 0, len(substates))
	for _, substate := range substates {
		id := substateID{node, partition, substate.Key}
		tracked := t.lookup(id)
		if tracked.mutable || tracked.readers > 0 {
			return nil, newError(ErrSubstateLocked, id)
		}
		drained = append(drained, tracked)
	}
	for _, tracked := range drained {
		tracked.value = nil
		tracked.written = true
	}
	return substates, nil
}

// RevertNonForceWrites discards all writes except those made through
// force-write locks. It is used to keep fee payments of failed transactions.
func (t *Track) RevertNonForceWrites() {
	for _, id := range t.nodeOrder {
		node := t.nodes[id]
		for _, number := range node.partitionOrder {
			for _, substate := range node.partitions[number].substates {
				if substate.forced {
					substate.value = substate.forceValue
					substate.written = true
				} else {
					substate.value = substate.original
					substate.written = false
				}
				substate.readers = 0
				substate.mutable = false
			}
		}
	}
	clear(t.locks)
}

// Commits computes the diff of the track without finalizing it.
func (t *Track) Commits() []StoreCommit {
	res := []StoreCommit{}
	for _, id := range t.nodeOrder {
		node := t.nodes[id]
		for _, number := range node.partitionOrder {
			partition := node.partitions[number]
			for _, key := range partition.order {
				if commit, ok := partition.substates[key].commit(id, number, key); ok {
					res = append(res, commit)
				}
			}
		}
	}
	return res
}

func (s *trackedSubstate) commit(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (StoreCommit, bool) {
	if !s.written {
		return StoreCommit{}, false
	}
	res := StoreCommit{Node: node, Partition: partition, Key: key}
	switch {
	case s.original == nil && s.value == nil:
		return StoreCommit{}, false
	case s.original == nil:
		res.Kind = Insert
		res.Size = substateSize(key, *s.value)
	case s.value == nil:
		res.Kind = Delete
		res.OldSize = substateSize(key, *s.original)
	default:
		if bytes.Equal(s.original.Bytes(), s.value.Bytes()) {
			return StoreCommit{}, false
		}
		res.Kind = Update
		res.Size = substateSize(key, *s.value)
		res.OldSize = substateSize(key, *s.original)
	}
	if s.value != nil {
		res.Value = *s.value
	}
	return res, true
}

func substateSize(key keel.SubstateKey, value keel.IndexedValue) int {
	return len(key.Bytes()) + value.Len()
}

// Finalize ends the transaction and returns its diff, both as a list of
// commits in track order and as database updates. All locks must have been
// released before.
func (t *Track) Finalize() ([]StoreCommit, *keel.DatabaseUpdates, error) {
	if t.finalized {
		return nil, nil, ErrFinalized
	}
	if len(t.locks) > 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrOpenLocks, len(t.locks))
	}
	t.finalized = true
	commits := t.Commits()
	updates := &keel.DatabaseUpdates{}
	for _, commit := range commits {
		if commit.Kind == Delete {
			updates.Remove(commit.Node, commit.Partition, commit.Key)
		} else {
			updates.Set(commit.Node, commit.Partition, commit.Key, commit.Value.Bytes())
		}
	}
	return commits, updates, nil
}
