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

//go:generate mockgen -source database.go -destination database_mock.go -package keel

// SubstateDatabase is the persistent store of committed substates. It offers
// no transactional guarantees; all of those are provided by the layers
// above. Implementations are accessed strictly sequentially.
type SubstateDatabase interface {
	// GetSubstate returns the committed value of the given substate and
	// whether it exists.
	GetSubstate(node NodeID, partition PartitionNumber, key SubstateKey) ([]byte, bool, error)

	// ListSubstates lists all substates of a partition in database order.
	// Database order is stable across implementations sharing the same
	// key mapping.
	ListSubstates(node NodeID, partition PartitionNumber) ([]DatabaseEntry, error)

	// Commit atomically applies the given updates.
	Commit(updates *DatabaseUpdates) error
}

// DatabaseEntry is a single substate as stored in a SubstateDatabase.
type DatabaseEntry struct {
	Key   SubstateKey
	Value []byte
}

// DatabaseUpdate sets or deletes a single substate.
type DatabaseUpdate struct {
	Node      NodeID
	Partition PartitionNumber
	Key       SubstateKey
	Value     []byte
	Delete    bool
}

// DatabaseUpdates is an ordered list of updates to be committed as a unit.
type DatabaseUpdates struct {
	Updates []DatabaseUpdate
}

func (u *DatabaseUpdates) Set(node NodeID, partition PartitionNumber, key SubstateKey, value []byte) {
	u.Updates = append(u.Updates, DatabaseUpdate{Node: node, Partition: partition, Key: key, Value: value})
}

func (u *DatabaseUpdates) Remove(node NodeID, partition PartitionNumber, key SubstateKey) {
	u.Updates = append(u.Updates, DatabaseUpdate{Node: node, Partition: partition, Key: key, Delete: true})
}

func (u *DatabaseUpdates) Len() int {
	if u == nil {
		return 0
	}
	return len(u.Updates)
}
