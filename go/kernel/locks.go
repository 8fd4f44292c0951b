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

import "github.com/Fantom-foundation/Keel/go/keel"

type substateID struct {
	node      keel.NodeID
	partition keel.PartitionNumber
	key       keel.SubstateKey
}

type lockState struct {
	readers int
	mutable bool
}

// SubstateLocks tracks the open substates of all call frames of a
// transaction, for heap and store nodes alike.
type SubstateLocks struct {
	substates map[substateID]*lockState
	nodes     map[keel.NodeID]int
}

func NewSubstateLocks() *SubstateLocks {
	return &SubstateLocks{
		substates: map[substateID]*lockState{},
		nodes:     map[keel.NodeID]int{},
	}
}

// Lock registers a lock on the given substate. It fails if the lock would
// conflict with an existing one.
func (l *SubstateLocks) Lock(id substateID, mutable bool) bool {
	state, found := l.substates[id]
	if !found {
		state = &lockState{}
		l.substates[id] = state
	}
	if state.mutable || (mutable && state.readers > 0) {
		return false
	}
	if mutable {
		state.mutable = true
	} else {
		state.readers++
	}
	l.nodes[id.node]++
	return true
}

func (l *SubstateLocks) Unlock(id substateID, mutable bool) {
	state, found := l.substates[id]
	if !found {
		return
	}
	if mutable {
		state.mutable = false
	} else {
		state.readers--
	}
	if !state.mutable && state.readers == 0 {
		delete(l.substates, id)
	}
	if l.nodes[id.node]--; l.nodes[id.node] <= 0 {
		delete(l.nodes, id.node)
	}
}

// IsLocked reports whether the given substate has any open lock.
func (l *SubstateLocks) IsLocked(id substateID) bool {
	_, found := l.substates[id]
	return found
}

// IsNodeLocked reports whether any substate of the given node is open.
func (l *SubstateLocks) IsNodeLocked(node keel.NodeID) bool {
	return l.nodes[node] > 0
}
