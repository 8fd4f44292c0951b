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
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
	"golang.org/x/exp/maps"
)

// Heap holds the nodes created during a transaction that are not (yet)
// reachable from a global node. Partitions keep their substates in
// insertion order.
type Heap struct {
	nodes map[keel.NodeID]*heapNode
}

type heapNode struct {
	partitions map[keel.PartitionNumber]*heapPartition
}

type heapPartition struct {
	substates map[keel.SubstateKey]keel.IndexedValue
	order     []keel.SubstateKey
}

func NewHeap() *Heap {
	return &Heap{nodes: map[keel.NodeID]*heapNode{}}
}

func (h *Heap) Contains(id keel.NodeID) bool {
	_, found := h.nodes[id]
	return found
}

func (h *Heap) Len() int {
	return len(h.nodes)
}

// CreateNode adds a node to the heap. Substates are inserted in increasing
// partition and key order.
func (h *Heap) CreateNode(id keel.NodeID, substates keel.NodeSubstates) {
	node := &heapNode{partitions: map[keel.PartitionNumber]*heapPartition{}}
	h.nodes[id] = node
	partitions := maps.Keys(substates)
	slices.Sort(partitions)
	for _, number := range partitions {
		keys := maps.Keys(substates[number])
		slices.SortFunc(keys, keel.CompareSubstateKeys)
		for _, key := range keys {
			node.partition(number).set(key, substates[number][key])
		}
	}
}

func (n *heapNode) partition(number keel.PartitionNumber) *heapPartition {
	partition, found := n.partitions[number]
	if !found {
		partition = &heapPartition{substates: map[keel.SubstateKey]keel.IndexedValue{}}
		n.partitions[number] = partition
	}
	return partition
}

func (p *heapPartition) set(key keel.SubstateKey, value keel.IndexedValue) {
	if _, found := p.substates[key]; !found {
		p.order = append(p.order, key)
	}
	p.substates[key] = value
}

func (p *heapPartition) remove(key keel.SubstateKey) (keel.IndexedValue, bool) {
	value, found := p.substates[key]
	if !found {
		return keel.IndexedValue{}, false
	}
	delete(p.substates, key)
	p.order = slices.DeleteFunc(p.order, func(k keel.SubstateKey) bool { return k == key })
	return value, true
}

func (p *heapPartition) list() []keel.Substate {
	res := make([]keel.Substate, 0, len(p.order))
	for _, key := range p.order {
		res = append(res, keel.Substate{Key: key, Value: p.substates[key]})
	}
	return res
}

func (h *Heap) GetSubstate(id keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool) {
	node, found := h.nodes[id]
	if !found {
		return keel.IndexedValue{}, false
	}
	p, found := node.partitions[partition]
	if !found {
		return keel.IndexedValue{}, false
	}
	value, found := p.substates[key]
	return value, found
}

// SetSubstate writes a substate of a node in the heap.
func (h *Heap) SetSubstate(id keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey, value keel.IndexedValue) error {
	node, found := h.nodes[id]
	if !found {
		return ErrNodeNotFound
	}
	node.partition(partition).set(key, value)
	return nil
}

func (h *Heap) RemoveSubstate(id keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) (keel.IndexedValue, bool) {
	node, found := h.nodes[id]
	if !found {
		return keel.IndexedValue{}, false
	}
	p, found := node.partitions[partition]
	if !found {
		return keel.IndexedValue{}, false
	}
	return p.remove(key)
}

// ListSubstates lists the substates of a partition in insertion order.
func (h *Heap) ListSubstates(id keel.NodeID, partition keel.PartitionNumber) []keel.Substate {
	node, found := h.nodes[id]
	if !found {
		return nil
	}
	p, found := node.partitions[partition]
	if !found {
		return nil
	}
	return p.list()
}

// MovePartition moves a partition of one heap node into another one. The
// target partition must not exist.
func (h *Heap) MovePartition(source keel.NodeID, sourcePartition keel.PartitionNumber, target keel.NodeID, targetPartition keel.PartitionNumber) error {
	from, found := h.nodes[source]
	if !found {
		return ErrNodeNotFound
	}
	to, found := h.nodes[target]
	if !found {
		return ErrNodeNotFound
	}
	if _, found := to.partitions[targetPartition]; found {
		return ErrNodeExists
	}
	if p, found := from.partitions[sourcePartition]; found {
		delete(from.partitions, sourcePartition)
		to.partitions[targetPartition] = p
	}
	return nil
}

// OwnedNodes lists the nodes owned by the substates of a heap node.
func (h *Heap) OwnedNodes(id keel.NodeID) []keel.NodeID {
	node, found := h.nodes[id]
	if !found {
		return nil
	}
	res := []keel.NodeID{}
	partitions := maps.Keys(node.partitions)
	slices.Sort(partitions)
	for _, number := range partitions {
		for _, key := range node.partitions[number].order {
			res = append(res, node.partitions[number].substates[key].OwnedNodes()...)
		}
	}
	return res
}

// RemoveNode removes a node from the heap and returns its content.
func (h *Heap) RemoveNode(id keel.NodeID) (keel.NodeSubstates, error) {
	node, found := h.nodes[id]
	if !found {
		return nil, ErrNodeNotFound
	}
	delete(h.nodes, id)
	res := keel.NodeSubstates{}
	for number, partition := range node.partitions {
		for key, value := range partition.substates {
			res.Set(number, key, value)
		}
	}
	return res, nil
}

// ownedNodes lists the nodes owned by the substates of a node, in partition
// and key order.
func ownedNodes(substates keel.NodeSubstates) []keel.NodeID {
	res := []keel.NodeID{}
	partitions := maps.Keys(substates)
	slices.Sort(partitions)
	for _, number := range partitions {
		keys := maps.Keys(substates[number])
		slices.SortFunc(keys, keel.CompareSubstateKeys)
		for _, key := range keys {
			res = append(res, substates[number][key].OwnedNodes()...)
		}
	}
	return res
}
