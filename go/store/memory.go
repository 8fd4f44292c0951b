// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import (
	"bytes"
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// Memory is an in-memory SubstateDatabase. It lists substates in the same
// order as all other databases in this package.
type Memory struct {
	partitions map[string]map[string][]byte
}

// NewMemory creates an empty in-memory database.
func NewMemory() *Memory {
	return &Memory{partitions: map[string]map[string][]byte{}}
}

func (m *Memory) GetSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) ([]byte, bool, error) {
	value, found := m.partitions[string(PartitionKey(node, partition))][string(SortKey(key))]
	if !found {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

func (m *Memory) ListSubstates(node keel.NodeID, partition keel.PartitionNumber) ([]keel.DatabaseEntry, error) {
	entries := m.partitions[string(PartitionKey(node, partition))]
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	res := make([]keel.DatabaseEntry, 0, len(keys))
	for _, key := range keys {
		substateKey, err := SubstateKeyFromSortKey([]byte(key))
		if err != nil {
			return nil, err
		}
		res = append(res, keel.DatabaseEntry{Key: substateKey, Value: bytes.Clone(entries[key])})
	}
	return res, nil
}

func (m *Memory) Commit(updates *keel.DatabaseUpdates) error {
	if updates == nil {
		return nil
	}
	for _, update := range updates.Updates {
		partitionKey := string(PartitionKey(update.Node, update.Partition))
		sortKey := string(SortKey(update.Key))
		if update.Delete {
			if entries, found := m.partitions[partitionKey]; found {
				delete(entries, sortKey)
				if len(entries) == 0 {
					delete(m.partitions, partitionKey)
				}
			}
			continue
		}
		entries, found := m.partitions[partitionKey]
		if !found {
			entries = map[string][]byte{}
			m.partitions[partitionKey] = entries
		}
		entries[sortKey] = bytes.Clone(update.Value)
	}
	return nil
}

// Len returns the number of substates in the database.
func (m *Memory) Len() int {
	res := 0
	for _, entries := range m.partitions {
		res += len(entries)
	}
	return res
}
