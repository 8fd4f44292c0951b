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
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	"lukechampine.com/blake3"
)

// The key layout shared by all database implementations in this package.
//
// A database key is the concatenation of a partition key and a sort key:
//
//	partition key: blake3(node, partition)[:hashPrefixLength] | node | partition
//	sort key:      0x00 | field
//	               0x01 | blake3(key)[:hashPrefixLength] | key
//	               0x02 | sort prefix (big-endian) | key
//
// The hash prefix of the partition key spreads entities uniformly over the
// key space. Map keys are hashed for the same reason, while sorted keys keep
// their sort prefix so that iterating a partition yields them in order.

const hashPrefixLength = 20

// PartitionKeyLength is the length of the partition part of a database key.
const PartitionKeyLength = hashPrefixLength + keel.NodeIDLength + 1

// PartitionKey maps a partition of a node to its database prefix.
func PartitionKey(node keel.NodeID, partition keel.PartitionNumber) []byte {
	res := make([]byte, 0, PartitionKeyLength)
	plain := make([]byte, 0, keel.NodeIDLength+1)
	plain = append(plain, node[:]...)
	plain = append(plain, byte(partition))
	hash := blake3.Sum256(plain)
	res = append(res, hash[:hashPrefixLength]...)
	return append(res, plain...)
}

// SortKey maps a substate key to its database representation within a
// partition.
func SortKey(key keel.SubstateKey) []byte {
	if key.Kind() != keel.MapKeyKind {
		return key.Bytes()
	}
	raw := key.Key()
	hash := blake3.Sum256(raw)
	res := make([]byte, 0, 1+hashPrefixLength+len(raw))
	res = append(res, byte(keel.MapKeyKind))
	res = append(res, hash[:hashPrefixLength]...)
	return append(res, raw...)
}

// SubstateKeyFromSortKey is the inverse of SortKey.
func SubstateKeyFromSortKey(data []byte) (keel.SubstateKey, error) {
	if len(data) > 0 && data[0] == byte(keel.MapKeyKind) {
		if len(data) < 1+hashPrefixLength {
			return keel.SubstateKey{}, fmt.Errorf("invalid map sort key length %d", len(data))
		}
		return keel.MapKey(data[1+hashPrefixLength:]), nil
	}
	return keel.SubstateKeyFromBytes(data)
}

// DbKey is the full database key of a substate.
func DbKey(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) []byte {
	return append(PartitionKey(node, partition), SortKey(key)...)
}
