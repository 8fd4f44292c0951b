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
	"encoding/binary"
	"math"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/ethereum/go-ethereum/crypto"
)

// IdAllocator issues node ids derived from a seed, usually the hash of the
// transaction being executed. Two allocators with the same seed produce the
// same sequence of ids.
type IdAllocator struct {
	seed    keel.Hash
	counter uint32
}

func NewIdAllocator(seed keel.Hash) *IdAllocator {
	return &IdAllocator{seed: seed}
}

// Allocate returns the next id of the given entity type.
func (a *IdAllocator) Allocate(entityType keel.EntityType) (keel.NodeID, error) {
	if a.counter == math.MaxUint32 {
		return keel.NodeID{}, ErrNodeIDsExhausted
	}
	var buffer [len(keel.Hash{}) + 4]byte
	copy(buffer[:], a.seed[:])
	binary.BigEndian.PutUint32(buffer[len(a.seed):], a.counter)
	a.counter++
	return keel.NewNodeID(entityType, crypto.Keccak256(buffer[:])[:keel.NodeIDLength-1]), nil
}

// Allocated is the number of ids issued so far.
func (a *IdAllocator) Allocated() uint32 {
	return a.counter
}
