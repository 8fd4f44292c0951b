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
	"testing"

	"github.com/Fantom-foundation/Keel/go/keel"
)

func TestIdAllocator_SameSeedProducesSameIds(t *testing.T) {
	a := NewIdAllocator(keel.Hash{1, 2, 3})
	b := NewIdAllocator(keel.Hash{1, 2, 3})
	c := NewIdAllocator(keel.Hash{3, 2, 1})
	seen := map[keel.NodeID]struct{}{}
	for i := 0; i < 100; i++ {
		idA, errA := a.Allocate(keel.EntityTypeInternalKeyValueStore)
		idB, errB := b.Allocate(keel.EntityTypeInternalKeyValueStore)
		idC, errC := c.Allocate(keel.EntityTypeInternalKeyValueStore)
		if errA != nil || errB != nil || errC != nil {
			t.Fatalf("failed to allocate ids: %v, %v, %v", errA, errB, errC)
		}
		if idA != idB {
			t.Errorf("allocators with equal seeds diverged: %v vs %v", idA, idB)
		}
		if idA == idC {
			t.Errorf("allocators with different seeds produced the same id %v", idA)
		}
		if _, found := seen[idA]; found {
			t.Errorf("id %v allocated twice", idA)
		}
		seen[idA] = struct{}{}
	}
	if want, got := uint32(100), a.Allocated(); want != got {
		t.Errorf("unexpected allocation count, wanted %d, got %d", want, got)
	}
}

func TestIdAllocator_IdsCarryTheirEntityType(t *testing.T) {
	allocator := NewIdAllocator(keel.Hash{})
	types := []keel.EntityType{
		keel.EntityTypeGlobalAccount,
		keel.EntityTypeInternalFungibleVault,
		keel.EntityTypeInternalWorktop,
	}
	for _, entityType := range types {
		id, err := allocator.Allocate(entityType)
		if err != nil {
			t.Fatalf("failed to allocate id: %v", err)
		}
		if want, got := entityType, id.EntityType(); want != got {
			t.Errorf("unexpected entity type, wanted %v, got %v", want, got)
		}
	}
}

func TestIdAllocator_ExhaustedAllocatorFails(t *testing.T) {
	allocator := &IdAllocator{counter: 1<<32 - 1}
	if _, err := allocator.Allocate(keel.EntityTypeGlobalAccount); err != ErrNodeIDsExhausted {
		t.Errorf("expected exhaustion error, got %v", err)
	}
}
