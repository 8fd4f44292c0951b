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

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestNodeID_EntityTypeIsEncodedInLeadingByte(t *testing.T) {
	tests := []struct {
		entityType EntityType
		global     bool
		virtual    bool
	}{
		{EntityTypeGlobalPackage, true, false},
		{EntityTypeGlobalFungibleResource, true, false},
		{EntityTypeGlobalAccount, true, false},
		{EntityTypeGlobalIdentity, true, false},
		{EntityTypeGlobalGenericComponent, true, false},
		{EntityTypeGlobalVirtualSecp256k1Account, true, true},
		{EntityTypeGlobalVirtualEd25519Account, true, true},
		{EntityTypeGlobalVirtualSecp256k1Identity, true, true},
		{EntityTypeGlobalVirtualEd25519Identity, true, true},
		{EntityTypeInternalGenericComponent, false, false},
		{EntityTypeInternalFungibleVault, false, false},
		{EntityTypeInternalKeyValueStore, false, false},
		{EntityTypeInternalIndex, false, false},
		{EntityTypeInternalSortedIndex, false, false},
		{EntityTypeInternalFungibleBucket, false, false},
		{EntityTypeInternalFungibleProof, false, false},
		{EntityTypeInternalWorktop, false, false},
	}

	for _, test := range tests {
		t.Run(test.entityType.String(), func(t *testing.T) {
			id := NewNodeID(test.entityType, []byte{1, 2, 3})
			if want, got := test.entityType, id.EntityType(); want != got {
				t.Errorf("unexpected entity type, wanted %v, got %v", want, got)
			}
			if want, got := test.global, id.IsGlobal(); want != got {
				t.Errorf("unexpected global flag, wanted %t, got %t", want, got)
			}
			if want, got := !test.global, id.IsInternal(); want != got {
				t.Errorf("unexpected internal flag, wanted %t, got %t", want, got)
			}
			if want, got := test.virtual, id.IsGlobalVirtual(); want != got {
				t.Errorf("unexpected virtual flag, wanted %t, got %t", want, got)
			}
			if strings.HasPrefix(test.entityType.String(), "EntityType(") {
				t.Errorf("missing name for entity type %d", byte(test.entityType))
			}
		})
	}
}

func TestNodeID_JSON_Encoding(t *testing.T) {
	id := NewNodeID(EntityTypeGlobalAccount, []byte{0xAB})
	encoded, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("failed to encode into JSON: %v", err)
	}
	want := "\"0xc1ab" + strings.Repeat("00", NodeIDLength-2) + "\""
	if got := string(encoded); want != got {
		t.Errorf("unexpected JSON encoding, wanted %v, got %v", want, got)
	}
	var restored NodeID
	if err := json.Unmarshal(encoded, &restored); err != nil {
		t.Fatalf("failed to restore node id: %v", err)
	}
	if id != restored {
		t.Errorf("unexpected restored value, wanted %v, got %v", id, restored)
	}
}

func TestNodeID_JSON_InvalidValueDecodingFails(t *testing.T) {
	tests := map[string]string{
		"empty":                 "\"\"",
		"empty with hex prefix": "\"0x\"",
		"no hex prefix":         "\"" + strings.Repeat("00", NodeIDLength) + "\"",
		"too short":             "\"0x" + strings.Repeat("00", NodeIDLength-1) + "\"",
		"too long":              "\"0x" + strings.Repeat("00", NodeIDLength+1) + "\"",
		"odd length":            "\"0x" + strings.Repeat("00", NodeIDLength) + "1\"",
		"invalid hex":           "\"0x0g" + strings.Repeat("00", NodeIDLength-1) + "\"",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var id NodeID
			if json.Unmarshal([]byte(data), &id) == nil {
				t.Errorf("expected decoding to fail, but instead it produced %v", id)
			}
		})
	}
}

func TestSubstateKey_BytesCanBeRestored(t *testing.T) {
	tests := map[string]SubstateKey{
		"field":        FieldKey(7),
		"map":          MapKey([]byte("hello")),
		"empty map":    MapKey(nil),
		"sorted":       SortedKey(12, []byte{1, 2}),
		"sorted empty": SortedKey(0xFFFF, nil),
	}

	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			restored, err := SubstateKeyFromBytes(key.Bytes())
			if err != nil {
				t.Fatalf("failed to restore key: %v", err)
			}
			if key != restored {
				t.Errorf("unexpected restored key, wanted %v, got %v", key, restored)
			}
		})
	}
}

func TestSubstateKey_InvalidEncodingsAreRejected(t *testing.T) {
	tests := map[string][]byte{
		"empty":        nil,
		"short field":  {byte(FieldKeyKind)},
		"long field":   {byte(FieldKeyKind), 1, 2},
		"short sorted": {byte(SortedKeyKind), 1},
		"unknown kind": {0x7F, 1},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if key, err := SubstateKeyFromBytes(data); err == nil {
				t.Errorf("expected decoding to fail, got %v", key)
			}
		})
	}
}

func TestSubstateKey_SortedKeysAreOrderedBySortPrefixFirst(t *testing.T) {
	keys := []SubstateKey{
		SortedKey(2, []byte{0}),
		SortedKey(1, []byte{9}),
		SortedKey(1, []byte{1}),
		SortedKey(0x100, []byte{0}),
	}
	slices.SortFunc(keys, CompareSubstateKeys)
	want := []SubstateKey{
		SortedKey(1, []byte{1}),
		SortedKey(1, []byte{9}),
		SortedKey(2, []byte{0}),
		SortedKey(0x100, []byte{0}),
	}
	if !slices.Equal(want, keys) {
		t.Errorf("unexpected order, wanted %v, got %v", want, keys)
	}
}

func TestSubstateKey_KeysAreComparable(t *testing.T) {
	set := map[SubstateKey]int{}
	set[MapKey([]byte("a"))] = 1
	set[MapKey([]byte("a"))] = 2
	set[FieldKey(0)] = 3
	if want, got := 2, len(set); want != got {
		t.Errorf("unexpected number of distinct keys, wanted %d, got %d", want, got)
	}
}

func TestLockFlags_String(t *testing.T) {
	tests := map[LockFlags]string{
		0:                                "read-only",
		LockMutable:                      "mutable",
		LockMutable | LockForceWrite:     "mutable|force-write",
		LockUnmodifiedBase | LockMutable: "mutable|unmodified-base",
	}
	for flags, want := range tests {
		if got := flags.String(); want != got {
			t.Errorf("unexpected string, wanted %v, got %v", want, got)
		}
	}
}
