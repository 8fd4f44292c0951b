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
	"slices"
	"testing"
)

type testPayload struct {
	Name     string
	Counter  uint64
	Child    Own
	Others   []Reference
	Nested   *testNested
	internal Own
}

type testNested struct {
	Vaults []Own
}

func TestIndexedValue_OwnedAndReferencedNodesAreIndexed(t *testing.T) {
	a := NewNodeID(EntityTypeInternalFungibleVault, []byte{1})
	b := NewNodeID(EntityTypeInternalFungibleVault, []byte{2})
	c := NewNodeID(EntityTypeGlobalAccount, []byte{3})
	d := NewNodeID(EntityTypeGlobalPackage, []byte{4})
	hidden := NewNodeID(EntityTypeInternalFungibleBucket, []byte{5})

	value, err := NewIndexedValue(testPayload{
		Name:     "test",
		Counter:  12,
		Child:    Own(a),
		Others:   []Reference{Reference(c), Reference(d)},
		Nested:   &testNested{Vaults: []Own{Own(b)}},
		internal: Own(hidden),
	})
	if err != nil {
		t.Fatalf("failed to encode value: %v", err)
	}

	if want, got := []NodeID{a, b}, value.OwnedNodes(); !slices.Equal(want, got) {
		t.Errorf("unexpected owned nodes, wanted %v, got %v", want, got)
	}
	if want, got := []NodeID{c, d}, value.References(); !slices.Equal(want, got) {
		t.Errorf("unexpected references, wanted %v, got %v", want, got)
	}
}

func TestIndexedValue_CanBeRestoredFromBytes(t *testing.T) {
	child := NewNodeID(EntityTypeInternalKeyValueStore, []byte{1})
	value := MustIndexedValue(testPayload{Name: "x", Child: Own(child)})

	restored, err := IndexedValueFromBytes(value.Bytes())
	if err != nil {
		t.Fatalf("failed to restore value: %v", err)
	}
	if !value.Equal(restored) {
		t.Errorf("restored value differs")
	}
	if want, got := []NodeID{child}, restored.OwnedNodes(); !slices.Equal(want, got) {
		t.Errorf("unexpected owned nodes, wanted %v, got %v", want, got)
	}

	var decoded testPayload
	if err := restored.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.Name != "x" || decoded.Child != Own(child) {
		t.Errorf("unexpected decoded payload: %v", decoded)
	}
}

func TestIndexedValue_EmbeddedValuesKeepTheirIndex(t *testing.T) {
	type wrapper struct {
		Inner IndexedValue
		Extra Reference
	}
	child := NewNodeID(EntityTypeInternalFungibleBucket, []byte{1})
	ref := NewNodeID(EntityTypeGlobalFungibleResource, []byte{2})
	value := MustIndexedValue(wrapper{
		Inner: MustIndexedValue(struct{ Bucket Own }{Own(child)}),
		Extra: Reference(ref),
	})

	if want, got := []NodeID{child}, value.OwnedNodes(); !slices.Equal(want, got) {
		t.Errorf("unexpected owned nodes, wanted %v, got %v", want, got)
	}
	if want, got := []NodeID{ref}, value.References(); !slices.Equal(want, got) {
		t.Errorf("unexpected references, wanted %v, got %v", want, got)
	}

	var decoded wrapper
	if err := value.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if want, got := []NodeID{child}, decoded.Inner.OwnedNodes(); !slices.Equal(want, got) {
		t.Errorf("unexpected owned nodes of inner value, wanted %v, got %v", want, got)
	}
}

func TestIndexedValue_MapsAreRejected(t *testing.T) {
	if _, err := NewIndexedValue(struct{ M map[string]uint64 }{}); err == nil {
		t.Errorf("expected maps to be rejected")
	}
}

func TestIndexedValue_InvalidBytesAreRejected(t *testing.T) {
	if _, err := IndexedValueFromBytes([]byte{0xFF, 0x01}); err == nil {
		t.Errorf("expected invalid bytes to be rejected")
	}
}

func TestIndexedValue_UnitValueIsNotEmpty(t *testing.T) {
	if UnitValue.IsEmpty() {
		t.Errorf("unit value must not be empty")
	}
	if len(UnitValue.OwnedNodes()) != 0 || len(UnitValue.References()) != 0 {
		t.Errorf("unit value must not index any nodes")
	}
}

func TestIndexedValue_TextEncoding(t *testing.T) {
	value := MustIndexedValue(struct{ A uint64 }{A: 5})
	text, err := value.MarshalText()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	var restored IndexedValue
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !value.Equal(restored) {
		t.Errorf("unexpected restored value, wanted %v, got %v", value, restored)
	}
}

func TestIndexedValue_EmptyTextEncoding(t *testing.T) {
	var value IndexedValue
	text, err := value.MarshalText()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	restored := UnitValue
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("failed to decode %q: %v", text, err)
	}
	if !restored.IsEmpty() {
		t.Errorf("expected empty value, got %v", restored)
	}
}
