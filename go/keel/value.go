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
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
)

// Own marks a node id embedded in a value as owned by the substate holding
// the value. A node can have at most one owner.
type Own NodeID

// Reference marks a node id embedded in a value as a non-owning pointer.
type Reference NodeID

func (o Own) NodeID() NodeID {
	return NodeID(o)
}

func (r Reference) NodeID() NodeID {
	return NodeID(r)
}

// IndexedValue is an encoded substate value together with the index of the
// nodes it owns and references. The index is computed when the value is
// encoded and travels with the value.
type IndexedValue struct {
	raw     []byte
	payload []byte
	owned   []NodeID
	refs    []NodeID
}

// indexedEnvelope is the persisted form of an IndexedValue.
type indexedEnvelope struct {
	Payload []byte
	Owned   []NodeID
	Refs    []NodeID
}

var (
	ownType       = reflect.TypeOf(Own{})
	referenceType = reflect.TypeOf(Reference{})
)

// UnitValue is the encoding of an empty value.
var UnitValue = MustIndexedValue(struct{}{})

// NewIndexedValue rlp-encodes the given value and indexes all Own and
// Reference values found in its exported fields.
func NewIndexedValue(value any) (IndexedValue, error) {
	payload, err := rlp.EncodeToBytes(value)
	if err != nil {
		return IndexedValue{}, fmt.Errorf("failed to encode value: %w", err)
	}
	res := IndexedValue{payload: payload}
	if err := res.index(reflect.ValueOf(value)); err != nil {
		return IndexedValue{}, err
	}
	res.raw, err = rlp.EncodeToBytes(indexedEnvelope{
		Payload: res.payload,
		Owned:   res.owned,
		Refs:    res.refs,
	})
	if err != nil {
		return IndexedValue{}, fmt.Errorf("failed to encode value: %w", err)
	}
	return res, nil
}

// MustIndexedValue is like NewIndexedValue but panics on encoding failures.
// It is intended for values whose encoding can not fail.
func MustIndexedValue(value any) IndexedValue {
	res, err := NewIndexedValue(value)
	if err != nil {
		panic(err)
	}
	return res
}

// IndexedValueFromBytes restores an IndexedValue from its persisted form.
func IndexedValueFromBytes(data []byte) (IndexedValue, error) {
	var envelope indexedEnvelope
	if err := rlp.DecodeBytes(data, &envelope); err != nil {
		return IndexedValue{}, fmt.Errorf("invalid indexed value: %w", err)
	}
	return IndexedValue{
		raw:     bytes.Clone(data),
		payload: envelope.Payload,
		owned:   envelope.Owned,
		refs:    envelope.Refs,
	}, nil
}

// Decode decodes the payload into the given target, which must be a pointer.
func (v IndexedValue) Decode(target any) error {
	if v.raw == nil {
		return fmt.Errorf("cannot decode empty value")
	}
	return rlp.DecodeBytes(v.payload, target)
}

// Bytes returns the persisted form of the value.
func (v IndexedValue) Bytes() []byte {
	return v.raw
}

// Len is the size of the persisted form in bytes.
func (v IndexedValue) Len() int {
	return len(v.raw)
}

func (v IndexedValue) IsEmpty() bool {
	return v.raw == nil
}

// OwnedNodes lists the nodes owned by this value in encoding order.
func (v IndexedValue) OwnedNodes() []NodeID {
	return v.owned
}

// References lists the nodes referenced by this value in encoding order.
func (v IndexedValue) References() []NodeID {
	return v.refs
}

func (v IndexedValue) Equal(other IndexedValue) bool {
	return bytes.Equal(v.raw, other.raw)
}

func (v IndexedValue) String() string {
	return fmt.Sprintf("IndexedValue(0x%x, owned=%d, refs=%d)", v.payload, len(v.owned), len(v.refs))
}

// EncodeRLP writes the persisted form as a single rlp string so that values
// can be embedded in other encoded structures.
func (v IndexedValue) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, v.raw)
}

func (v *IndexedValue) DecodeRLP(s *rlp.Stream) error {
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*v = IndexedValue{}
		return nil
	}
	res, err := IndexedValueFromBytes(data)
	if err != nil {
		return err
	}
	*v = res
	return nil
}

func (v IndexedValue) MarshalText() ([]byte, error) {
	return bytesToText(v.raw)
}

func (v *IndexedValue) UnmarshalText(data []byte) error {
	raw, err := textToVarBytes(data)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*v = IndexedValue{}
		return nil
	}
	res, err := IndexedValueFromBytes(raw)
	if err != nil {
		return err
	}
	*v = res
	return nil
}

func (v *IndexedValue) index(value reflect.Value) error {
	if !value.IsValid() {
		return nil
	}
	switch value.Type() {
	case ownType:
		v.owned = append(v.owned, NodeID(value.Interface().(Own)))
		return nil
	case referenceType:
		v.refs = append(v.refs, NodeID(value.Interface().(Reference)))
		return nil
	case indexedValueType:
		// Values embedded in values keep their own index.
		inner := value.Interface().(IndexedValue)
		v.owned = append(v.owned, inner.owned...)
		v.refs = append(v.refs, inner.refs...)
		return nil
	}
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return nil
		}
		return v.index(value.Elem())
	case reflect.Struct:
		t := value.Type()
		for i := 0; i < value.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := v.index(value.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < value.Len(); i++ {
			if err := v.index(value.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		return fmt.Errorf("maps are not supported in substate values")
	}
	return nil
}

var indexedValueType = reflect.TypeOf(IndexedValue{})
