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
	"cmp"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NodeIDLength is the number of bytes of a NodeID.
const NodeIDLength = 30

// NodeID identifies a node, a set of substates sharing one owner. The first
// byte encodes the EntityType of the node.
type NodeID [NodeIDLength]byte

// Hash represents the 256-bit (32 bytes) hash of a transaction, a code or
// similar sequence of cryptographic summary information.
type Hash [32]byte

// Code represents the byte-code of a package.
type Code []byte

// EntityType is encoded in the leading byte of every NodeID.
type EntityType byte

const (
	EntityTypeUnknown EntityType = 0

	// Global entities, addressable from everywhere once rooted in the store.
	EntityTypeGlobalPackage                  EntityType = 0x0d
	EntityTypeGlobalFungibleResource         EntityType = 0x5d
	EntityTypeGlobalAccount                  EntityType = 0xc1
	EntityTypeGlobalIdentity                 EntityType = 0xc2
	EntityTypeGlobalGenericComponent         EntityType = 0xc0
	EntityTypeGlobalVirtualSecp256k1Account  EntityType = 0xd1
	EntityTypeGlobalVirtualEd25519Account    EntityType = 0x51
	EntityTypeGlobalVirtualSecp256k1Identity EntityType = 0xd2
	EntityTypeGlobalVirtualEd25519Identity   EntityType = 0x52

	// Internal entities, always owned by exactly one frame or substate.
	EntityTypeInternalGenericComponent EntityType = 0xf8
	EntityTypeInternalFungibleVault    EntityType = 0x58
	EntityTypeInternalKeyValueStore    EntityType = 0xb0
	EntityTypeInternalIndex            EntityType = 0x80
	EntityTypeInternalSortedIndex      EntityType = 0x81
	EntityTypeInternalFungibleBucket   EntityType = 0xe1
	EntityTypeInternalFungibleProof    EntityType = 0xe2
	EntityTypeInternalWorktop          EntityType = 0xe3
)

func (t EntityType) IsGlobal() bool {
	switch t {
	case EntityTypeGlobalPackage,
		EntityTypeGlobalFungibleResource,
		EntityTypeGlobalAccount,
		EntityTypeGlobalIdentity,
		EntityTypeGlobalGenericComponent,
		EntityTypeGlobalVirtualSecp256k1Account,
		EntityTypeGlobalVirtualEd25519Account,
		EntityTypeGlobalVirtualSecp256k1Identity,
		EntityTypeGlobalVirtualEd25519Identity:
		return true
	}
	return false
}

// IsGlobalVirtual reports whether nodes of this type are materialized lazily
// from their address the first time they are accessed.
func (t EntityType) IsGlobalVirtual() bool {
	switch t {
	case EntityTypeGlobalVirtualSecp256k1Account,
		EntityTypeGlobalVirtualEd25519Account,
		EntityTypeGlobalVirtualSecp256k1Identity,
		EntityTypeGlobalVirtualEd25519Identity:
		return true
	}
	return false
}

// IsGlobalComponent reports whether a global node of this type is a thin
// address wrapper around an internal component node that invocations are
// redirected to.
func (t EntityType) IsGlobalComponent() bool {
	return t.IsGlobal() && t != EntityTypeGlobalPackage && t != EntityTypeGlobalFungibleResource
}

func (t EntityType) IsVault() bool {
	return t == EntityTypeInternalFungibleVault
}

func (t EntityType) String() string {
	switch t {
	case EntityTypeGlobalPackage:
		return "GlobalPackage"
	case EntityTypeGlobalFungibleResource:
		return "GlobalFungibleResource"
	case EntityTypeGlobalAccount:
		return "GlobalAccount"
	case EntityTypeGlobalIdentity:
		return "GlobalIdentity"
	case EntityTypeGlobalGenericComponent:
		return "GlobalGenericComponent"
	case EntityTypeGlobalVirtualSecp256k1Account:
		return "GlobalVirtualSecp256k1Account"
	case EntityTypeGlobalVirtualEd25519Account:
		return "GlobalVirtualEd25519Account"
	case EntityTypeGlobalVirtualSecp256k1Identity:
		return "GlobalVirtualSecp256k1Identity"
	case EntityTypeGlobalVirtualEd25519Identity:
		return "GlobalVirtualEd25519Identity"
	case EntityTypeInternalGenericComponent:
		return "InternalGenericComponent"
	case EntityTypeInternalFungibleVault:
		return "InternalFungibleVault"
	case EntityTypeInternalKeyValueStore:
		return "InternalKeyValueStore"
	case EntityTypeInternalIndex:
		return "InternalIndex"
	case EntityTypeInternalSortedIndex:
		return "InternalSortedIndex"
	case EntityTypeInternalFungibleBucket:
		return "InternalFungibleBucket"
	case EntityTypeInternalFungibleProof:
		return "InternalFungibleProof"
	case EntityTypeInternalWorktop:
		return "InternalWorktop"
	}
	return fmt.Sprintf("EntityType(%d)", byte(t))
}

// NewNodeID composes a NodeID from an entity type and up to 29 bytes of
// payload. Missing payload bytes are zero.
func NewNodeID(entityType EntityType, payload []byte) NodeID {
	var id NodeID
	id[0] = byte(entityType)
	copy(id[1:], payload)
	return id
}

func (n NodeID) EntityType() EntityType {
	return EntityType(n[0])
}

func (n NodeID) IsGlobal() bool {
	return n.EntityType().IsGlobal()
}

func (n NodeID) IsInternal() bool {
	return !n.IsGlobal()
}

func (n NodeID) IsGlobalVirtual() bool {
	return n.EntityType().IsGlobalVirtual()
}

func (n NodeID) String() string {
	return fmt.Sprintf("0x%x", n[:])
}

func (n NodeID) MarshalText() ([]byte, error) {
	return bytesToText(n[:])
}

func (n *NodeID) UnmarshalText(data []byte) error {
	return textToBytes(n[:], data)
}

func CompareNodeIDs(a, b NodeID) int {
	return bytes.Compare(a[:], b[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

// PartitionNumber groups related substates of one node.
type PartitionNumber uint8

const (
	TypeInfoPartition    PartitionNumber = 0
	GlobalPartition      PartitionNumber = 1
	MetadataPartition    PartitionNumber = 2
	RoyaltyPartition     PartitionNumber = 3
	AccessRulesPartition PartitionNumber = 4
	MainPartition        PartitionNumber = 64
)

// SubstateKeyKind distinguishes the three addressing schemes within a
// partition.
type SubstateKeyKind uint8

const (
	FieldKeyKind SubstateKeyKind = iota
	MapKeyKind
	SortedKeyKind
)

func (k SubstateKeyKind) String() string {
	switch k {
	case FieldKeyKind:
		return "field"
	case MapKeyKind:
		return "map"
	case SortedKeyKind:
		return "sorted"
	}
	return fmt.Sprintf("SubstateKeyKind(%d)", uint8(k))
}

// SubstateKey addresses a substate within a partition. Keys are comparable
// and may be used as map keys.
type SubstateKey struct {
	kind  SubstateKeyKind
	field uint8
	sort  uint16
	key   string
}

// FieldKey addresses a fixed field of a node.
func FieldKey(index uint8) SubstateKey {
	return SubstateKey{kind: FieldKeyKind, field: index}
}

// MapKey addresses an entry of a key-value collection.
func MapKey(key []byte) SubstateKey {
	return SubstateKey{kind: MapKeyKind, key: string(key)}
}

// SortedKey addresses an entry of a sorted index. Entries are ordered by the
// sort prefix first and by the key bytes second.
func SortedKey(sort uint16, key []byte) SubstateKey {
	return SubstateKey{kind: SortedKeyKind, sort: sort, key: string(key)}
}

func (k SubstateKey) Kind() SubstateKeyKind {
	return k.kind
}

func (k SubstateKey) Field() uint8 {
	return k.field
}

func (k SubstateKey) SortPrefix() uint16 {
	return k.sort
}

func (k SubstateKey) Key() []byte {
	return []byte(k.key)
}

// Bytes produces the canonical encoding of the key, including its kind. The
// encoding of sorted keys preserves their order.
func (k SubstateKey) Bytes() []byte {
	switch k.kind {
	case FieldKeyKind:
		return []byte{byte(FieldKeyKind), k.field}
	case SortedKeyKind:
		res := make([]byte, 3, 3+len(k.key))
		res[0] = byte(SortedKeyKind)
		binary.BigEndian.PutUint16(res[1:], k.sort)
		return append(res, k.key...)
	default:
		return append([]byte{byte(MapKeyKind)}, k.key...)
	}
}

// SubstateKeyFromBytes is the inverse of SubstateKey.Bytes.
func SubstateKeyFromBytes(data []byte) (SubstateKey, error) {
	if len(data) == 0 {
		return SubstateKey{}, fmt.Errorf("invalid substate key: empty")
	}
	switch SubstateKeyKind(data[0]) {
	case FieldKeyKind:
		if len(data) != 2 {
			return SubstateKey{}, fmt.Errorf("invalid field key length %d", len(data))
		}
		return FieldKey(data[1]), nil
	case MapKeyKind:
		return MapKey(data[1:]), nil
	case SortedKeyKind:
		if len(data) < 3 {
			return SubstateKey{}, fmt.Errorf("invalid sorted key length %d", len(data))
		}
		return SortedKey(binary.BigEndian.Uint16(data[1:3]), data[3:]), nil
	}
	return SubstateKey{}, fmt.Errorf("invalid substate key kind %d", data[0])
}

// CompareSubstateKeys orders keys by kind, then by their encoding. For sorted
// keys this is the sort-prefix order.
func CompareSubstateKeys(a, b SubstateKey) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	return bytes.Compare(a.Bytes(), b.Bytes())
}

func (k SubstateKey) String() string {
	switch k.kind {
	case FieldKeyKind:
		return fmt.Sprintf("Field(%d)", k.field)
	case SortedKeyKind:
		return fmt.Sprintf("Sorted(%d, 0x%x)", k.sort, k.key)
	default:
		return fmt.Sprintf("Map(0x%x)", k.key)
	}
}

// LockFlags control the kind of access granted when opening a substate.
type LockFlags uint8

const (
	// LockMutable grants exclusive write access.
	LockMutable LockFlags = 1 << iota
	// LockUnmodifiedBase requires the substate not to have been written in
	// the ongoing transaction.
	LockUnmodifiedBase
	// LockForceWrite marks writes made through the lock as surviving a
	// failed transaction.
	LockForceWrite
)

func (f LockFlags) IsMutable() bool {
	return f&LockMutable != 0
}

func (f LockFlags) String() string {
	if f == 0 {
		return "read-only"
	}
	parts := []string{}
	if f&LockMutable != 0 {
		parts = append(parts, "mutable")
	}
	if f&LockUnmodifiedBase != 0 {
		parts = append(parts, "unmodified-base")
	}
	if f&LockForceWrite != 0 {
		parts = append(parts, "force-write")
	}
	return strings.Join(parts, "|")
}

// LockHandle identifies an open substate within the current call frame.
type LockHandle uint32

func bytesToText(data []byte) ([]byte, error) {
	return []byte(hexutil.Encode(data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	decoded, err := hexutil.Decode(s)
	if err != nil {
		return err
	}
	if want, got := len(trg), len(decoded); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg, decoded)
	return nil
}

func textToVarBytes(data []byte) ([]byte, error) {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	return hexutil.Decode(s)
}
