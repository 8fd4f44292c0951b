// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package track

import (
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// StoreAccessKind classifies accesses reported to a StoreAccessHandler.
type StoreAccessKind uint8

const (
	// ReadFromDb: a substate was loaded from the database.
	ReadFromDb StoreAccessKind = iota
	// ReadFromDbNotFound: a substate was looked up but is not present.
	ReadFromDbNotFound
	// NewEntryInTrack: a substate joined the track.
	NewEntryInTrack
)

func (k StoreAccessKind) String() string {
	switch k {
	case ReadFromDb:
		return "ReadFromDb"
	case ReadFromDbNotFound:
		return "ReadFromDbNotFound"
	case NewEntryInTrack:
		return "NewEntryInTrack"
	}
	return fmt.Sprintf("StoreAccessKind(%d)", uint8(k))
}

// StoreAccess describes a single access to the database or the track.
type StoreAccess struct {
	Kind      StoreAccessKind
	Node      keel.NodeID
	Partition keel.PartitionNumber
	Key       keel.SubstateKey
	Size      int // the size of the loaded value, for ReadFromDb
}

// CommitKind classifies the entries of a track diff.
type CommitKind uint8

const (
	Insert CommitKind = iota
	Update
	Delete
)

func (k CommitKind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Update:
		return "Update"
	case Delete:
		return "Delete"
	}
	return fmt.Sprintf("CommitKind(%d)", uint8(k))
}

// StoreCommit is a single entry of the diff produced by a track. Sizes are
// the encoded sizes of key and value; they are the base for state expansion
// fees.
type StoreCommit struct {
	Kind      CommitKind
	Node      keel.NodeID
	Partition keel.PartitionNumber
	Key       keel.SubstateKey
	Value     keel.IndexedValue // empty for deletes
	Size      int
	OldSize   int
}
