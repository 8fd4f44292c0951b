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

const (
	ErrSubstateNotFound = keel.ConstError("substate not found")
	ErrLockConflict     = keel.ConstError("substate lock conflict")
	ErrNotMutable       = keel.ConstError("substate not locked for writing")
	ErrInvalidHandle    = keel.ConstError("invalid lock handle")
	ErrModifiedBase     = keel.ConstError("substate modified in this transaction")
	ErrSubstateLocked   = keel.ConstError("substate is locked")
	ErrNodeExists       = keel.ConstError("node already exists")
	ErrOpenLocks        = keel.ConstError("locks still held")
	ErrFinalized        = keel.ConstError("track already finalized")
)

// Error reports a failed track operation on a specific substate.
type Error struct {
	Err       error
	Node      keel.NodeID
	Partition keel.PartitionNumber
	Key       keel.SubstateKey
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v/%d/%v", e.Err, e.Node, e.Partition, e.Key)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error, id substateID) *Error {
	return &Error{Err: err, Node: id.node, Partition: id.partition, Key: id.key}
}
