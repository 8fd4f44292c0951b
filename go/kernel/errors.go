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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
)

// Reasons for call frame operations to fail. They are reported wrapped into
// a CallFrameError naming the failed operation.
const (
	// ErrSubstateBorrowed is reported when a node should change its owner
	// while it is locked or pinned by an open substate.
	ErrSubstateBorrowed  = keel.ConstError("substate borrowed")
	ErrNodeNotOwned      = keel.ConstError("node not owned")
	ErrNodeNotVisible    = keel.ConstError("node not visible")
	ErrRefNotVisible     = keel.ConstError("referenced node not visible")
	ErrNodeExists        = keel.ConstError("node already exists")
	ErrNodeNotFound      = keel.ConstError("node not found")
	ErrPersistedNode     = keel.ConstError("persisted nodes can not be moved or dropped")
	ErrSubstateNotFound  = keel.ConstError("substate not found")
	ErrSubstateLocked    = keel.ConstError("substate locked")
	ErrLockConflict      = keel.ConstError("substate lock conflict")
	ErrInvalidHandle     = keel.ConstError("invalid lock handle")
	ErrNotMutable        = keel.ConstError("substate not opened for writing")
	ErrDefaultOwnsNodes  = keel.ConstError("default values can not own nodes")
	ErrNotDirectAccess   = keel.ConstError("node not visible for direct access")
	ErrOwnedGlobalNode   = keel.ConstError("global nodes can not be owned")
	ErrDuplicateOwnedRef = keel.ConstError("node owned twice by the same value")
)

// Failures of the kernel itself.
const (
	ErrMaxCallDepth     = keel.ConstError("max call depth exceeded")
	ErrNotRunning       = keel.ConstError("kernel not running")
	ErrUnusedNodeIDs    = keel.ConstError("allocated node ids not used")
	ErrOrphanedNodes    = keel.ConstError("owned nodes left behind")
	ErrInvalidReceiver  = keel.ConstError("invalid receiver")
	ErrNodeIDsExhausted = keel.ConstError("node ids exhausted")
)

// CallFrameErrorKind names the call frame operation that failed.
type CallFrameErrorKind uint8

const (
	CreateNodeError CallFrameErrorKind = iota
	DropNodeError
	OpenSubstateError
	ReadSubstateError
	WriteSubstateError
	CloseSubstateError
	MovePartitionError
	SubstateOperationError
	InvokeError
	CreateFrameError
	ReturnError
)

func (k CallFrameErrorKind) String() string {
	switch k {
	case CreateNodeError:
		return "CreateNodeError"
	case DropNodeError:
		return "DropNodeError"
	case OpenSubstateError:
		return "OpenSubstateError"
	case ReadSubstateError:
		return "ReadSubstateError"
	case WriteSubstateError:
		return "WriteSubstateError"
	case CloseSubstateError:
		return "CloseSubstateError"
	case MovePartitionError:
		return "MovePartitionError"
	case SubstateOperationError:
		return "SubstateOperationError"
	case InvokeError:
		return "InvokeError"
	case CreateFrameError:
		return "CreateFrameError"
	case ReturnError:
		return "ReturnError"
	}
	return fmt.Sprintf("CallFrameErrorKind(%d)", uint8(k))
}

// CallFrameError reports a violation of the ownership, visibility or locking
// rules of a call frame.
type CallFrameError struct {
	Kind CallFrameErrorKind
	Node keel.NodeID
	Err  error
}

func (e *CallFrameError) Error() string {
	return fmt.Sprintf("%v: %v (node %v)", e.Kind, e.Err, e.Node)
}

func (e *CallFrameError) Unwrap() error {
	return e.Err
}

func frameError(kind CallFrameErrorKind, node keel.NodeID, err error) error {
	return &CallFrameError{Kind: kind, Node: node, Err: err}
}

// InvalidModeTransitionError is reported when an operation requires an
// execution mode that can not be entered from the current one.
type InvalidModeTransitionError struct {
	From, To ExecutionMode
}

func (e *InvalidModeTransitionError) Error() string {
	return fmt.Sprintf("invalid mode transition from %v to %v", e.From, e.To)
}

var kernelErrors = []error{
	ErrSubstateBorrowed, ErrNodeNotOwned, ErrNodeNotVisible, ErrRefNotVisible,
	ErrNodeExists, ErrNodeNotFound, ErrPersistedNode, ErrSubstateNotFound,
	ErrSubstateLocked, ErrLockConflict, ErrInvalidHandle, ErrNotMutable,
	ErrDefaultOwnsNodes, ErrNotDirectAccess, ErrOwnedGlobalNode, ErrDuplicateOwnedRef,
	ErrMaxCallDepth, ErrNotRunning, ErrUnusedNodeIDs, ErrOrphanedNodes,
	ErrInvalidReceiver, ErrNodeIDsExhausted,
}

// IsKernelError reports whether the error was raised by the kernel, e.g. a
// violated ownership rule or an exceeded call depth.
func IsKernelError(err error) bool {
	var frameErr *CallFrameError
	var modeErr *InvalidModeTransitionError
	if errors.As(err, &frameErr) || errors.As(err, &modeErr) {
		return true
	}
	for _, kernelErr := range kernelErrors {
		if errors.Is(err, kernelErr) {
			return true
		}
	}
	return false
}
