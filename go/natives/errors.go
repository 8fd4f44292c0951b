// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package natives

// Error is a failure of the business logic of a native blueprint.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrUnknownFunction      = Error("unknown native function")
	ErrInvalidArguments     = Error("invalid arguments")
	ErrCorruptedState       = Error("corrupted substate")
	ErrInsufficientFunds    = Error("insufficient funds")
	ErrResourceMismatch     = Error("resource mismatch")
	ErrNonEmptyBucket       = Error("non-empty bucket can not be dropped")
	ErrUnexpectedNode       = Error("node can not be dropped automatically")
	ErrWorktopNotEmpty      = Error("resources left on worktop")
	ErrAssertionFailed      = Error("worktop assertion failed")
	ErrUnknownInstruction   = Error("unknown instruction")
	ErrNotVirtualizable     = Error("address can not be virtualized")
	ErrDirectAccessRequired = Error("operation requires direct access")
)
