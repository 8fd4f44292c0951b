// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kvm

import "github.com/Fantom-foundation/Keel/go/keel"

const (
	errInvalidCode      = keel.ConstError("invalid code")
	errInvalidJump      = keel.ConstError("invalid jump destination")
	errInvalidString    = keel.ConstError("invalid string index")
	errInvalidArguments = keel.ConstError("arguments are not a list of numbers")
	errUnknownExport    = keel.ConstError("unknown export")
	errStackOverflow    = keel.ConstError("stack overflow")
	errStackUnderflow   = keel.ConstError("stack underflow")
	errValueOverflow    = keel.ConstError("value exceeds 64 bit")
	errNoReceiver       = keel.ConstError("instruction requires a component receiver")
	errStepLimit        = keel.ConstError("step limit exceeded")
)
