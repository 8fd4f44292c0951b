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

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package keel

// Interpreter is the component running the sandboxed byte-code of packages.
// Byte-code is opaque to the rest of the system.
type Interpreter interface {
	// Instantiate validates and prepares the given code for execution. The
	// resulting instance may be cached and reused for any number of calls.
	Instantiate(code Code) (Instance, error)
}

// Instance is a prepared package code ready to be invoked.
type Instance interface {
	// Invoke runs the named export of the code. All interaction with the
	// ledger is performed through the given api, which must not be retained
	// beyond the call.
	Invoke(export string, args IndexedValue, api ClientApi) (IndexedValue, error)
}
