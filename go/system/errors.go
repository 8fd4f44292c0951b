// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package system

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/fees"
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/track"
)

const (
	ErrUnauthorized        = keel.ConstError("unauthorized")
	ErrPayloadTooLarge     = keel.ConstError("invocation payload too large")
	ErrSubstateTooLarge    = keel.ConstError("substate too large")
	ErrNoInterpreter       = keel.ConstError("no interpreter for byte-code packages")
	ErrMissingCode         = keel.ConstError("package has no code")
	ErrNotGlobalizable     = keel.ConstError("node can not be globalized")
	ErrInvalidFeeLock      = keel.ConstError("fees can only be locked by vaults")
	ErrTooManyEvents       = keel.ConstError("too many events")
	ErrInvalidRoyaltyValue = keel.ConstError("invalid royalty configuration")
)

// ModuleError reports the failure of a system module hook.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("%s module: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// ApplicationError reports the failure of blueprint code.
type ApplicationError struct {
	Actor keel.Actor
	Err   error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%v failed: %v", e.Actor, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

var systemErrors = []error{
	ErrUnauthorized, ErrPayloadTooLarge, ErrSubstateTooLarge, ErrNoInterpreter,
	ErrMissingCode, ErrNotGlobalizable, ErrInvalidFeeLock, ErrTooManyEvents,
	ErrInvalidRoyaltyValue,
}

// IsSystemError reports whether the error was raised below the blueprint
// code, by the kernel, the track, the fee reserve or a system module.
// Such errors are never attributed to an actor.
func IsSystemError(err error) bool {
	var moduleErr *ModuleError
	var trackErr *track.Error
	if errors.As(err, &moduleErr) || errors.As(err, &trackErr) || kernel.IsKernelError(err) || fees.IsFeeError(err) {
		return true
	}
	for _, systemErr := range systemErrors {
		if errors.Is(err, systemErr) {
			return true
		}
	}
	return false
}

// applicationError attributes an error raised by the code of the given actor
// to it. Errors of nested invocations keep their attribution and system
// errors pass unchanged.
func applicationError(actor keel.Actor, err error) error {
	var appErr *ApplicationError
	if errors.As(err, &appErr) || IsSystemError(err) {
		return err
	}
	return &ApplicationError{Actor: actor, Err: err}
}
