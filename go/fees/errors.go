// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fees

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
)

const (
	ErrOverflow = keel.ConstError("fee arithmetic overflow")
	// ErrLoanRepaymentFailed indicates that the balance did not suffice to
	// repay the system loan. The transaction is rejected.
	ErrLoanRepaymentFailed = keel.ConstError("system loan repayment failed")
	// ErrAbortOnLoanRepayment is reported by reserves configured to stop
	// execution as soon as the loan is repaid.
	ErrAbortOnLoanRepayment = keel.ConstError("abort triggered on fee loan repayment")
	ErrFinalized            = keel.ConstError("fee reserve already finalized")
)

// InsufficientBalanceError is reported when a payment exceeds the balance
// of the reserve.
type InsufficientBalanceError struct {
	Required  keel.Decimal
	Remaining keel.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient fee balance, required %v, remaining %v", e.Required, e.Remaining)
}

// LimitExceededError is reported when consuming cost units would exceed the
// cost unit limit of the transaction.
type LimitExceededError struct {
	Limit     uint32
	Committed uint32
	New       uint32
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("cost unit limit exceeded, limit %d, committed %d, new %d", e.Limit, e.Committed, e.New)
}

// IsAbort reports whether the error stops a transaction on purpose rather
// than failing it.
func IsAbort(err error) bool {
	return errors.Is(err, ErrAbortOnLoanRepayment)
}

// IsFeeError reports whether the error was raised by a fee reserve.
func IsFeeError(err error) bool {
	var balanceErr *InsufficientBalanceError
	var limitErr *LimitExceededError
	return errors.As(err, &balanceErr) ||
		errors.As(err, &limitErr) ||
		errors.Is(err, ErrOverflow) ||
		errors.Is(err, ErrLoanRepaymentFailed) ||
		errors.Is(err, ErrAbortOnLoanRepayment) ||
		errors.Is(err, ErrFinalized)
}
