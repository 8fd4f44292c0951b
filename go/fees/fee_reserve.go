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
	"fmt"
	"math"
	"slices"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/track"
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
)

const (
	// ProposerSharePercentage is the share of the execution cost paid to the
	// block proposer on top of all tips.
	ProposerSharePercentage = 25
	// ValidatorSetSharePercentage is the share of the execution cost paid to
	// the validator set. The remainder and all storage costs are burned.
	ValidatorSetSharePercentage = 25
)

// Config summarizes the economic parameters of a fee reserve. The defaults
// are illustrative only.
type Config struct {
	CostUnitPrice keel.Decimal // the price of a cost unit in XRD
	UsdPrice      keel.Decimal // the price of one USD in XRD
	StoragePrice  keel.Decimal // the price of one byte of state expansion in XRD
	TipPercentage uint16
	CostUnitLimit uint32
	// SystemLoan is the number of cost units granted on credit before fees
	// need to be locked.
	SystemLoan uint32
	// AbortWhenLoanRepaid stops the transaction once the loan is repaid. It
	// is used for previewing pending transactions.
	AbortWhenLoanRepaid bool
	// FreeCredit is an amount of XRD granted without repayment.
	FreeCredit keel.Decimal
}

func DefaultConfig() Config {
	return Config{
		CostUnitPrice: keel.MustParseDecimal("0.0000001"),
		UsdPrice:      keel.MustParseDecimal("16.666666666666666666"),
		StoragePrice:  keel.MustParseDecimal("0.00009536743"),
		CostUnitLimit: 100_000_000,
		SystemLoan:    10_000_000,
	}
}

// SystemLoanFeeReserve accounts for the fees of a single transaction. It
// starts with a balance granted by the system as a loan which has to be
// repaid from locked fees once a number of cost units has been consumed.
// Amounts are tracked in attos.
type SystemLoanFeeReserve struct {
	costUnitPrice       uint256.Int
	usdPrice            uint256.Int
	storagePrice        uint256.Int
	tipPercentage       uint16
	costUnitLimit       uint32
	systemLoan          uint32
	abortWhenLoanRepaid bool

	effectivePrice uint256.Int // the cost unit price including the tip

	balance uint256.Int
	owed    uint256.Int

	executionCommitted uint32
	executionDeferred  uint32

	royaltyCommitted uint256.Int
	royalties        map[keel.RoyaltyRecipient]*uint256.Int

	storageCommitted uint256.Int

	lockedFees []keel.LockedFee
	finalized  bool
}

var attosPerUnit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(keel.DecimalPlaces))

func toAttos(amount keel.Decimal) (uint256.Int, error) {
	attos, err := amount.Attos()
	if err != nil {
		return uint256.Int{}, err
	}
	return *attos, nil
}

func toDecimal(attos *uint256.Int) keel.Decimal {
	return keel.DecimalFromAttos(attos)
}

func NewSystemLoanFeeReserve(config Config) (*SystemLoanFeeReserve, error) {
	res := &SystemLoanFeeReserve{
		tipPercentage:       config.TipPercentage,
		costUnitLimit:       config.CostUnitLimit,
		systemLoan:          config.SystemLoan,
		abortWhenLoanRepaid: config.AbortWhenLoanRepaid,
		royalties:           map[keel.RoyaltyRecipient]*uint256.Int{},
	}
	var err error
	if res.costUnitPrice, err = toAttos(config.CostUnitPrice); err != nil {
		return nil, fmt.Errorf("invalid cost unit price: %w", err)
	}
	if res.usdPrice, err = toAttos(config.UsdPrice); err != nil {
		return nil, fmt.Errorf("invalid USD price: %w", err)
	}
	if res.storagePrice, err = toAttos(config.StoragePrice); err != nil {
		return nil, fmt.Errorf("invalid storage price: %w", err)
	}
	credit, err := toAttos(config.FreeCredit)
	if err != nil {
		return nil, fmt.Errorf("invalid free credit: %w", err)
	}

	tipPrice, err := res.tipPrice()
	if err != nil {
		return nil, err
	}
	if _, overflow := res.effectivePrice.AddOverflow(&res.costUnitPrice, &tipPrice); overflow {
		return nil, ErrOverflow
	}
	if _, overflow := res.owed.MulOverflow(&res.effectivePrice, uint256.NewInt(uint64(config.SystemLoan))); overflow {
		return nil, ErrOverflow
	}
	if _, overflow := res.balance.AddOverflow(&res.owed, &credit); overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// tipPrice is the tip paid per cost unit.
func (r *SystemLoanFeeReserve) tipPrice() (uint256.Int, error) {
	var res uint256.Int
	if _, overflow := res.MulDivOverflow(&r.costUnitPrice, uint256.NewInt(uint64(r.tipPercentage)), uint256.NewInt(100)); overflow {
		return uint256.Int{}, ErrOverflow
	}
	return res, nil
}

func (r *SystemLoanFeeReserve) CostUnitLimit() uint32 {
	return r.costUnitLimit
}

func (r *SystemLoanFeeReserve) CostUnitPrice() keel.Decimal {
	return toDecimal(&r.costUnitPrice)
}

func (r *SystemLoanFeeReserve) UsdPrice() keel.Decimal {
	return toDecimal(&r.usdPrice)
}

// Balance is the amount of XRD available for paying fees.
func (r *SystemLoanFeeReserve) Balance() keel.Decimal {
	return toDecimal(&r.balance)
}

// Owed is the outstanding amount of the system loan.
func (r *SystemLoanFeeReserve) Owed() keel.Decimal {
	return toDecimal(&r.owed)
}

func (r *SystemLoanFeeReserve) FullyRepaid() bool {
	return r.owed.IsZero()
}

// ExecutionCostUnitsConsumed is the number of cost units committed so far,
// excluding deferred units.
func (r *SystemLoanFeeReserve) ExecutionCostUnitsConsumed() uint32 {
	return r.executionCommitted
}

func (r *SystemLoanFeeReserve) debit(amount *uint256.Int) error {
	if r.balance.Lt(amount) {
		return &InsufficientBalanceError{
			Required:  toDecimal(amount),
			Remaining: toDecimal(&r.balance),
		}
	}
	r.balance.Sub(&r.balance, amount)
	return nil
}

func (r *SystemLoanFeeReserve) consumeExecution(units uint32) error {
	if uint64(r.executionCommitted)+uint64(units) > math.MaxUint32 {
		return ErrOverflow
	}
	if r.executionCommitted+units > r.costUnitLimit {
		return &LimitExceededError{
			Limit:     r.costUnitLimit,
			Committed: r.executionCommitted,
			New:       units,
		}
	}
	var amount uint256.Int
	if _, overflow := amount.MulOverflow(&r.effectivePrice, uint256.NewInt(uint64(units))); overflow {
		return ErrOverflow
	}
	if err := r.debit(&amount); err != nil {
		return err
	}
	r.executionCommitted += units
	return nil
}

// repayIfDue repays the loan once the consumed cost units reach the loan.
func (r *SystemLoanFeeReserve) repayIfDue() error {
	if !r.FullyRepaid() && r.executionCommitted >= r.systemLoan {
		return r.RepayAll()
	}
	return nil
}

// ConsumeExecution charges the given number of cost units at the effective
// cost unit price.
func (r *SystemLoanFeeReserve) ConsumeExecution(units uint32) error {
	if r.finalized {
		return ErrFinalized
	}
	if units == 0 {
		return nil
	}
	if err := r.consumeExecution(units); err != nil {
		return err
	}
	return r.repayIfDue()
}

// ConsumeDeferred registers cost units to be charged at the next loan
// repayment. It is meant for costs known before execution starts.
func (r *SystemLoanFeeReserve) ConsumeDeferred(units uint32) error {
	if r.finalized {
		return ErrFinalized
	}
	if uint64(r.executionDeferred)+uint64(units) > math.MaxUint32 {
		return ErrOverflow
	}
	r.executionDeferred += units
	return nil
}

// ConsumeRoyalty charges a royalty on behalf of the given recipient.
func (r *SystemLoanFeeReserve) ConsumeRoyalty(royalty keel.RoyaltyAmount, recipient keel.RoyaltyRecipient) error {
	if r.finalized {
		return ErrFinalized
	}
	if royalty.IsZero() {
		return nil
	}
	amount, err := toAttos(royalty.Amount)
	if err != nil {
		return err
	}
	if royalty.Kind == keel.RoyaltyInUsd {
		if _, overflow := amount.MulDivOverflow(&amount, &r.usdPrice, attosPerUnit); overflow {
			return ErrOverflow
		}
	}
	if err := r.debit(&amount); err != nil {
		return err
	}
	total, found := r.royalties[recipient]
	if !found {
		total = new(uint256.Int)
		r.royalties[recipient] = total
	}
	total.Add(total, &amount)
	r.royaltyCommitted.Add(&r.royaltyCommitted, &amount)
	return r.repayIfDue()
}

// ConsumeStateExpansion charges the growth of the store caused by a commit.
// Shrinking substates and deletions are free.
func (r *SystemLoanFeeReserve) ConsumeStateExpansion(commit track.StoreCommit) error {
	if r.finalized {
		return ErrFinalized
	}
	delta := 0
	switch commit.Kind {
	case track.Insert:
		delta = commit.Size
	case track.Update:
		delta = max(commit.Size-commit.OldSize, 0)
	}
	var amount uint256.Int
	if _, overflow := amount.MulOverflow(&r.storagePrice, uint256.NewInt(uint64(delta))); overflow {
		return ErrOverflow
	}
	if err := r.debit(&amount); err != nil {
		return err
	}
	r.storageCommitted.Add(&r.storageCommitted, &amount)
	return nil
}

// LockFee records a payment taken from a vault. Non-contingent payments are
// credited immediately, contingent ones only count if the transaction
// succeeds.
func (r *SystemLoanFeeReserve) LockFee(vault keel.NodeID, amount keel.Decimal, contingent bool) error {
	if r.finalized {
		return ErrFinalized
	}
	attos, err := toAttos(amount)
	if err != nil {
		return err
	}
	if !contingent {
		if _, overflow := r.balance.AddOverflow(&r.balance, &attos); overflow {
			return ErrOverflow
		}
	}
	r.lockedFees = append(r.lockedFees, keel.LockedFee{Vault: vault, Amount: amount, Contingent: contingent})
	return nil
}

// RepayAll charges deferred cost units and repays as much of the loan as
// the balance allows. It fails if the loan could not be repaid completely.
func (r *SystemLoanFeeReserve) RepayAll() error {
	if r.finalized {
		return ErrFinalized
	}
	if err := r.consumeExecution(r.executionDeferred); err != nil {
		return err
	}
	r.executionDeferred = 0

	amount := r.balance
	if r.owed.Lt(&amount) {
		amount = r.owed
	}
	r.owed.Sub(&r.owed, &amount)
	r.balance.Sub(&r.balance, &amount)

	if !r.owed.IsZero() {
		return ErrLoanRepaymentFailed
	}
	if r.abortWhenLoanRepaid {
		return ErrAbortOnLoanRepayment
	}
	return nil
}

// RevertRoyalty refunds all royalties charged so far. It is used when a
// transaction fails.
func (r *SystemLoanFeeReserve) RevertRoyalty() {
	for _, amount := range r.royalties {
		r.balance.Add(&r.balance, amount)
	}
	clear(r.royalties)
	r.royaltyCommitted.Clear()
}

// RevertStateExpansion refunds all state expansion charged so far, so that a
// diff can be charged again after parts of it have been reverted.
func (r *SystemLoanFeeReserve) RevertStateExpansion() {
	r.balance.Add(&r.balance, &r.storageCommitted)
	r.storageCommitted.Clear()
}

// Finalize produces the summary of all fees. The reserve can not be used
// afterwards.
func (r *SystemLoanFeeReserve) Finalize() (keel.FeeSummary, error) {
	if r.finalized {
		return keel.FeeSummary{}, ErrFinalized
	}
	r.finalized = true

	committed := uint256.NewInt(uint64(r.executionCommitted))
	var execution, tipping uint256.Int
	if _, overflow := execution.MulOverflow(&r.costUnitPrice, committed); overflow {
		return keel.FeeSummary{}, ErrOverflow
	}
	tipPrice, err := r.tipPrice()
	if err != nil {
		return keel.FeeSummary{}, err
	}
	if _, overflow := tipping.MulOverflow(&tipPrice, committed); overflow {
		return keel.FeeSummary{}, ErrOverflow
	}

	var proposerShare, validatorShare uint256.Int
	proposerShare.MulDivOverflow(&execution, uint256.NewInt(ProposerSharePercentage), uint256.NewInt(100))
	validatorShare.MulDivOverflow(&execution, uint256.NewInt(ValidatorSetSharePercentage), uint256.NewInt(100))
	var proposer, burn uint256.Int
	proposer.Add(&tipping, &proposerShare)
	burn.Sub(&execution, &proposerShare)
	burn.Sub(&burn, &validatorShare)
	if _, overflow := burn.AddOverflow(&burn, &r.storageCommitted); overflow {
		return keel.FeeSummary{}, ErrOverflow
	}

	// The distribution must account for every unit charged.
	var charged, distributed uint256.Int
	charged.Add(&execution, &tipping)
	charged.Add(&charged, &r.storageCommitted)
	distributed.Add(&proposer, &validatorShare)
	distributed.Add(&distributed, &burn)
	if charged != distributed {
		panic(fmt.Sprintf("fee distribution mismatch: charged %v, distributed %v", &charged, &distributed))
	}

	recipients := maps.Keys(r.royalties)
	slices.SortFunc(recipients, keel.CompareRoyaltyRecipients)
	breakdown := make([]keel.RoyaltyCost, 0, len(recipients))
	for _, recipient := range recipients {
		breakdown = append(breakdown, keel.RoyaltyCost{Recipient: recipient, Amount: toDecimal(r.royalties[recipient])})
	}

	return keel.FeeSummary{
		CostUnitLimit: r.costUnitLimit,
		CostUnitPrice: toDecimal(&r.costUnitPrice),
		UsdPrice:      toDecimal(&r.usdPrice),
		StoragePrice:  toDecimal(&r.storagePrice),
		TipPercentage: r.tipPercentage,

		TotalExecutionCostUnitsConsumed: r.executionCommitted,
		TotalExecutionCost:              toDecimal(&execution),
		TotalTippingCost:                toDecimal(&tipping),
		TotalRoyaltyCost:                toDecimal(&r.royaltyCommitted),
		TotalStorageCost:                toDecimal(&r.storageCommitted),
		TotalBadDebt:                    toDecimal(&r.owed),

		ToProposer:     toDecimal(&proposer),
		ToValidatorSet: toDecimal(&validatorShare),
		ToBurn:         toDecimal(&burn),

		LockedFees:           slices.Clone(r.lockedFees),
		RoyaltyCostBreakdown: breakdown,
	}, nil
}
