// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package engine executes transactions against a substate database. Each
// transaction runs on a fresh kernel with its own track, fee reserve and
// system modules; only the resulting database updates survive.
package engine

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/fees"
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/Fantom-foundation/Keel/go/system"
	"github.com/Fantom-foundation/Keel/go/track"
	"github.com/ethereum/go-ethereum/rlp"
	"go.uber.org/zap"
)

const ErrNotCommittable = keel.ConstError("receipt can not be committed")

func init() {
	keel.RegisterProcessorFactory("keel", newProcessor)
}

func newProcessor(interpreter keel.Interpreter, db keel.SubstateDatabase) keel.Processor {
	res, err := New(DefaultConfig(), interpreter, db)
	if err != nil {
		// The default configuration is valid.
		panic(err)
	}
	return res
}

// Config summarizes the parameters of an engine.
type Config struct {
	Fees   fees.Config
	Costs  system.CostTable
	Kernel kernel.Config
	// CodeCacheSize is the number of instantiated packages kept in memory.
	CodeCacheSize int
	// MaxEvents limits the number of events a transaction may emit.
	MaxEvents int
	// Logger receives a trace of all invocations at debug level. Nil disables
	// tracing.
	Logger *zap.Logger
	// Metrics is updated by all transactions of the engine if not nil.
	Metrics *system.Metrics
}

func DefaultConfig() Config {
	return Config{
		Fees:          fees.DefaultConfig(),
		Costs:         system.DefaultCostTable(),
		Kernel:        kernel.DefaultConfig(),
		CodeCacheSize: system.DefaultCodeCacheSize,
		MaxEvents:     system.DefaultMaxEvents,
	}
}

// Engine executes transactions against the database it was created for.
// Transactions need to be executed and committed strictly sequentially.
type Engine struct {
	config   Config
	db       keel.SubstateDatabase
	executor *system.Executor
	log      *zap.Logger
}

var _ keel.Processor = (*Engine)(nil)

func New(config Config, interpreter keel.Interpreter, db keel.SubstateDatabase) (*Engine, error) {
	executor, err := system.NewExecutor(interpreter, config.CodeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	config.Kernel.AlwaysVisible = natives.AlwaysVisibleGlobalNodes
	return &Engine{
		config:   config,
		db:       db,
		executor: executor,
		log:      log,
	}, nil
}

// execution collects the per-transaction state of an Execute call.
type execution struct {
	tx      *keel.Transaction
	hash    keel.Hash
	track   *track.Track
	reserve *fees.SystemLoanFeeReserve
	events  *system.EventsModule
	kernel  *kernel.Kernel
}

// Execute runs the given transaction. Failures of the transaction are
// reported through the receipt. Errors are reserved for transactions that
// can not be started at all.
func (e *Engine) Execute(tx keel.Transaction) (keel.Receipt, error) {
	run, err := e.prepare(&tx)
	if err != nil {
		return keel.Receipt{}, err
	}

	outputs, err := run.invoke()
	success := err == nil

	// Fees need to be secured for any commit.
	if repayErr := run.reserve.RepayAll(); repayErr != nil {
		success = false
		if err == nil {
			err = repayErr
		}
	}
	if fees.IsAbort(err) {
		return run.uncommitted(keel.OutcomeAbort, err), nil
	}
	if !run.reserve.FullyRepaid() {
		return run.uncommitted(keel.OutcomeReject, err), nil
	}

	if success {
		if chargeErr := run.chargeStateExpansion(); chargeErr != nil {
			success, err = false, chargeErr
		}
	}
	if !success {
		run.track.RevertNonForceWrites()
		run.reserve.RevertRoyalty()
		run.reserve.RevertStateExpansion()
		if chargeErr := run.chargeStateExpansion(); chargeErr != nil {
			e.log.Warn("failed to charge state expansion of failed transaction", zap.Error(chargeErr))
		}
	}

	summary, finalizeErr := run.reserve.Finalize()
	if finalizeErr != nil {
		return keel.Receipt{}, fmt.Errorf("failed to finalize fees: %w", finalizeErr)
	}
	if refundErr := run.applyLockedFees(summary, success); refundErr != nil {
		return keel.Receipt{}, fmt.Errorf("failed to apply fee payments: %w", refundErr)
	}
	commits, updates, finalizeErr := run.track.Finalize()
	if finalizeErr != nil {
		return keel.Receipt{}, fmt.Errorf("failed to finalize track: %w", finalizeErr)
	}

	receipt := keel.Receipt{
		Outcome: keel.OutcomeCommitFailure,
		Error:   err,
		Fees:    summary,
		Updates: updates,
	}
	if success {
		receipt.Outcome = keel.OutcomeCommitSuccess
		receipt.Outputs = outputs
		receipt.Events = run.events.Events()
		receipt.NewGlobalNodes = newGlobalNodes(commits)
	}
	e.log.Debug("transaction executed",
		zap.Stringer("hash", run.hash),
		zap.Stringer("outcome", receipt.Outcome),
		zap.Uint32("cost_units", summary.TotalExecutionCostUnitsConsumed),
		zap.Int("updates", updates.Len()),
		zap.Error(err),
	)
	return receipt, nil
}

// Commit writes the updates of a committed transaction to the database.
func (e *Engine) Commit(receipt keel.Receipt) error {
	if !receipt.Outcome.IsCommit() || receipt.Updates == nil {
		return fmt.Errorf("%w: outcome %v", ErrNotCommittable, receipt.Outcome)
	}
	return e.db.Commit(receipt.Updates)
}

func (e *Engine) prepare(tx *keel.Transaction) (*execution, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	payload, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	feeConfig := e.config.Fees
	if tx.CostUnitLimit != 0 {
		feeConfig.CostUnitLimit = min(tx.CostUnitLimit, feeConfig.CostUnitLimit)
	}
	feeConfig.TipPercentage = tx.TipPercentage
	reserve, err := fees.NewSystemLoanFeeReserve(feeConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid fee configuration: %w", err)
	}

	events := system.NewEventsModule(e.config.MaxEvents)
	modules := []system.Module{
		system.NewLimitsModule(),
		system.NewAuthModule(tx.Signers),
		system.NewCostingModule(reserve, e.config.Costs, len(payload), len(tx.Signers)),
		events,
	}
	if e.config.Logger != nil {
		modules = append(modules, system.NewTraceModule(e.config.Logger))
	}
	if e.config.Metrics != nil {
		modules = append(modules, system.NewMetricsModule(e.config.Metrics))
	}

	store := track.New(e.db, nil)
	callback := system.New(hash, e.executor, modules...)
	return &execution{
		tx:      tx,
		hash:    hash,
		track:   store,
		reserve: reserve,
		events:  events,
		kernel:  kernel.New(e.config.Kernel, store, kernel.NewIdAllocator(hash), callback),
	}, nil
}

// invoke runs the transaction processor on a booted kernel.
func (r *execution) invoke() ([]keel.IndexedValue, error) {
	if err := r.kernel.Boot(natives.TransactionReferences(r.tx)); err != nil {
		return nil, err
	}
	args, err := natives.NewRunArgs(r.tx)
	if err != nil {
		return nil, err
	}
	output, err := r.kernel.Invoke(keel.Invocation{
		Package:   natives.TransactionProcessorPackage,
		Blueprint: natives.TransactionProcessorBlueprint,
		Ident:     natives.RunIdent,
		Args:      args,
	})
	if err != nil {
		return nil, err
	}
	if err := r.kernel.Teardown(); err != nil {
		return nil, err
	}
	return natives.DecodeRunOutput(output)
}

func (r *execution) chargeStateExpansion() error {
	for _, commit := range r.track.Commits() {
		if err := r.reserve.ConsumeStateExpansion(commit); err != nil {
			return err
		}
	}
	return nil
}

// uncommitted produces the receipt of a rejected or aborted transaction.
func (r *execution) uncommitted(outcome keel.Outcome, err error) keel.Receipt {
	if err == nil {
		err = fees.ErrLoanRepaymentFailed
	}
	summary, _ := r.reserve.Finalize()
	return keel.Receipt{Outcome: outcome, Error: err, Fees: summary}
}

// applyLockedFees takes the total cost of the transaction from the locked
// fee payments in locking order and refunds the rest to the paying vaults.
// Contingent payments are refunded completely if the transaction failed.
func (r *execution) applyLockedFees(summary keel.FeeSummary, success bool) error {
	remaining, err := summary.TotalCost()
	if err != nil {
		return err
	}
	refunds := map[keel.NodeID]keel.Decimal{}
	vaults := []keel.NodeID{}
	for _, locked := range summary.LockedFees {
		refund := locked.Amount
		if success || !locked.Contingent {
			paid := locked.Amount
			if remaining.Cmp(paid) < 0 {
				paid = remaining
			}
			if remaining, err = remaining.Sub(paid); err != nil {
				return err
			}
			if refund, err = refund.Sub(paid); err != nil {
				return err
			}
		}
		if refund.IsZero() {
			continue
		}
		total, found := refunds[locked.Vault]
		if !found {
			vaults = append(vaults, locked.Vault)
			total = keel.NewDecimal(0)
		}
		if refunds[locked.Vault], err = total.Add(refund); err != nil {
			return err
		}
	}

	// Refunds are bookkeeping of the engine and not charged.
	r.track.SetStoreAccessHandler(nil)
	for _, vault := range vaults {
		if err := r.refund(vault, refunds[vault]); err != nil {
			return err
		}
	}
	return nil
}

func (r *execution) refund(vault keel.NodeID, amount keel.Decimal) error {
	handle, err := r.track.AcquireLock(vault, keel.MainPartition, natives.StateKey, keel.LockMutable|keel.LockForceWrite, nil)
	if err != nil {
		return err
	}
	value, err := r.track.ReadSubstate(handle)
	if err != nil {
		return errors.Join(err, r.track.ReleaseLock(handle))
	}
	var state natives.VaultState
	if err := value.Decode(&state); err != nil {
		return errors.Join(err, r.track.ReleaseLock(handle))
	}
	if state.Amount, err = state.Amount.Add(amount); err != nil {
		return errors.Join(err, r.track.ReleaseLock(handle))
	}
	updated, err := keel.NewIndexedValue(state)
	if err != nil {
		return errors.Join(err, r.track.ReleaseLock(handle))
	}
	if err := r.track.UpdateSubstate(handle, updated); err != nil {
		return errors.Join(err, r.track.ReleaseLock(handle))
	}
	return r.track.ReleaseLock(handle)
}

// newGlobalNodes lists the global nodes created by a transaction in creation
// order.
func newGlobalNodes(commits []track.StoreCommit) []keel.NodeID {
	res := []keel.NodeID{}
	for _, commit := range commits {
		if commit.Kind == track.Insert && commit.Partition == keel.TypeInfoPartition && commit.Node.IsGlobal() {
			res = append(res, commit.Node)
		}
	}
	return res
}
