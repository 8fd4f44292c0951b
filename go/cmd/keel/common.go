// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	_ "github.com/Fantom-foundation/Keel/go/interpreter/kvm"
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/processor/engine"
	"github.com/Fantom-foundation/Keel/go/store"
	"github.com/Fantom-foundation/Keel/go/system"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// environment bundles the resources shared by all commands.
type environment struct {
	log     *zap.Logger
	store   *store.LevelDB
	db      keel.SubstateDatabase
	engine  *engine.Engine
	metrics *http.Server
}

func openEnvironment(ctx *cli.Context) (*environment, error) {
	config, err := LoadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	log, err := newLogger(ctx.String(logLevelFlag.Name))
	if err != nil {
		return nil, err
	}
	res := &environment{log: log}

	res.store, err = store.OpenLevelDB(ctx.String(dbFlag.Name))
	if err != nil {
		return nil, err
	}
	res.db = res.store
	if config.Database.CacheSize > 0 {
		if res.db, err = store.NewCached(res.store, config.Database.CacheSize); err != nil {
			return nil, errors.Join(err, res.Close())
		}
	}

	engineConfig := config.toEngine()
	if log.Core().Enabled(zapcore.DebugLevel) {
		engineConfig.Logger = log
	}
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		registry := prometheus.NewRegistry()
		if engineConfig.Metrics, err = system.NewMetrics(registry); err != nil {
			return nil, errors.Join(err, res.Close())
		}
		res.metrics = &http.Server{
			Addr:     addr,
			Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ErrorLog: zap.NewStdLog(log),
		}
		go func() {
			log.Info("serving metrics", zap.String("addr", addr))
			if err := res.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	var interpreter keel.Interpreter
	if name := ctx.String(interpreterFlag.Name); name != "" {
		if interpreter, err = keel.NewInterpreter(name); err != nil {
			return nil, errors.Join(err, res.Close())
		}
	}
	if res.engine, err = engine.New(engineConfig, interpreter, res.db); err != nil {
		return nil, errors.Join(err, res.Close())
	}
	return res, nil
}

func (e *environment) Close() error {
	var errs []error
	if e.metrics != nil {
		errs = append(errs, e.metrics.Close())
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	// Sync fails for the standard streams on some platforms.
	_ = e.log.Sync()
	return errors.Join(errs...)
}

// withEnvironment runs the given action with an opened environment.
func withEnvironment(action func(*cli.Context, *environment) error) cli.ActionFunc {
	return func(ctx *cli.Context) (err error) {
		env, err := openEnvironment(ctx)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, env.Close())
		}()
		return action(ctx, env)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]any{
		"service": "keel",
	}
	return config.Build()
}

// parsePublicKey parses a hex encoded public key. 32 byte keys are Ed25519
// keys, all others Secp256k1 keys.
func parsePublicKey(s string) (keel.PublicKey, error) {
	key, err := hexutil.Decode(s)
	if err != nil {
		return keel.PublicKey{}, fmt.Errorf("invalid public key %q: %w", s, err)
	}
	if len(key) == 0 {
		return keel.PublicKey{}, fmt.Errorf("empty public key")
	}
	return keel.PublicKey{Ed25519: len(key) == 32, Key: key}, nil
}

// transactionFile is the JSON form of a transaction.
type transactionFile struct {
	Nonce         uint64             `json:"nonce"`
	Signers       []hexutil.Bytes    `json:"signers"`
	Instructions  []keel.Instruction `json:"instructions"`
	CostUnitLimit uint32             `json:"cost_unit_limit,omitempty"`
	TipPercentage uint16             `json:"tip_percentage,omitempty"`
}

func readTransaction(path string) (keel.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keel.Transaction{}, err
	}
	var file transactionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return keel.Transaction{}, fmt.Errorf("invalid transaction file %s: %w", path, err)
	}
	tx := keel.Transaction{
		Nonce:         file.Nonce,
		Instructions:  file.Instructions,
		CostUnitLimit: file.CostUnitLimit,
		TipPercentage: file.TipPercentage,
	}
	for _, signer := range file.Signers {
		key, err := parsePublicKey(signer.String())
		if err != nil {
			return keel.Transaction{}, err
		}
		tx.Signers = append(tx.Signers, key)
	}
	return tx, nil
}

// receiptSummary is the printed form of a receipt.
type receiptSummary struct {
	Outcome        string          `json:"outcome"`
	Error          string          `json:"error,omitempty"`
	CostUnits      uint32          `json:"cost_units"`
	TotalCost      keel.Decimal    `json:"total_cost"`
	RoyaltyCost    keel.Decimal    `json:"royalty_cost"`
	Outputs        []hexutil.Bytes `json:"outputs,omitempty"`
	Events         []eventSummary  `json:"events,omitempty"`
	NewGlobalNodes []keel.NodeID   `json:"new_global_nodes,omitempty"`
	Updates        int             `json:"updates"`
}

type eventSummary struct {
	Emitter keel.NodeID `json:"emitter"`
	Name    string      `json:"name"`
}

func summarize(receipt keel.Receipt) (receiptSummary, error) {
	total, err := receipt.Fees.TotalCost()
	if err != nil {
		return receiptSummary{}, err
	}
	res := receiptSummary{
		Outcome:        receipt.Outcome.String(),
		CostUnits:      receipt.Fees.TotalExecutionCostUnitsConsumed,
		TotalCost:      total,
		RoyaltyCost:    receipt.Fees.TotalRoyaltyCost,
		NewGlobalNodes: receipt.NewGlobalNodes,
		Updates:        receipt.Updates.Len(),
	}
	if receipt.Error != nil {
		res.Error = receipt.Error.Error()
	}
	for _, output := range receipt.Outputs {
		res.Outputs = append(res.Outputs, output.Bytes())
	}
	for _, event := range receipt.Events {
		res.Events = append(res.Events, eventSummary{Emitter: event.Emitter, Name: event.Name})
	}
	return res, nil
}

func printReceipt(ctx *cli.Context, receipt keel.Receipt) error {
	summary, err := summarize(receipt)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(ctx.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

// execute runs the given transaction and commits it unless this is a dry
// run or the transaction was not committed.
func execute(ctx *cli.Context, env *environment, tx keel.Transaction) error {
	receipt, err := env.engine.Execute(tx)
	if err != nil {
		return err
	}
	if err := printReceipt(ctx, receipt); err != nil {
		return err
	}
	if ctx.Bool(dryRunFlag.Name) || !receipt.Outcome.IsCommit() {
		return nil
	}
	if err := env.engine.Commit(receipt); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	env.log.Info("transaction committed",
		zap.Stringer("outcome", receipt.Outcome),
		zap.Int("updates", receipt.Updates.Len()),
	)
	return nil
}
