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
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Keel/go/interpreter/kvm"
	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"github.com/Fantom-foundation/Keel/go/system"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ownerKey     = hexutil.Encode(bytes.Repeat([]byte{1}, 32))
	recipientKey = hexutil.Encode(bytes.Repeat([]byte{2}, 33))
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"keel", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestApp_GenesisTransferAndInspect(t *testing.T) {
	db := t.TempDir()

	out, err := runApp(t, "--db", db, "genesis", "--owner", ownerKey, "--supply", "1000")
	if err != nil {
		t.Fatalf("genesis failed: %v", err)
	}
	owner, err := parsePublicKey(ownerKey)
	if err != nil {
		t.Fatalf("invalid key: %v", err)
	}
	account := natives.VirtualAccountAddress(owner)
	if strings.TrimSpace(out) != account.String() {
		t.Errorf("unexpected genesis output %q", out)
	}

	if _, err := runApp(t, "--db", db, "genesis", "--owner", ownerKey); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected second genesis to fail, got %v", err)
	}

	out, err = runApp(t, "--db", db, "transfer", "--from", ownerKey, "--to", recipientKey, "--amount", "100")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	var summary receiptSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("invalid receipt output %q: %v", out, err)
	}
	if summary.Outcome != keel.OutcomeCommitSuccess.String() || summary.Updates == 0 || summary.TotalCost.IsZero() {
		t.Errorf("unexpected receipt %+v", summary)
	}

	out, err = runApp(t, "--db", db, "inspect", account.String())
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.HasPrefix(out, account.String()) || !strings.Contains(out, "owns") {
		t.Errorf("unexpected inspect output %q", out)
	}
}

func TestApp_RunExecutesTransactionFiles(t *testing.T) {
	db := t.TempDir()
	if _, err := runApp(t, "--db", db, "genesis", "--owner", ownerKey); err != nil {
		t.Fatalf("genesis failed: %v", err)
	}
	owner, _ := parsePublicKey(ownerKey)
	recipient, _ := parsePublicKey(recipientKey)
	tx := newTransfer(0, owner, recipient, keel.NewDecimal(5), keel.NewDecimal(10))
	data, err := json.Marshal(transactionFile{
		Signers:      []hexutil.Bytes{owner.Key},
		Instructions: tx.Instructions,
	})
	if err != nil {
		t.Fatalf("failed to encode transaction: %v", err)
	}
	path := writeFile(t, "tx.json", string(data))

	out, err := runApp(t, "--db", db, "run", "--dry-run", path)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, keel.OutcomeCommitSuccess.String()) {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runApp(t, "--db", db, "bench", "--iterations", "3", path)
	if err != nil {
		t.Fatalf("bench failed: %v", err)
	}
	if !strings.Contains(out, "executed 3 transactions") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestApp_InterpreterRunsPublishedPackages(t *testing.T) {
	db := t.TempDir()
	if _, err := runApp(t, "--db", db, "genesis", "--owner", ownerKey); err != nil {
		t.Fatalf("genesis failed: %v", err)
	}
	owner, _ := parsePublicKey(ownerKey)
	account := natives.VirtualAccountAddress(owner)

	nonce := uint64(0)
	run := func(instruction keel.Instruction, flags ...string) (receiptSummary, keel.IndexedValue) {
		t.Helper()
		nonce++
		data, err := json.Marshal(transactionFile{
			Nonce:   nonce,
			Signers: []hexutil.Bytes{owner.Key},
			Instructions: []keel.Instruction{
				keel.CallMethod(account, "lock_fee", keel.MustIndexedValue(natives.LockFeeArgs{Amount: keel.NewDecimal(10)})),
				instruction,
			},
		})
		if err != nil {
			t.Fatalf("failed to encode transaction: %v", err)
		}
		args := append(flags, "--db", db, "run", writeFile(t, "tx.json", string(data)))
		out, err := runApp(t, args...)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		var summary receiptSummary
		if err := json.Unmarshal([]byte(out), &summary); err != nil {
			t.Fatalf("invalid receipt output %q: %v", out, err)
		}
		if len(summary.Outputs) < 2 {
			return summary, keel.IndexedValue{}
		}
		output, err := keel.IndexedValueFromBytes(summary.Outputs[1])
		if err != nil {
			t.Fatalf("invalid output: %v", err)
		}
		return summary, output
	}

	// Returns the counter incremented by one.
	code, err := kvm.Program{
		Exports: []kvm.Export{{Name: "Counter_new", Entry: 0}, {Name: "Counter_increment", Entry: 11}},
		Code: []byte{
			byte(kvm.PUSH), 0, 0, 0, 0, 0, 0, 0, 41, byte(kvm.NEW), 1,
			byte(kvm.LOAD), 0, byte(kvm.PUSH), 0, 0, 0, 0, 0, 0, 0, 1, byte(kvm.ADD),
			byte(kvm.DUP), 0, byte(kvm.STORE), 0, byte(kvm.RETURN),
		},
	}.Encode()
	if err != nil {
		t.Fatalf("failed to encode program: %v", err)
	}
	summary, output := run(keel.CallFunction(natives.PackagePackage, natives.PackageBlueprint, "publish", keel.MustIndexedValue(natives.PublishArgs{Code: code})))
	var published natives.PackageOutput
	if summary.Outcome != keel.OutcomeCommitSuccess.String() || output.Decode(&published) != nil {
		t.Fatalf("failed to publish package: %+v", summary)
	}
	create := keel.CallFunction(published.Package.NodeID(), "Counter", "new", keel.UnitValue)

	summary, _ = run(create)
	if summary.Outcome != keel.OutcomeCommitFailure.String() || !strings.Contains(summary.Error, system.ErrNoInterpreter.Error()) {
		t.Errorf("expected failure without interpreter, got %+v", summary)
	}

	summary, output = run(create, "--interpreter", "kvm")
	var component keel.Reference
	if summary.Outcome != keel.OutcomeCommitSuccess.String() || output.Decode(&component) != nil {
		t.Fatalf("failed to create component: %+v", summary)
	}
	summary, output = run(keel.CallMethod(component.NodeID(), "increment", keel.UnitValue), "--interpreter", "kvm")
	var counter uint64
	if err := output.Decode(&counter); err != nil || counter != 42 {
		t.Errorf("unexpected counter %d in %+v", counter, summary)
	}

	if _, err := runApp(t, "--interpreter", "evm", "--db", db, "run", writeFile(t, "tx.json", "{}")); err == nil {
		t.Errorf("expected unknown interpreter to be rejected")
	}
}

func TestReadTransaction_RejectsInvalidFiles(t *testing.T) {
	tests := map[string]string{
		"not json":    "{",
		"bad address": `{"instructions": [{"Address": "0x01"}]}`,
		"bad signer":  `{"signers": ["0x"]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := readTransaction(writeFile(t, "tx.json", content)); err == nil {
				t.Errorf("expected transaction to be rejected")
			}
		})
	}
}

func TestParsePublicKey_SelectsCurveByLength(t *testing.T) {
	ed, err := parsePublicKey(ownerKey)
	if err != nil || !ed.Ed25519 {
		t.Errorf("expected Ed25519 key, got %v, %v", ed, err)
	}
	secp, err := parsePublicKey(recipientKey)
	if err != nil || secp.Ed25519 {
		t.Errorf("expected Secp256k1 key, got %v, %v", secp, err)
	}
	if _, err := parsePublicKey("nothex"); err == nil {
		t.Errorf("expected invalid key to be rejected")
	}
}
