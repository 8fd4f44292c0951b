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

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Fantom-foundation/Keel/go/keel"
	"go.uber.org/mock/gomock"
)

func op(code OpCode, immediate ...byte) []byte {
	return append([]byte{byte(code)}, immediate...)
}

func push(value uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{byte(PUSH)}, value)
}

func concat(parts ...[]byte) []byte {
	res := []byte{}
	for _, part := range parts {
		res = append(res, part...)
	}
	return res
}

func instantiate(t *testing.T, config Config, program Program) keel.Instance {
	t.Helper()
	code, err := program.Encode()
	if err != nil {
		t.Fatalf("failed to encode program: %v", err)
	}
	vm, err := NewVm(config)
	if err != nil {
		t.Fatalf("failed to create vm: %v", err)
	}
	instance, err := vm.Instantiate(code)
	if err != nil {
		t.Fatalf("failed to instantiate program: %v", err)
	}
	return instance
}

func single(name string, code ...[]byte) Program {
	return Program{Exports: []Export{{Name: name}}, Code: concat(code...)}
}

func TestKvm_IsRegistered(t *testing.T) {
	for _, name := range []string{"kvm", "KVM"} {
		if _, err := keel.NewInterpreter(name); err != nil {
			t.Errorf("failed to create interpreter %s: %v", name, err)
		}
	}
}

func TestKvm_InvalidConfigurationsAreRejected(t *testing.T) {
	tests := map[string]any{
		"wrong type":        "fast",
		"metering disabled": Config{MaxSteps: 10, StepCost: 1},
	}
	for name, config := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := keel.NewInterpreter("kvm", config); err == nil {
				t.Errorf("expected configuration to be rejected")
			}
		})
	}
}

func TestKvm_InvalidCodeIsRejected(t *testing.T) {
	tests := map[string]struct {
		program Program
		code    keel.Code
		want    error
	}{
		"not a program": {
			code: keel.Code{0xff},
			want: errInvalidCode,
		},
		"unknown op code": {
			program: single("B_f", op(0xee)),
			want:    errInvalidCode,
		},
		"truncated immediate": {
			program: single("B_f", op(PUSH, 1, 2)),
			want:    errInvalidCode,
		},
		"jump into immediate": {
			program: single("B_f", push(1), op(JUMP, 0, 1)),
			want:    errInvalidJump,
		},
		"jump beyond code": {
			program: single("B_f", op(JUMP, 1, 0)),
			want:    errInvalidJump,
		},
		"export beyond code": {
			program: Program{Exports: []Export{{Name: "B_f", Entry: 5}}, Code: op(STOP)},
			want:    errInvalidJump,
		},
		"duplicate export": {
			program: Program{Exports: []Export{{Name: "B_f"}, {Name: "B_f"}}, Code: op(STOP)},
			want:    errInvalidCode,
		},
		"missing event name": {
			program: single("B_f", push(1), op(EMIT, 0)),
			want:    errInvalidString,
		},
		"missing method name": {
			program: Program{Exports: []Export{{Name: "B_f"}}, Strings: []string{"m"}, Code: op(CALL, 1, 0)},
			want:    errInvalidString,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			code := test.code
			if code == nil {
				var err error
				if code, err = test.program.Encode(); err != nil {
					t.Fatalf("failed to encode program: %v", err)
				}
			}
			vm, err := NewVm(DefaultConfig())
			if err != nil {
				t.Fatalf("failed to create vm: %v", err)
			}
			if _, err := vm.Instantiate(code); !errors.Is(err, test.want) {
				t.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestKvm_UnknownExportsFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := keel.NewMockClientApi(ctrl)
	instance := instantiate(t, DefaultConfig(), single("B_f", op(STOP)))
	if _, err := instance.Invoke("B_g", keel.UnitValue, api); !errors.Is(err, errUnknownExport) {
		t.Errorf("expected unknown export error, got %v", err)
	}
}

func TestKvm_ArgumentsMustBeNumbers(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := keel.NewMockClientApi(ctrl)
	instance := instantiate(t, DefaultConfig(), single("B_f", op(STOP)))
	args := keel.MustIndexedValue(struct{ Nested []uint64 }{[]uint64{1}})
	if _, err := instance.Invoke("B_f", args, api); !errors.Is(err, errInvalidArguments) {
		t.Errorf("expected invalid arguments error, got %v", err)
	}
}
