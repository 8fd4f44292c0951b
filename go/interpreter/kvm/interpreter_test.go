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
	"errors"
	"math"
	"testing"

	"github.com/Fantom-foundation/Keel/go/keel"
	"go.uber.org/mock/gomock"
)

var (
	testPackage   = keel.NewNodeID(keel.EntityTypeGlobalPackage, []byte{1})
	testComponent = keel.NewNodeID(keel.EntityTypeGlobalGenericComponent, []byte{2})
	testReceiver  = keel.NewNodeID(keel.EntityTypeInternalGenericComponent, []byte{3})

	functionActor = keel.Actor{Package: testPackage, Blueprint: "B", Ident: "f"}
	methodActor   = keel.Actor{Package: testPackage, Blueprint: "B", Ident: "f", Receiver: testReceiver, Global: testComponent}
)

// newApi creates an api mock charging cost units without limit.
func newApi(t *testing.T, actor keel.Actor) *keel.MockClientApi {
	ctrl := gomock.NewController(t)
	api := keel.NewMockClientApi(ctrl)
	api.EXPECT().CurrentActor().Return(actor).AnyTimes()
	api.EXPECT().ConsumeCostUnits(gomock.Any()).AnyTimes()
	return api
}

func invoke(t *testing.T, program Program, args []uint64, api keel.ClientApi) (uint64, error) {
	t.Helper()
	output, err := instantiate(t, DefaultConfig(), program).Invoke("B_f", keel.MustIndexedValue(args), api)
	if err != nil {
		return 0, err
	}
	var res uint64
	if err := output.Decode(&res); err != nil {
		t.Fatalf("invalid output %v: %v", output, err)
	}
	return res, nil
}

func TestInterpreter_Arithmetic(t *testing.T) {
	tests := map[string]struct {
		code []byte
		want uint64
	}{
		"add":              {concat(push(3), push(4), op(ADD)), 7},
		"sub":              {concat(push(7), push(4), op(SUB)), 3},
		"mul":              {concat(push(3), push(4), op(MUL)), 12},
		"div":              {concat(push(12), push(4), op(DIV)), 3},
		"division by zero": {concat(push(12), push(0), op(DIV)), 0},
		"less than":        {concat(push(3), push(4), op(LT)), 1},
		"greater than":     {concat(push(3), push(4), op(GT)), 0},
		"equal":            {concat(push(4), push(4), op(EQ)), 1},
		"is zero":          {concat(push(0), op(ISZERO)), 1},
		"dup":              {concat(push(5), push(6), op(DUP, 1), op(POP), op(POP)), 5},
		"swap":             {concat(push(5), push(6), op(SWAP, 1), op(POP)), 6},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := invoke(t, single("B_f", test.code, op(RETURN)), nil, newApi(t, functionActor))
			if err != nil {
				t.Fatalf("failed to run: %v", err)
			}
			if got != test.want {
				t.Errorf("unexpected result, wanted %d, got %d", test.want, got)
			}
		})
	}
}

func TestInterpreter_LoopsOverArguments(t *testing.T) {
	// Sums up the numbers from 1 to the first argument.
	sum := single("B_f",
		push(0),             // 0: acc
		op(ARG, 0),          // 9: acc n
		op(DUP, 0),          // 11: acc n n
		op(ISZERO),          // 13: acc n n==0
		op(JUMPI, 0, 37),    // 14: acc n
		op(DUP, 0),          // 17: acc n n
		op(SWAP, 2),         // 19: n n acc
		op(ADD),             // 21: n acc+n
		op(SWAP, 1),         // 22: acc+n n
		push(1), op(SUB),    // 24: acc+n n-1
		op(JUMP, 0, 11),     // 34
		op(POP), op(RETURN), // 37
	)
	for n, want := range map[uint64]uint64{0: 0, 1: 1, 4: 10, 100: 5050} {
		got, err := invoke(t, sum, []uint64{n}, newApi(t, functionActor))
		if err != nil {
			t.Fatalf("failed to run: %v", err)
		}
		if got != want {
			t.Errorf("unexpected sum of %d, wanted %d, got %d", n, want, got)
		}
	}
}

func TestInterpreter_EndOfCodeReturnsUnit(t *testing.T) {
	output, err := instantiate(t, DefaultConfig(), single("B_f", push(1))).Invoke("B_f", keel.UnitValue, newApi(t, functionActor))
	if err != nil {
		t.Fatalf("failed to run: %v", err)
	}
	if !output.Equal(keel.UnitValue) {
		t.Errorf("expected unit output, got %v", output)
	}
}

func TestInterpreter_Failures(t *testing.T) {
	tests := map[string]struct {
		actor keel.Actor
		code  []byte
		want  error
	}{
		"stack underflow": {
			actor: functionActor,
			code:  concat(push(1), op(ADD)),
			want:  errStackUnderflow,
		},
		"stack overflow": {
			actor: functionActor,
			code:  concat(push(1), op(DUP, 0), op(JUMP, 0, 9)),
			want:  errStackOverflow,
		},
		"dup beyond stack": {
			actor: functionActor,
			code:  concat(push(1), op(DUP, 1)),
			want:  errStackUnderflow,
		},
		"missing argument": {
			actor: functionActor,
			code:  op(ARG, 0),
			want:  errInvalidArguments,
		},
		"result exceeds 64 bit": {
			actor: functionActor,
			code:  concat(push(math.MaxUint64), push(1), op(ADD), op(RETURN)),
			want:  errValueOverflow,
		},
		"field access in function": {
			actor: functionActor,
			code:  op(LOAD, 0),
			want:  errNoReceiver,
		},
		"method call in function": {
			actor: functionActor,
			code:  op(CALL, 0, 0),
			want:  errNoReceiver,
		},
		"endless loop": {
			actor: functionActor,
			code:  op(JUMP, 0, 0),
			want:  errStepLimit,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			program := single("B_f", test.code)
			program.Strings = []string{"m"}
			_, err := invoke(t, program, nil, newApi(t, test.actor))
			if !errors.Is(err, test.want) {
				t.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestInterpreter_InstructionsAreMetered(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := keel.NewMockClientApi(ctrl)
	api.EXPECT().CurrentActor().Return(functionActor)
	config := Config{MaxSteps: 100, StepCost: 10, MeteringInterval: 2}
	gomock.InOrder(
		api.EXPECT().ConsumeCostUnits(uint32(20)),
		api.EXPECT().ConsumeCostUnits(uint32(20)),
		api.EXPECT().ConsumeCostUnits(uint32(10)),
	)
	code := concat(push(1), push(2), op(ADD), op(POP), op(STOP))
	if _, err := instantiate(t, config, single("B_f", code)).Invoke("B_f", keel.UnitValue, api); err != nil {
		t.Fatalf("failed to run: %v", err)
	}
}

func TestInterpreter_MeteringFailuresAbortExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := keel.NewMockClientApi(ctrl)
	injected := errors.New("injected")
	api.EXPECT().CurrentActor().Return(functionActor)
	api.EXPECT().ConsumeCostUnits(gomock.Any()).Return(injected)
	config := Config{MaxSteps: 100, StepCost: 10, MeteringInterval: 1}
	if _, err := instantiate(t, config, single("B_f", op(JUMP, 0, 0))).Invoke("B_f", keel.UnitValue, api); !errors.Is(err, injected) {
		t.Errorf("expected metering error, got %v", err)
	}
}

func TestInterpreter_FieldsAreReadAndWritten(t *testing.T) {
	api := newApi(t, methodActor)
	gomock.InOrder(
		api.EXPECT().OpenSubstate(testReceiver, keel.MainPartition, keel.FieldKey(1), keel.LockFlags(0)).Return(keel.LockHandle(1), nil),
		api.EXPECT().ReadSubstate(keel.LockHandle(1)).Return(keel.MustIndexedValue(uint64(5)), nil),
		api.EXPECT().CloseSubstate(keel.LockHandle(1)),
		api.EXPECT().OpenSubstate(testReceiver, keel.MainPartition, keel.FieldKey(1), keel.LockMutable).Return(keel.LockHandle(2), nil),
		api.EXPECT().WriteSubstate(keel.LockHandle(2), keel.MustIndexedValue(uint64(6))),
		api.EXPECT().CloseSubstate(keel.LockHandle(2)),
	)
	increment := single("B_f", op(LOAD, 1), push(1), op(ADD), op(DUP, 0), op(STORE, 1), op(RETURN))
	got, err := invoke(t, increment, nil, api)
	if err != nil {
		t.Fatalf("failed to run: %v", err)
	}
	if got != 6 {
		t.Errorf("unexpected result, wanted 6, got %d", got)
	}
}

func TestInterpreter_KernelErrorsArePropagated(t *testing.T) {
	api := newApi(t, methodActor)
	injected := errors.New("injected")
	api.EXPECT().OpenSubstate(testReceiver, keel.MainPartition, keel.FieldKey(0), keel.LockMutable).Return(keel.LockHandle(0), injected)
	if _, err := invoke(t, single("B_f", push(1), op(STORE, 0)), nil, api); !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestInterpreter_EventsAreEmitted(t *testing.T) {
	api := newApi(t, functionActor)
	api.EXPECT().EmitEvent("Counted", keel.MustIndexedValue(uint64(3)))
	program := single("B_f", push(3), op(EMIT, 0), op(STOP))
	program.Strings = []string{"Counted"}
	if _, err := instantiate(t, DefaultConfig(), program).Invoke("B_f", keel.UnitValue, api); err != nil {
		t.Fatalf("failed to run: %v", err)
	}
}

func TestInterpreter_MethodsOfTheComponentCanBeCalled(t *testing.T) {
	api := newApi(t, methodActor)
	api.EXPECT().CallMethod(testComponent, "get", gomock.Any()).DoAndReturn(func(_ keel.NodeID, _ string, args keel.IndexedValue) (keel.IndexedValue, error) {
		var got []uint64
		if err := args.Decode(&got); err != nil || len(got) != 2 || got[0] != 1 || got[1] != 2 {
			t.Errorf("unexpected arguments %v, err %v", got, err)
		}
		return keel.MustIndexedValue(uint64(7)), nil
	})
	program := single("B_f", push(1), push(2), op(CALL, 0, 2), op(RETURN))
	program.Strings = []string{"get"}
	got, err := invoke(t, program, nil, api)
	if err != nil {
		t.Fatalf("failed to run: %v", err)
	}
	if got != 7 {
		t.Errorf("unexpected result, wanted 7, got %d", got)
	}
}

func TestInterpreter_HashUsesTheClientApi(t *testing.T) {
	api := newApi(t, functionActor)
	data := make([]byte, 32)
	data[31] = 5
	api.EXPECT().Keccak256Hash(data).Return(keel.Hash{31: 9}, nil)
	got, err := invoke(t, single("B_f", push(5), op(HASH), op(RETURN)), nil, api)
	if err != nil {
		t.Fatalf("failed to run: %v", err)
	}
	if got != 9 {
		t.Errorf("unexpected result, wanted 9, got %d", got)
	}
}

func TestInterpreter_NewCreatesGlobalComponents(t *testing.T) {
	api := newApi(t, functionActor)
	inner := keel.NewNodeID(keel.EntityTypeInternalGenericComponent, []byte{9})
	api.EXPECT().AllocateNodeID(keel.EntityTypeInternalGenericComponent).Return(inner, nil)
	api.EXPECT().CreateNode(inner, gomock.Any()).DoAndReturn(func(_ keel.NodeID, substates keel.NodeSubstates) error {
		for field, want := range []uint64{3, 4} {
			value, found := substates.Get(keel.MainPartition, keel.FieldKey(uint8(field)))
			var got uint64
			if !found || value.Decode(&got) != nil || got != want {
				t.Errorf("unexpected field %d, wanted %d, got %v", field, want, value)
			}
		}
		value, _ := substates.Get(keel.TypeInfoPartition, keel.TypeInfoKey)
		var info keel.TypeInfo
		if err := value.Decode(&info); err != nil || info.Package != testPackage || info.Blueprint != "B" {
			t.Errorf("unexpected type info %v, err %v", info, err)
		}
		return nil
	})
	api.EXPECT().Globalize(keel.EntityTypeGlobalGenericComponent, inner).Return(testComponent, nil)

	output, err := instantiate(t, DefaultConfig(), single("B_f", push(3), push(4), op(NEW, 2))).Invoke("B_f", keel.UnitValue, api)
	if err != nil {
		t.Fatalf("failed to run: %v", err)
	}
	var got keel.Reference
	if err := output.Decode(&got); err != nil || got.NodeID() != testComponent {
		t.Errorf("unexpected output %v, err %v", got, err)
	}
}
