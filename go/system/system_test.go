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
	"slices"
	"testing"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/Fantom-foundation/Keel/go/kernel"
	"github.com/Fantom-foundation/Keel/go/natives"
	"go.uber.org/mock/gomock"
)

// recordingModule logs the hooks it observes into a shared trace.
type recordingModule struct {
	BaseModule
	name  string
	trace *[]string
	fail  error
}

func (m *recordingModule) Name() string {
	return m.name
}

func (m *recordingModule) OnInit(kernel.InternalApi) error {
	*m.trace = append(*m.trace, m.name+":init")
	return m.fail
}

func (m *recordingModule) BeforePushFrame(actor keel.Actor, _ keel.IndexedValue, _ kernel.InternalApi) error {
	*m.trace = append(*m.trace, m.name+":push:"+actor.Ident)
	return m.fail
}

func TestSystem_ModulesRunInRegistrationOrder(t *testing.T) {
	trace := []string{}
	system := New(keel.Hash{}, nil,
		&recordingModule{name: "a", trace: &trace},
		&recordingModule{name: "b", trace: &trace},
	)
	ctrl := gomock.NewController(t)
	api := kernel.NewMockInternalApi(ctrl)

	if err := system.OnInit(api); err != nil {
		t.Fatalf("failed to init: %v", err)
	}
	if err := system.BeforePushFrame(keel.Actor{Ident: "x"}, keel.UnitValue, api); err != nil {
		t.Fatalf("failed to push: %v", err)
	}
	want := []string{"a:init", "b:init", "a:push:x", "b:push:x"}
	if !slices.Equal(want, trace) {
		t.Errorf("unexpected trace, wanted %v, got %v", want, trace)
	}
}

func TestSystem_FailingModuleStopsLaterModules(t *testing.T) {
	trace := []string{}
	injected := errors.New("injected")
	system := New(keel.Hash{}, nil,
		&recordingModule{name: "a", trace: &trace, fail: injected},
		&recordingModule{name: "b", trace: &trace},
	)
	ctrl := gomock.NewController(t)
	api := kernel.NewMockInternalApi(ctrl)

	err := system.OnInit(api)
	var moduleErr *ModuleError
	if !errors.As(err, &moduleErr) || moduleErr.Module != "a" || !errors.Is(err, injected) {
		t.Fatalf("unexpected error %v", err)
	}
	if want := []string{"a:init"}; !slices.Equal(want, trace) {
		t.Errorf("unexpected trace, wanted %v, got %v", want, trace)
	}
}

func TestSystem_FindsServiceModules(t *testing.T) {
	costing := NewCostingModule(newTestReserve(t), DefaultCostTable(), 0, 0)
	events := NewEventsModule(0)
	system := New(keel.Hash{}, nil, NewLimitsModule(), costing, events)
	if system.costing != costing || system.events != events {
		t.Errorf("service modules not found")
	}
}

func TestSystem_VirtualizesNativeAddresses(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := kernel.NewMockInternalApi(ctrl)
	api.EXPECT().CreateNode(gomock.Any(), gomock.Any()).Times(2)

	system := New(keel.Hash{}, nil)
	virtualized, err := system.Virtualize(natives.VirtualAccountAddress(keel.PublicKey{Key: []byte{1}}), api)
	if err != nil || !virtualized {
		t.Errorf("failed to virtualize: %t, %v", virtualized, err)
	}
}
