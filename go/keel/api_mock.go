// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package keel is a generated GoMock package.
package keel

import (
	reflect "reflect"
	gomock "go.uber.org/mock/gomock"
)

// MockKernelApi is a mock of KernelApi interface.
type MockKernelApi struct {
	ctrl     *gomock.Controller
	recorder *MockKernelApiMockRecorder
}

// MockKernelApiMockRecorder is the mock recorder for MockKernelApi.
type MockKernelApiMockRecorder struct {
	mock *MockKernelApi
}

// NewMockKernelApi creates a new mock instance.
func NewMockKernelApi(ctrl *gomock.Controller) *MockKernelApi {
	mock := &MockKernelApi{ctrl: ctrl}
	mock.recorder = &MockKernelApiMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockKernelApi) EXPECT() *MockKernelApiMockRecorder {
	return m.recorder
}

// AllocateNodeID mocks base method.
func (m *MockKernelApi) AllocateNodeID(arg0 EntityType) (NodeID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AllocateNodeID", arg0)
	ret0, _ := ret[0].(NodeID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AllocateNodeID indicates an expected call of AllocateNodeID.
func (mr *MockKernelApiMockRecorder) AllocateNodeID(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AllocateNodeID", reflect.TypeOf((*MockKernelApi)(nil).AllocateNodeID), arg0)
}

// CloseSubstate mocks base method.
func (m *MockKernelApi) CloseSubstate(arg0 LockHandle) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CloseSubstate", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// CloseSubstate indicates an expected call of CloseSubstate.
func (mr *MockKernelApiMockRecorder) CloseSubstate(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CloseSubstate", reflect.TypeOf((*MockKernelApi)(nil).CloseSubstate), arg0)
}

// CreateNode mocks base method.
func (m *MockKernelApi) CreateNode(arg0 NodeID, arg1 NodeSubstates) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateNode", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateNode indicates an expected call of CreateNode.
func (mr *MockKernelApiMockRecorder) CreateNode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateNode", reflect.TypeOf((*MockKernelApi)(nil).CreateNode), arg0, arg1)
}

// CreateNodeFrom mocks base method.
func (m *MockKernelApi) CreateNodeFrom(arg0 NodeID, arg1 []PartitionMove) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateNodeFrom", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateNodeFrom indicates an expected call of CreateNodeFrom.
func (mr *MockKernelApiMockRecorder) CreateNodeFrom(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateNodeFrom", reflect.TypeOf((*MockKernelApi)(nil).CreateNodeFrom), arg0, arg1)
}

// CurrentActor mocks base method.
func (m *MockKernelApi) CurrentActor() Actor {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CurrentActor")
	ret0, _ := ret[0].(Actor)
	return ret0
}

// CurrentActor indicates an expected call of CurrentActor.
func (mr *MockKernelApiMockRecorder) CurrentActor() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CurrentActor", reflect.TypeOf((*MockKernelApi)(nil).CurrentActor))
}

// DrainSubstates mocks base method.
func (m *MockKernelApi) DrainSubstates(arg0 NodeID, arg1 PartitionNumber, arg2 uint32) ([]Substate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DrainSubstates", arg0, arg1, arg2)
	ret0, _ := ret[0].([]Substate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DrainSubstates indicates an expected call of DrainSubstates.
func (mr *MockKernelApiMockRecorder) DrainSubstates(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DrainSubstates", reflect.TypeOf((*MockKernelApi)(nil).DrainSubstates), arg0, arg1, arg2)
}

// DropNode mocks base method.
func (m *MockKernelApi) DropNode(arg0 NodeID) (NodeSubstates, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DropNode", arg0)
	ret0, _ := ret[0].(NodeSubstates)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DropNode indicates an expected call of DropNode.
func (mr *MockKernelApiMockRecorder) DropNode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DropNode", reflect.TypeOf((*MockKernelApi)(nil).DropNode), arg0)
}

// Invoke mocks base method.
func (m *MockKernelApi) Invoke(arg0 Invocation) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Invoke", arg0)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Invoke indicates an expected call of Invoke.
func (mr *MockKernelApiMockRecorder) Invoke(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Invoke", reflect.TypeOf((*MockKernelApi)(nil).Invoke), arg0)
}

// OpenSubstate mocks base method.
func (m *MockKernelApi) OpenSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey, arg3 LockFlags) (LockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenSubstate", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(LockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenSubstate indicates an expected call of OpenSubstate.
func (mr *MockKernelApiMockRecorder) OpenSubstate(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenSubstate", reflect.TypeOf((*MockKernelApi)(nil).OpenSubstate), arg0, arg1, arg2, arg3)
}

// OpenSubstateWithDefault mocks base method.
func (m *MockKernelApi) OpenSubstateWithDefault(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey, arg3 LockFlags, arg4 IndexedValue) (LockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenSubstateWithDefault", arg0, arg1, arg2, arg3, arg4)
	ret0, _ := ret[0].(LockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenSubstateWithDefault indicates an expected call of OpenSubstateWithDefault.
func (mr *MockKernelApiMockRecorder) OpenSubstateWithDefault(arg0, arg1, arg2, arg3, arg4 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenSubstateWithDefault", reflect.TypeOf((*MockKernelApi)(nil).OpenSubstateWithDefault), arg0, arg1, arg2, arg3, arg4)
}

// ReadSubstate mocks base method.
func (m *MockKernelApi) ReadSubstate(arg0 LockHandle) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadSubstate", arg0)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadSubstate indicates an expected call of ReadSubstate.
func (mr *MockKernelApiMockRecorder) ReadSubstate(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadSubstate", reflect.TypeOf((*MockKernelApi)(nil).ReadSubstate), arg0)
}

// RemoveSubstate mocks base method.
func (m *MockKernelApi) RemoveSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey) (IndexedValue, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveSubstate", arg0, arg1, arg2)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// RemoveSubstate indicates an expected call of RemoveSubstate.
func (mr *MockKernelApiMockRecorder) RemoveSubstate(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveSubstate", reflect.TypeOf((*MockKernelApi)(nil).RemoveSubstate), arg0, arg1, arg2)
}

// ScanKeys mocks base method.
func (m *MockKernelApi) ScanKeys(arg0 NodeID, arg1 PartitionNumber, arg2 uint32) ([]SubstateKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScanKeys", arg0, arg1, arg2)
	ret0, _ := ret[0].([]SubstateKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ScanKeys indicates an expected call of ScanKeys.
func (mr *MockKernelApiMockRecorder) ScanKeys(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScanKeys", reflect.TypeOf((*MockKernelApi)(nil).ScanKeys), arg0, arg1, arg2)
}

// ScanSortedSubstates mocks base method.
func (m *MockKernelApi) ScanSortedSubstates(arg0 NodeID, arg1 PartitionNumber, arg2 uint32) ([]Substate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScanSortedSubstates", arg0, arg1, arg2)
	ret0, _ := ret[0].([]Substate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ScanSortedSubstates indicates an expected call of ScanSortedSubstates.
func (mr *MockKernelApiMockRecorder) ScanSortedSubstates(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScanSortedSubstates", reflect.TypeOf((*MockKernelApi)(nil).ScanSortedSubstates), arg0, arg1, arg2)
}

// SetSubstate mocks base method.
func (m *MockKernelApi) SetSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey, arg3 IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetSubstate", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetSubstate indicates an expected call of SetSubstate.
func (mr *MockKernelApiMockRecorder) SetSubstate(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetSubstate", reflect.TypeOf((*MockKernelApi)(nil).SetSubstate), arg0, arg1, arg2, arg3)
}

// WriteSubstate mocks base method.
func (m *MockKernelApi) WriteSubstate(arg0 LockHandle, arg1 IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WriteSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// WriteSubstate indicates an expected call of WriteSubstate.
func (mr *MockKernelApiMockRecorder) WriteSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteSubstate", reflect.TypeOf((*MockKernelApi)(nil).WriteSubstate), arg0, arg1)
}

// MockClientApi is a mock of ClientApi interface.
type MockClientApi struct {
	ctrl     *gomock.Controller
	recorder *MockClientApiMockRecorder
}

// MockClientApiMockRecorder is the mock recorder for MockClientApi.
type MockClientApiMockRecorder struct {
	mock *MockClientApi
}

// NewMockClientApi creates a new mock instance.
func NewMockClientApi(ctrl *gomock.Controller) *MockClientApi {
	mock := &MockClientApi{ctrl: ctrl}
	mock.recorder = &MockClientApiMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockClientApi) EXPECT() *MockClientApiMockRecorder {
	return m.recorder
}

// AllocateNodeID mocks base method.
func (m *MockClientApi) AllocateNodeID(arg0 EntityType) (NodeID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AllocateNodeID", arg0)
	ret0, _ := ret[0].(NodeID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AllocateNodeID indicates an expected call of AllocateNodeID.
func (mr *MockClientApiMockRecorder) AllocateNodeID(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AllocateNodeID", reflect.TypeOf((*MockClientApi)(nil).AllocateNodeID), arg0)
}

// CallDirectAccessMethod mocks base method.
func (m *MockClientApi) CallDirectAccessMethod(arg0 NodeID, arg1 string, arg2 IndexedValue) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CallDirectAccessMethod", arg0, arg1, arg2)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CallDirectAccessMethod indicates an expected call of CallDirectAccessMethod.
func (mr *MockClientApiMockRecorder) CallDirectAccessMethod(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CallDirectAccessMethod", reflect.TypeOf((*MockClientApi)(nil).CallDirectAccessMethod), arg0, arg1, arg2)
}

// CallFunction mocks base method.
func (m *MockClientApi) CallFunction(arg0 NodeID, arg1 string, arg2 string, arg3 IndexedValue) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CallFunction", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CallFunction indicates an expected call of CallFunction.
func (mr *MockClientApiMockRecorder) CallFunction(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CallFunction", reflect.TypeOf((*MockClientApi)(nil).CallFunction), arg0, arg1, arg2, arg3)
}

// CallMethod mocks base method.
func (m *MockClientApi) CallMethod(arg0 NodeID, arg1 string, arg2 IndexedValue) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CallMethod", arg0, arg1, arg2)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CallMethod indicates an expected call of CallMethod.
func (mr *MockClientApiMockRecorder) CallMethod(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CallMethod", reflect.TypeOf((*MockClientApi)(nil).CallMethod), arg0, arg1, arg2)
}

// CloseSubstate mocks base method.
func (m *MockClientApi) CloseSubstate(arg0 LockHandle) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CloseSubstate", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// CloseSubstate indicates an expected call of CloseSubstate.
func (mr *MockClientApiMockRecorder) CloseSubstate(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CloseSubstate", reflect.TypeOf((*MockClientApi)(nil).CloseSubstate), arg0)
}

// ConsumeCostUnits mocks base method.
func (m *MockClientApi) ConsumeCostUnits(arg0 uint32) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ConsumeCostUnits", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// ConsumeCostUnits indicates an expected call of ConsumeCostUnits.
func (mr *MockClientApiMockRecorder) ConsumeCostUnits(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ConsumeCostUnits", reflect.TypeOf((*MockClientApi)(nil).ConsumeCostUnits), arg0)
}

// CreateNode mocks base method.
func (m *MockClientApi) CreateNode(arg0 NodeID, arg1 NodeSubstates) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateNode", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateNode indicates an expected call of CreateNode.
func (mr *MockClientApiMockRecorder) CreateNode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateNode", reflect.TypeOf((*MockClientApi)(nil).CreateNode), arg0, arg1)
}

// CreateNodeFrom mocks base method.
func (m *MockClientApi) CreateNodeFrom(arg0 NodeID, arg1 []PartitionMove) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateNodeFrom", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateNodeFrom indicates an expected call of CreateNodeFrom.
func (mr *MockClientApiMockRecorder) CreateNodeFrom(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateNodeFrom", reflect.TypeOf((*MockClientApi)(nil).CreateNodeFrom), arg0, arg1)
}

// CurrentActor mocks base method.
func (m *MockClientApi) CurrentActor() Actor {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CurrentActor")
	ret0, _ := ret[0].(Actor)
	return ret0
}

// CurrentActor indicates an expected call of CurrentActor.
func (mr *MockClientApiMockRecorder) CurrentActor() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CurrentActor", reflect.TypeOf((*MockClientApi)(nil).CurrentActor))
}

// DrainSubstates mocks base method.
func (m *MockClientApi) DrainSubstates(arg0 NodeID, arg1 PartitionNumber, arg2 uint32) ([]Substate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DrainSubstates", arg0, arg1, arg2)
	ret0, _ := ret[0].([]Substate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DrainSubstates indicates an expected call of DrainSubstates.
func (mr *MockClientApiMockRecorder) DrainSubstates(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DrainSubstates", reflect.TypeOf((*MockClientApi)(nil).DrainSubstates), arg0, arg1, arg2)
}

// DropNode mocks base method.
func (m *MockClientApi) DropNode(arg0 NodeID) (NodeSubstates, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DropNode", arg0)
	ret0, _ := ret[0].(NodeSubstates)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DropNode indicates an expected call of DropNode.
func (mr *MockClientApiMockRecorder) DropNode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DropNode", reflect.TypeOf((*MockClientApi)(nil).DropNode), arg0)
}

// EmitEvent mocks base method.
func (m *MockClientApi) EmitEvent(arg0 string, arg1 IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EmitEvent", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// EmitEvent indicates an expected call of EmitEvent.
func (mr *MockClientApiMockRecorder) EmitEvent(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EmitEvent", reflect.TypeOf((*MockClientApi)(nil).EmitEvent), arg0, arg1)
}

// Globalize mocks base method.
func (m *MockClientApi) Globalize(arg0 EntityType, arg1 NodeID) (NodeID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Globalize", arg0, arg1)
	ret0, _ := ret[0].(NodeID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Globalize indicates an expected call of Globalize.
func (mr *MockClientApiMockRecorder) Globalize(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Globalize", reflect.TypeOf((*MockClientApi)(nil).Globalize), arg0, arg1)
}

// Invoke mocks base method.
func (m *MockClientApi) Invoke(arg0 Invocation) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Invoke", arg0)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Invoke indicates an expected call of Invoke.
func (mr *MockClientApiMockRecorder) Invoke(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Invoke", reflect.TypeOf((*MockClientApi)(nil).Invoke), arg0)
}

// Keccak256Hash mocks base method.
func (m *MockClientApi) Keccak256Hash(arg0 []byte) (Hash, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Keccak256Hash", arg0)
	ret0, _ := ret[0].(Hash)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Keccak256Hash indicates an expected call of Keccak256Hash.
func (mr *MockClientApiMockRecorder) Keccak256Hash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Keccak256Hash", reflect.TypeOf((*MockClientApi)(nil).Keccak256Hash), arg0)
}

// LockFee mocks base method.
func (m *MockClientApi) LockFee(arg0 NodeID, arg1 Decimal, arg2 bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LockFee", arg0, arg1, arg2)
	ret0, _ := ret[0].(error)
	return ret0
}

// LockFee indicates an expected call of LockFee.
func (mr *MockClientApiMockRecorder) LockFee(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LockFee", reflect.TypeOf((*MockClientApi)(nil).LockFee), arg0, arg1, arg2)
}

// OpenSubstate mocks base method.
func (m *MockClientApi) OpenSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey, arg3 LockFlags) (LockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenSubstate", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(LockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenSubstate indicates an expected call of OpenSubstate.
func (mr *MockClientApiMockRecorder) OpenSubstate(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenSubstate", reflect.TypeOf((*MockClientApi)(nil).OpenSubstate), arg0, arg1, arg2, arg3)
}

// OpenSubstateWithDefault mocks base method.
func (m *MockClientApi) OpenSubstateWithDefault(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey, arg3 LockFlags, arg4 IndexedValue) (LockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenSubstateWithDefault", arg0, arg1, arg2, arg3, arg4)
	ret0, _ := ret[0].(LockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenSubstateWithDefault indicates an expected call of OpenSubstateWithDefault.
func (mr *MockClientApiMockRecorder) OpenSubstateWithDefault(arg0, arg1, arg2, arg3, arg4 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenSubstateWithDefault", reflect.TypeOf((*MockClientApi)(nil).OpenSubstateWithDefault), arg0, arg1, arg2, arg3, arg4)
}

// ReadSubstate mocks base method.
func (m *MockClientApi) ReadSubstate(arg0 LockHandle) (IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadSubstate", arg0)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadSubstate indicates an expected call of ReadSubstate.
func (mr *MockClientApiMockRecorder) ReadSubstate(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadSubstate", reflect.TypeOf((*MockClientApi)(nil).ReadSubstate), arg0)
}

// RemoveSubstate mocks base method.
func (m *MockClientApi) RemoveSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey) (IndexedValue, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveSubstate", arg0, arg1, arg2)
	ret0, _ := ret[0].(IndexedValue)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// RemoveSubstate indicates an expected call of RemoveSubstate.
func (mr *MockClientApiMockRecorder) RemoveSubstate(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveSubstate", reflect.TypeOf((*MockClientApi)(nil).RemoveSubstate), arg0, arg1, arg2)
}

// ScanKeys mocks base method.
func (m *MockClientApi) ScanKeys(arg0 NodeID, arg1 PartitionNumber, arg2 uint32) ([]SubstateKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScanKeys", arg0, arg1, arg2)
	ret0, _ := ret[0].([]SubstateKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ScanKeys indicates an expected call of ScanKeys.
func (mr *MockClientApiMockRecorder) ScanKeys(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScanKeys", reflect.TypeOf((*MockClientApi)(nil).ScanKeys), arg0, arg1, arg2)
}

// ScanSortedSubstates mocks base method.
func (m *MockClientApi) ScanSortedSubstates(arg0 NodeID, arg1 PartitionNumber, arg2 uint32) ([]Substate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScanSortedSubstates", arg0, arg1, arg2)
	ret0, _ := ret[0].([]Substate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ScanSortedSubstates indicates an expected call of ScanSortedSubstates.
func (mr *MockClientApiMockRecorder) ScanSortedSubstates(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScanSortedSubstates", reflect.TypeOf((*MockClientApi)(nil).ScanSortedSubstates), arg0, arg1, arg2)
}

// SetSubstate mocks base method.
func (m *MockClientApi) SetSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey, arg3 IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetSubstate", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetSubstate indicates an expected call of SetSubstate.
func (mr *MockClientApiMockRecorder) SetSubstate(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetSubstate", reflect.TypeOf((*MockClientApi)(nil).SetSubstate), arg0, arg1, arg2, arg3)
}

// TransactionHash mocks base method.
func (m *MockClientApi) TransactionHash() Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TransactionHash")
	ret0, _ := ret[0].(Hash)
	return ret0
}

// TransactionHash indicates an expected call of TransactionHash.
func (mr *MockClientApiMockRecorder) TransactionHash() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TransactionHash", reflect.TypeOf((*MockClientApi)(nil).TransactionHash))
}

// WriteSubstate mocks base method.
func (m *MockClientApi) WriteSubstate(arg0 LockHandle, arg1 IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WriteSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// WriteSubstate indicates an expected call of WriteSubstate.
func (mr *MockClientApiMockRecorder) WriteSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteSubstate", reflect.TypeOf((*MockClientApi)(nil).WriteSubstate), arg0, arg1)
}
