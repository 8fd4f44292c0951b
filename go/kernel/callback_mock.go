// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package kernel is a generated GoMock package.
package kernel

import (
	reflect "reflect"

	keel "github.com/Fantom-foundation/Keel/go/keel"
	track "github.com/Fantom-foundation/Keel/go/track"
	gomock "go.uber.org/mock/gomock"
)

// MockInternalApi is a mock of InternalApi interface.
type MockInternalApi struct {
	ctrl     *gomock.Controller
	recorder *MockInternalApiMockRecorder
}

// MockInternalApiMockRecorder is the mock recorder for MockInternalApi.
type MockInternalApiMockRecorder struct {
	mock *MockInternalApi
}

// NewMockInternalApi creates a new mock instance.
func NewMockInternalApi(ctrl *gomock.Controller) *MockInternalApi {
	mock := &MockInternalApi{ctrl: ctrl}
	mock.recorder = &MockInternalApiMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockInternalApi) EXPECT() *MockInternalApiMockRecorder {
	return m.recorder
}

// AllocateNodeID mocks base method.
func (m *MockInternalApi) AllocateNodeID(arg0 keel.EntityType) (keel.NodeID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AllocateNodeID", arg0)
	ret0, _ := ret[0].(keel.NodeID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AllocateNodeID indicates an expected call of AllocateNodeID.
func (mr *MockInternalApiMockRecorder) AllocateNodeID(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AllocateNodeID", reflect.TypeOf((*MockInternalApi)(nil).AllocateNodeID), arg0)
}

// CloseSubstate mocks base method.
func (m *MockInternalApi) CloseSubstate(arg0 keel.LockHandle) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CloseSubstate", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// CloseSubstate indicates an expected call of CloseSubstate.
func (mr *MockInternalApiMockRecorder) CloseSubstate(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CloseSubstate", reflect.TypeOf((*MockInternalApi)(nil).CloseSubstate), arg0)
}

// CreateNode mocks base method.
func (m *MockInternalApi) CreateNode(arg0 keel.NodeID, arg1 keel.NodeSubstates) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateNode", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateNode indicates an expected call of CreateNode.
func (mr *MockInternalApiMockRecorder) CreateNode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateNode", reflect.TypeOf((*MockInternalApi)(nil).CreateNode), arg0, arg1)
}

// CreateNodeFrom mocks base method.
func (m *MockInternalApi) CreateNodeFrom(arg0 keel.NodeID, arg1 []keel.PartitionMove) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateNodeFrom", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateNodeFrom indicates an expected call of CreateNodeFrom.
func (mr *MockInternalApiMockRecorder) CreateNodeFrom(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateNodeFrom", reflect.TypeOf((*MockInternalApi)(nil).CreateNodeFrom), arg0, arg1)
}

// CurrentActor mocks base method.
func (m *MockInternalApi) CurrentActor() keel.Actor {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CurrentActor")
	ret0, _ := ret[0].(keel.Actor)
	return ret0
}

// CurrentActor indicates an expected call of CurrentActor.
func (mr *MockInternalApiMockRecorder) CurrentActor() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CurrentActor", reflect.TypeOf((*MockInternalApi)(nil).CurrentActor))
}

// Depth mocks base method.
func (m *MockInternalApi) Depth() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Depth")
	ret0, _ := ret[0].(int)
	return ret0
}

// Depth indicates an expected call of Depth.
func (mr *MockInternalApiMockRecorder) Depth() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Depth", reflect.TypeOf((*MockInternalApi)(nil).Depth))
}

// DrainSubstates mocks base method.
func (m *MockInternalApi) DrainSubstates(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 uint32) ([]keel.Substate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DrainSubstates", arg0, arg1, arg2)
	ret0, _ := ret[0].([]keel.Substate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DrainSubstates indicates an expected call of DrainSubstates.
func (mr *MockInternalApiMockRecorder) DrainSubstates(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DrainSubstates", reflect.TypeOf((*MockInternalApi)(nil).DrainSubstates), arg0, arg1, arg2)
}

// DropNode mocks base method.
func (m *MockInternalApi) DropNode(arg0 keel.NodeID) (keel.NodeSubstates, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DropNode", arg0)
	ret0, _ := ret[0].(keel.NodeSubstates)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DropNode indicates an expected call of DropNode.
func (mr *MockInternalApiMockRecorder) DropNode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DropNode", reflect.TypeOf((*MockInternalApi)(nil).DropNode), arg0)
}

// Invoke mocks base method.
func (m *MockInternalApi) Invoke(arg0 keel.Invocation) (keel.IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Invoke", arg0)
	ret0, _ := ret[0].(keel.IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Invoke indicates an expected call of Invoke.
func (mr *MockInternalApiMockRecorder) Invoke(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Invoke", reflect.TypeOf((*MockInternalApi)(nil).Invoke), arg0)
}

// Mode mocks base method.
func (m *MockInternalApi) Mode() ExecutionMode {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Mode")
	ret0, _ := ret[0].(ExecutionMode)
	return ret0
}

// Mode indicates an expected call of Mode.
func (mr *MockInternalApiMockRecorder) Mode() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Mode", reflect.TypeOf((*MockInternalApi)(nil).Mode))
}

// OpenSubstate mocks base method.
func (m *MockInternalApi) OpenSubstate(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 keel.SubstateKey, arg3 keel.LockFlags) (keel.LockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenSubstate", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(keel.LockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenSubstate indicates an expected call of OpenSubstate.
func (mr *MockInternalApiMockRecorder) OpenSubstate(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenSubstate", reflect.TypeOf((*MockInternalApi)(nil).OpenSubstate), arg0, arg1, arg2, arg3)
}

// OpenSubstateWithDefault mocks base method.
func (m *MockInternalApi) OpenSubstateWithDefault(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 keel.SubstateKey, arg3 keel.LockFlags, arg4 keel.IndexedValue) (keel.LockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenSubstateWithDefault", arg0, arg1, arg2, arg3, arg4)
	ret0, _ := ret[0].(keel.LockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenSubstateWithDefault indicates an expected call of OpenSubstateWithDefault.
func (mr *MockInternalApiMockRecorder) OpenSubstateWithDefault(arg0, arg1, arg2, arg3, arg4 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenSubstateWithDefault", reflect.TypeOf((*MockInternalApi)(nil).OpenSubstateWithDefault), arg0, arg1, arg2, arg3, arg4)
}

// OwnedNodes mocks base method.
func (m *MockInternalApi) OwnedNodes() []keel.NodeID {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OwnedNodes")
	ret0, _ := ret[0].([]keel.NodeID)
	return ret0
}

// OwnedNodes indicates an expected call of OwnedNodes.
func (mr *MockInternalApiMockRecorder) OwnedNodes() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OwnedNodes", reflect.TypeOf((*MockInternalApi)(nil).OwnedNodes))
}

// PeekSubstate mocks base method.
func (m *MockInternalApi) PeekSubstate(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 keel.SubstateKey) (keel.IndexedValue, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PeekSubstate", arg0, arg1, arg2)
	ret0, _ := ret[0].(keel.IndexedValue)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// PeekSubstate indicates an expected call of PeekSubstate.
func (mr *MockInternalApiMockRecorder) PeekSubstate(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PeekSubstate", reflect.TypeOf((*MockInternalApi)(nil).PeekSubstate), arg0, arg1, arg2)
}

// ReadSubstate mocks base method.
func (m *MockInternalApi) ReadSubstate(arg0 keel.LockHandle) (keel.IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadSubstate", arg0)
	ret0, _ := ret[0].(keel.IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadSubstate indicates an expected call of ReadSubstate.
func (mr *MockInternalApiMockRecorder) ReadSubstate(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadSubstate", reflect.TypeOf((*MockInternalApi)(nil).ReadSubstate), arg0)
}

// RemoveSubstate mocks base method.
func (m *MockInternalApi) RemoveSubstate(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 keel.SubstateKey) (keel.IndexedValue, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveSubstate", arg0, arg1, arg2)
	ret0, _ := ret[0].(keel.IndexedValue)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// RemoveSubstate indicates an expected call of RemoveSubstate.
func (mr *MockInternalApiMockRecorder) RemoveSubstate(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveSubstate", reflect.TypeOf((*MockInternalApi)(nil).RemoveSubstate), arg0, arg1, arg2)
}

// ScanKeys mocks base method.
func (m *MockInternalApi) ScanKeys(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 uint32) ([]keel.SubstateKey, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScanKeys", arg0, arg1, arg2)
	ret0, _ := ret[0].([]keel.SubstateKey)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ScanKeys indicates an expected call of ScanKeys.
func (mr *MockInternalApiMockRecorder) ScanKeys(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScanKeys", reflect.TypeOf((*MockInternalApi)(nil).ScanKeys), arg0, arg1, arg2)
}

// ScanSortedSubstates mocks base method.
func (m *MockInternalApi) ScanSortedSubstates(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 uint32) ([]keel.Substate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ScanSortedSubstates", arg0, arg1, arg2)
	ret0, _ := ret[0].([]keel.Substate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ScanSortedSubstates indicates an expected call of ScanSortedSubstates.
func (mr *MockInternalApiMockRecorder) ScanSortedSubstates(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScanSortedSubstates", reflect.TypeOf((*MockInternalApi)(nil).ScanSortedSubstates), arg0, arg1, arg2)
}

// SetSubstate mocks base method.
func (m *MockInternalApi) SetSubstate(arg0 keel.NodeID, arg1 keel.PartitionNumber, arg2 keel.SubstateKey, arg3 keel.IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetSubstate", arg0, arg1, arg2, arg3)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetSubstate indicates an expected call of SetSubstate.
func (mr *MockInternalApiMockRecorder) SetSubstate(arg0, arg1, arg2, arg3 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetSubstate", reflect.TypeOf((*MockInternalApi)(nil).SetSubstate), arg0, arg1, arg2, arg3)
}

// WriteSubstate mocks base method.
func (m *MockInternalApi) WriteSubstate(arg0 keel.LockHandle, arg1 keel.IndexedValue) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WriteSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// WriteSubstate indicates an expected call of WriteSubstate.
func (mr *MockInternalApiMockRecorder) WriteSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteSubstate", reflect.TypeOf((*MockInternalApi)(nil).WriteSubstate), arg0, arg1)
}

// MockCallback is a mock of Callback interface.
type MockCallback struct {
	ctrl     *gomock.Controller
	recorder *MockCallbackMockRecorder
}

// MockCallbackMockRecorder is the mock recorder for MockCallback.
type MockCallbackMockRecorder struct {
	mock *MockCallback
}

// NewMockCallback creates a new mock instance.
func NewMockCallback(ctrl *gomock.Controller) *MockCallback {
	mock := &MockCallback{ctrl: ctrl}
	mock.recorder = &MockCallbackMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCallback) EXPECT() *MockCallbackMockRecorder {
	return m.recorder
}

// AfterPopFrame mocks base method.
func (m *MockCallback) AfterPopFrame(arg0 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AfterPopFrame", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// AfterPopFrame indicates an expected call of AfterPopFrame.
func (mr *MockCallbackMockRecorder) AfterPopFrame(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AfterPopFrame", reflect.TypeOf((*MockCallback)(nil).AfterPopFrame), arg0)
}

// AutoDrop mocks base method.
func (m *MockCallback) AutoDrop(arg0 []keel.NodeID, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AutoDrop", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// AutoDrop indicates an expected call of AutoDrop.
func (mr *MockCallbackMockRecorder) AutoDrop(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AutoDrop", reflect.TypeOf((*MockCallback)(nil).AutoDrop), arg0, arg1)
}

// BeforePushFrame mocks base method.
func (m *MockCallback) BeforePushFrame(arg0 keel.Actor, arg1 keel.IndexedValue, arg2 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeforePushFrame", arg0, arg1, arg2)
	ret0, _ := ret[0].(error)
	return ret0
}

// BeforePushFrame indicates an expected call of BeforePushFrame.
func (mr *MockCallbackMockRecorder) BeforePushFrame(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeforePushFrame", reflect.TypeOf((*MockCallback)(nil).BeforePushFrame), arg0, arg1, arg2)
}

// InvokeUpstream mocks base method.
func (m *MockCallback) InvokeUpstream(arg0 keel.IndexedValue, arg1 InternalApi) (keel.IndexedValue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InvokeUpstream", arg0, arg1)
	ret0, _ := ret[0].(keel.IndexedValue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// InvokeUpstream indicates an expected call of InvokeUpstream.
func (mr *MockCallbackMockRecorder) InvokeUpstream(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InvokeUpstream", reflect.TypeOf((*MockCallback)(nil).InvokeUpstream), arg0, arg1)
}

// OnAllocateNodeID mocks base method.
func (m *MockCallback) OnAllocateNodeID(arg0 keel.EntityType, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnAllocateNodeID", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnAllocateNodeID indicates an expected call of OnAllocateNodeID.
func (mr *MockCallbackMockRecorder) OnAllocateNodeID(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnAllocateNodeID", reflect.TypeOf((*MockCallback)(nil).OnAllocateNodeID), arg0, arg1)
}

// OnCloseSubstate mocks base method.
func (m *MockCallback) OnCloseSubstate(arg0 CloseSubstateEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnCloseSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnCloseSubstate indicates an expected call of OnCloseSubstate.
func (mr *MockCallbackMockRecorder) OnCloseSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnCloseSubstate", reflect.TypeOf((*MockCallback)(nil).OnCloseSubstate), arg0, arg1)
}

// OnCreateNode mocks base method.
func (m *MockCallback) OnCreateNode(arg0 CreateNodeEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnCreateNode", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnCreateNode indicates an expected call of OnCreateNode.
func (mr *MockCallbackMockRecorder) OnCreateNode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnCreateNode", reflect.TypeOf((*MockCallback)(nil).OnCreateNode), arg0, arg1)
}

// OnDropNode mocks base method.
func (m *MockCallback) OnDropNode(arg0 DropNodeEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnDropNode", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnDropNode indicates an expected call of OnDropNode.
func (mr *MockCallbackMockRecorder) OnDropNode(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnDropNode", reflect.TypeOf((*MockCallback)(nil).OnDropNode), arg0, arg1)
}

// OnExecutionFinish mocks base method.
func (m *MockCallback) OnExecutionFinish(arg0 keel.IndexedValue, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnExecutionFinish", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnExecutionFinish indicates an expected call of OnExecutionFinish.
func (mr *MockCallbackMockRecorder) OnExecutionFinish(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnExecutionFinish", reflect.TypeOf((*MockCallback)(nil).OnExecutionFinish), arg0, arg1)
}

// OnExecutionStart mocks base method.
func (m *MockCallback) OnExecutionStart(arg0 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnExecutionStart", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnExecutionStart indicates an expected call of OnExecutionStart.
func (mr *MockCallbackMockRecorder) OnExecutionStart(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnExecutionStart", reflect.TypeOf((*MockCallback)(nil).OnExecutionStart), arg0)
}

// OnInit mocks base method.
func (m *MockCallback) OnInit(arg0 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnInit", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnInit indicates an expected call of OnInit.
func (mr *MockCallbackMockRecorder) OnInit(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnInit", reflect.TypeOf((*MockCallback)(nil).OnInit), arg0)
}

// OnOpenSubstate mocks base method.
func (m *MockCallback) OnOpenSubstate(arg0 OpenSubstateEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnOpenSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnOpenSubstate indicates an expected call of OnOpenSubstate.
func (mr *MockCallbackMockRecorder) OnOpenSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnOpenSubstate", reflect.TypeOf((*MockCallback)(nil).OnOpenSubstate), arg0, arg1)
}

// OnReadSubstate mocks base method.
func (m *MockCallback) OnReadSubstate(arg0 ReadSubstateEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnReadSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnReadSubstate indicates an expected call of OnReadSubstate.
func (mr *MockCallbackMockRecorder) OnReadSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnReadSubstate", reflect.TypeOf((*MockCallback)(nil).OnReadSubstate), arg0, arg1)
}

// OnStoreAccess mocks base method.
func (m *MockCallback) OnStoreAccess(arg0 track.StoreAccess, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnStoreAccess", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnStoreAccess indicates an expected call of OnStoreAccess.
func (mr *MockCallbackMockRecorder) OnStoreAccess(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnStoreAccess", reflect.TypeOf((*MockCallback)(nil).OnStoreAccess), arg0, arg1)
}

// OnSubstateOperation mocks base method.
func (m *MockCallback) OnSubstateOperation(arg0 SubstateOperationEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnSubstateOperation", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnSubstateOperation indicates an expected call of OnSubstateOperation.
func (mr *MockCallbackMockRecorder) OnSubstateOperation(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnSubstateOperation", reflect.TypeOf((*MockCallback)(nil).OnSubstateOperation), arg0, arg1)
}

// OnTeardown mocks base method.
func (m *MockCallback) OnTeardown(arg0 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnTeardown", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnTeardown indicates an expected call of OnTeardown.
func (mr *MockCallbackMockRecorder) OnTeardown(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnTeardown", reflect.TypeOf((*MockCallback)(nil).OnTeardown), arg0)
}

// OnWriteSubstate mocks base method.
func (m *MockCallback) OnWriteSubstate(arg0 WriteSubstateEvent, arg1 InternalApi) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OnWriteSubstate", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// OnWriteSubstate indicates an expected call of OnWriteSubstate.
func (mr *MockCallbackMockRecorder) OnWriteSubstate(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnWriteSubstate", reflect.TypeOf((*MockCallback)(nil).OnWriteSubstate), arg0, arg1)
}

// Virtualize mocks base method.
func (m *MockCallback) Virtualize(arg0 keel.NodeID, arg1 InternalApi) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Virtualize", arg0, arg1)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Virtualize indicates an expected call of Virtualize.
func (mr *MockCallbackMockRecorder) Virtualize(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Virtualize", reflect.TypeOf((*MockCallback)(nil).Virtualize), arg0, arg1)
}
