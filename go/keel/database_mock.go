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

// MockSubstateDatabase is a mock of SubstateDatabase interface.
type MockSubstateDatabase struct {
	ctrl     *gomock.Controller
	recorder *MockSubstateDatabaseMockRecorder
}

// MockSubstateDatabaseMockRecorder is the mock recorder for MockSubstateDatabase.
type MockSubstateDatabaseMockRecorder struct {
	mock *MockSubstateDatabase
}

// NewMockSubstateDatabase creates a new mock instance.
func NewMockSubstateDatabase(ctrl *gomock.Controller) *MockSubstateDatabase {
	mock := &MockSubstateDatabase{ctrl: ctrl}
	mock.recorder = &MockSubstateDatabaseMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSubstateDatabase) EXPECT() *MockSubstateDatabaseMockRecorder {
	return m.recorder
}

// Commit mocks base method.
func (m *MockSubstateDatabase) Commit(arg0 *DatabaseUpdates) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Commit", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// Commit indicates an expected call of Commit.
func (mr *MockSubstateDatabaseMockRecorder) Commit(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockSubstateDatabase)(nil).Commit), arg0)
}

// GetSubstate mocks base method.
func (m *MockSubstateDatabase) GetSubstate(arg0 NodeID, arg1 PartitionNumber, arg2 SubstateKey) ([]byte, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSubstate", arg0, arg1, arg2)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// GetSubstate indicates an expected call of GetSubstate.
func (mr *MockSubstateDatabaseMockRecorder) GetSubstate(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSubstate", reflect.TypeOf((*MockSubstateDatabase)(nil).GetSubstate), arg0, arg1, arg2)
}

// ListSubstates mocks base method.
func (m *MockSubstateDatabase) ListSubstates(arg0 NodeID, arg1 PartitionNumber) ([]DatabaseEntry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSubstates", arg0, arg1)
	ret0, _ := ret[0].([]DatabaseEntry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListSubstates indicates an expected call of ListSubstates.
func (mr *MockSubstateDatabaseMockRecorder) ListSubstates(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSubstates", reflect.TypeOf((*MockSubstateDatabase)(nil).ListSubstates), arg0, arg1)
}
