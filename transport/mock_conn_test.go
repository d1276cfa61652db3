// File: transport/mock_conn_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Hand-written net.Conn mock in the shape go.uber.org/mock/mockgen
// would generate, used only where a real net.Pipe() can't assert
// relative call order (the handshake must write before it ever reads).

package transport

import (
	"net"
	"reflect"
	"time"

	"go.uber.org/mock/gomock"
)

// MockConn is a mock of the net.Conn interface.
type MockConn struct {
	ctrl     *gomock.Controller
	recorder *MockConnMockRecorder
}

// MockConnMockRecorder is the mock recorder for MockConn.
type MockConnMockRecorder struct {
	mock *MockConn
}

// NewMockConn creates a new mock instance.
func NewMockConn(ctrl *gomock.Controller) *MockConn {
	mock := &MockConn{ctrl: ctrl}
	mock.recorder = &MockConnMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockConn) EXPECT() *MockConnMockRecorder {
	return m.recorder
}

func (m *MockConn) Read(b []byte) (int, error) {
	ret := m.ctrl.Call(m, "Read", b)
	n, _ := ret[0].(int)
	err, _ := ret[1].(error)
	return n, err
}

func (mr *MockConnMockRecorder) Read(b interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockConn)(nil).Read), b)
}

func (m *MockConn) Write(b []byte) (int, error) {
	ret := m.ctrl.Call(m, "Write", b)
	n, _ := ret[0].(int)
	err, _ := ret[1].(error)
	return n, err
}

func (mr *MockConnMockRecorder) Write(b interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockConn)(nil).Write), b)
}

func (m *MockConn) Close() error {
	ret := m.ctrl.Call(m, "Close")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockConnMockRecorder) Close() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockConn)(nil).Close))
}

func (m *MockConn) LocalAddr() net.Addr {
	ret := m.ctrl.Call(m, "LocalAddr")
	addr, _ := ret[0].(net.Addr)
	return addr
}

func (mr *MockConnMockRecorder) LocalAddr() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LocalAddr", reflect.TypeOf((*MockConn)(nil).LocalAddr))
}

func (m *MockConn) RemoteAddr() net.Addr {
	ret := m.ctrl.Call(m, "RemoteAddr")
	addr, _ := ret[0].(net.Addr)
	return addr
}

func (mr *MockConnMockRecorder) RemoteAddr() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoteAddr", reflect.TypeOf((*MockConn)(nil).RemoteAddr))
}

func (m *MockConn) SetDeadline(t time.Time) error {
	ret := m.ctrl.Call(m, "SetDeadline", t)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockConnMockRecorder) SetDeadline(t interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetDeadline", reflect.TypeOf((*MockConn)(nil).SetDeadline), t)
}

func (m *MockConn) SetReadDeadline(t time.Time) error {
	ret := m.ctrl.Call(m, "SetReadDeadline", t)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockConnMockRecorder) SetReadDeadline(t interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetReadDeadline", reflect.TypeOf((*MockConn)(nil).SetReadDeadline), t)
}

func (m *MockConn) SetWriteDeadline(t time.Time) error {
	ret := m.ctrl.Call(m, "SetWriteDeadline", t)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockConnMockRecorder) SetWriteDeadline(t interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetWriteDeadline", reflect.TypeOf((*MockConn)(nil).SetWriteDeadline), t)
}
