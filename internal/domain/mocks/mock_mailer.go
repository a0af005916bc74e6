package mocks

import (
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockMailer is a mock of Mailer interface
type MockMailer struct {
	ctrl     *gomock.Controller
	recorder *MockMailerMockRecorder
}

// MockMailerMockRecorder is the mock recorder for MockMailer
type MockMailerMockRecorder struct {
	mock *MockMailer
}

// NewMockMailer creates a new mock instance
func NewMockMailer(ctrl *gomock.Controller) *MockMailer {
	mock := &MockMailer{ctrl: ctrl}
	mock.recorder = &MockMailerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockMailer) EXPECT() *MockMailerMockRecorder {
	return m.recorder
}

// SendDeadLetterAlert mocks base method
func (m *MockMailer) SendDeadLetterAlert(email, tenantID string, deadLetters int64, threshold int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SendDeadLetterAlert", email, tenantID, deadLetters, threshold)
	ret0, _ := ret[0].(error)
	return ret0
}

// SendDeadLetterAlert indicates an expected call of SendDeadLetterAlert
func (mr *MockMailerMockRecorder) SendDeadLetterAlert(email, tenantID, deadLetters, threshold interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendDeadLetterAlert", reflect.TypeOf((*MockMailer)(nil).SendDeadLetterAlert), email, tenantID, deadLetters, threshold)
}
