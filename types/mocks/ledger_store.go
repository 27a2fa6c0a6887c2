package mocks

import (
	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/stretchr/testify/mock"
)

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Load() (distribution.LedgerState, error) {
	args := m.Called()
	return args.Get(0).(distribution.LedgerState), args.Error(1)
}

func (m *MockLedgerStore) Save(state distribution.LedgerState) error {
	args := m.Called(state)
	return args.Error(0)
}

func (m *MockLedgerStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ distribution.LedgerStore = (*MockLedgerStore)(nil)
