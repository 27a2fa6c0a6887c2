package mocks

import (
	"context"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/stretchr/testify/mock"
)

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(
	ctx context.Context,
	instruction distribution.TransferInstruction,
) (string, error) {
	args := m.Called(ctx, instruction)
	return args.String(0), args.Error(1)
}

var _ distribution.Submitter = (*MockSubmitter)(nil)
