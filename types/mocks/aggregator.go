package mocks

import (
	"context"

	"github.com/ardriveapp/astatine/node/aggregator"
	"github.com/stretchr/testify/mock"
)

type MockAggregator struct {
	mock.Mock
}

func (m *MockAggregator) Aggregate(
	ctx context.Context,
	window aggregator.Window,
	pageSize int,
) (*aggregator.Result, error) {
	args := m.Called(ctx, window, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregator.Result), args.Error(1)
}
