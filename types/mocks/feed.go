package mocks

import (
	"context"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/stretchr/testify/mock"
)

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) FetchPage(
	ctx context.Context,
	req distribution.PageRequest,
) (*distribution.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distribution.Page), args.Error(1)
}

var _ distribution.Feed = (*MockFeed)(nil)
