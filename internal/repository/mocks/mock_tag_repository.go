package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) ResolveOrCreate(ctx context.Context, names []string) (map[string]int64, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockTagRepository) Link(ctx context.Context, documentID int64, tagIDs []int64) (int, error) {
	args := m.Called(ctx, documentID, tagIDs)
	return args.Int(0), args.Error(1)
}
