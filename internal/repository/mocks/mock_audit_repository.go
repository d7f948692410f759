package mocks

import (
	"context"

	"dms/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, action model.AuditAction, userID string, documentID int64) error {
	args := m.Called(ctx, action, userID, documentID)
	return args.Error(0)
}
