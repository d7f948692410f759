package mocks

import (
	"context"

	"dms/internal/model"
	"dms/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateWithContent(ctx context.Context, doc *model.DocumentMetadata, content *model.DocumentContent, ext string) (*model.DocumentMetadata, error) {
	args := m.Called(ctx, doc, content, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentMetadata), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id int64) (*model.DocumentMetadata, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentMetadata), args.Error(1)
}

func (m *MockDocumentRepository) FindContent(ctx context.Context, id int64) (*model.DocumentContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentContent), args.Error(1)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, id int64, p repository.DocumentPatch) (*model.DocumentMetadata, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentMetadata), args.Error(1)
}

func (m *MockDocumentRepository) ReplaceContent(ctx context.Context, id int64, content *model.DocumentContent, mimeType string) error {
	args := m.Called(ctx, id, content, mimeType)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListReport(ctx context.Context) ([]model.DocumentReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentReport), args.Error(1)
}
