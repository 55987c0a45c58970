package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docgen/internal/model"
)

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Upload(ctx context.Context, kind model.DocumentKind, r io.Reader, originalFilename string, size int64) (*model.Template, error) {
	args := m.Called(ctx, kind, r, originalFilename, size)
	if t, ok := args.Get(0).(*model.Template); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTemplateService) List(ctx context.Context) ([]model.Template, error) {
	args := m.Called(ctx)
	if ts, ok := args.Get(0).([]model.Template); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTemplateService) Clear(ctx context.Context, kind model.DocumentKind) error {
	args := m.Called(ctx, kind)
	return args.Error(0)
}
