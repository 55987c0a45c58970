package mocks

import (
	"context"

	"docgen/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Replace(ctx context.Context, t *model.Template) (*model.Template, string, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.Template), args.String(1), args.Error(2)
}

func (m *MockTemplateRepository) FindByKind(ctx context.Context, kind model.DocumentKind) (*model.Template, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Template), args.Error(1)
}

func (m *MockTemplateRepository) DeleteByKind(ctx context.Context, kind model.DocumentKind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}
