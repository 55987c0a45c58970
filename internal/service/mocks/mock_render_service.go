package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docgen/internal/model"
)

type MockRenderService struct {
	mock.Mock
}

func (m *MockRenderService) RenderProposal(ctx context.Context, rec *model.Proposal, format model.Format) (*model.Artifact, error) {
	args := m.Called(ctx, rec, format)
	if a, ok := args.Get(0).(*model.Artifact); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRenderService) RenderBilling(ctx context.Context, rec *model.Billing, format model.Format) (*model.Artifact, error) {
	args := m.Called(ctx, rec, format)
	if a, ok := args.Get(0).(*model.Artifact); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
